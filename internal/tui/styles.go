package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTitle  = lipgloss.Color("#FFA500")
	colorText   = lipgloss.Color("#FFFFFF")
	colorDesc   = lipgloss.Color("#E5C07B")
	colorDim    = lipgloss.Color("#888888")
	colorBorder = lipgloss.Color("#3C3C3C")
	colorUser   = lipgloss.Color("#5F5F87")
)

var (
	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 4)

	menuTitleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(colorText)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder)

	sceneTitleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true).
			Underline(true)

	descStyle = lipgloss.NewStyle().
			Foreground(colorDesc)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(colorUser).
			Bold(true)

	narrationStyle = lipgloss.NewStyle().
			Foreground(colorText)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorTitle)
)
