package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/text-adventure/internal/models"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	minInventoryWidth = 12
	maxInventoryWidth = 20
	inputHeight       = 3
	helpHeight        = 1
)

func renderMenu(menu *models.MainMenuState, h help.Model, width, height int) string {
	var b strings.Builder
	b.WriteString(menuTitleStyle.Render("TEXT ADVENTURE"))
	b.WriteString("\n")
	for i, option := range menu.Options() {
		if i == menu.SelectionIndex() {
			b.WriteString(selectedStyle.Render("> " + option))
		} else {
			b.WriteString(optionStyle.Render("  " + option))
		}
		b.WriteString("\n")
	}
	box := menuStyle.Render(strings.TrimSuffix(b.String(), "\n"))
	content := lipgloss.JoinVertical(lipgloss.Center, box, h.ShortHelpView(menuHelp))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderGame lays out the scene description and history on the left with
// the input line under them, and the inventory on the right.
func renderGame(game *models.GameState, h help.Model, spin string, width, height int) string {
	invWidth := inventoryWidth(game.Inventory())
	leftWidth := max(width-invWidth-2, 20)
	inner := leftWidth - 2

	desc := panelStyle.Width(inner).Render(
		sceneTitleStyle.Render(game.SceneTitle()) + "\n" + descStyle.Width(inner).Render(game.SceneDesc()),
	)

	historyHeight := max(height-lipgloss.Height(desc)-inputHeight-helpHeight-2, 3)
	lines := historyLines(game.SceneHistory(), inner)
	history := panelStyle.Width(inner).Height(historyHeight).Render(
		strings.Join(visibleLines(lines, game.ScrollPosition(), historyHeight), "\n"),
	)

	input := panelStyle.Width(inner).Render(inputLine(game, spin, inner))

	left := lipgloss.JoinVertical(lipgloss.Left, desc, history, input)
	right := panelStyle.Width(invWidth).Height(lipgloss.Height(left) - 2).Render(inventoryList(game.Inventory(), invWidth))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		h.ShortHelpView(gameHelp),
	)
}

func inputLine(game *models.GameState, spin string, width int) string {
	switch {
	case game.Over():
		return dimStyle.Render("The End. Press esc to leave.")
	case !game.EntryEnabled():
		return spin + dimStyle.Render(" The story unfolds...")
	}
	entry := game.UserEntry()
	// keep the cursor end of a long entry visible
	if r := []rune(entry); len(r) > width-3 && width > 3 {
		entry = string(r[len(r)-(width-3):])
	}
	return "> " + entry + "█"
}

// historyLines wraps each history entry to width and separates entries with
// a blank line. Player input is highlighted.
func historyLines(history []string, width int) []string {
	var lines []string
	for _, entry := range history {
		style := narrationStyle
		if strings.HasPrefix(entry, "> ") {
			style = userStyle
		}
		wrapped := lipgloss.NewStyle().Width(width).Render(entry)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, style.Render(strings.TrimRight(line, " ")))
		}
		lines = append(lines, "")
	}
	return lines
}

// visibleLines returns the window of at most height lines that ends scroll
// lines above the bottom. Scrolling past the top pins the window there.
func visibleLines(lines []string, scroll, height int) []string {
	if height <= 0 || len(lines) == 0 {
		return nil
	}
	n := min(height, len(lines))
	start := max(len(lines)-scroll-n, 0)
	return lines[start : start+n]
}

func inventoryWidth(inventory []string) int {
	widest := 0
	for _, item := range inventory {
		widest = max(widest, lipgloss.Width(item))
	}
	return min(max(minInventoryWidth, widest+2), maxInventoryWidth)
}

func inventoryList(inventory []string, width int) string {
	var b strings.Builder
	b.WriteString(sceneTitleStyle.Render("INVENTORY"))
	b.WriteString("\n")
	if len(inventory) == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
		return b.String()
	}
	for _, item := range inventory {
		if r := []rune(item); len(r) > width-2 {
			item = string(r[:width-4]) + ".."
		}
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
