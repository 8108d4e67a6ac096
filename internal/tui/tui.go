// Package tui draws the snapshots published by the dispatcher and turns the
// player's keystrokes into dispatcher key events. It never changes game
// state; everything it shows comes from the latest snapshot.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/text-adventure/internal/dispatcher"
	"github.com/tatianab/text-adventure/internal/message"
	"github.com/tatianab/text-adventure/internal/models"
)

// snapshotMsg delivers one published model into the program.
type snapshotMsg struct {
	model models.Model
}

type model struct {
	snapshot models.Model
	// keys is the dispatcher's key source. Sends must never block.
	keys    chan<- dispatcher.KeyEvent
	spinner spinner.Model
	help    help.Model
	width   int
	height  int
}

func newModel(keys chan<- dispatcher.KeyEvent) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	h := help.New()
	h.Styles.ShortKey = helpStyle.Bold(true)
	h.Styles.ShortDesc = helpStyle
	h.Styles.ShortSeparator = dimStyle

	return model{
		keys:    keys,
		spinner: s,
		help:    h,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, ev := range translate(msg) {
			m.keys <- ev
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snapshot = msg.model
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = defaultWidth, defaultHeight
	}
	if menu, ok := m.snapshot.MainMenu(); ok {
		return renderMenu(menu, m.help, width, height)
	}
	if game, ok := m.snapshot.Game(); ok {
		return renderGame(game, m.help, m.spinner.View(), width, height)
	}
	return ""
}

// Renderer owns the terminal for the lifetime of the game. It is both the
// key input source and the consumer of the dispatcher's presentation channel.
type Renderer struct {
	program *tea.Program
	keys    chan<- dispatcher.KeyEvent
}

// NewRenderer creates a Renderer sending key events on keys. Run closes keys
// when the program ends.
func NewRenderer(keys chan<- dispatcher.KeyEvent, opts ...tea.ProgramOption) *Renderer {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &Renderer{
		program: tea.NewProgram(newModel(keys), opts...),
		keys:    keys,
	}
}

// Run takes over the terminal and blocks until the program quits, restoring
// the terminal before it returns.
func (r *Renderer) Run() error {
	defer close(r.keys)
	_, err := r.program.Run()
	return err
}

// Present feeds updates into the program in the order they arrive until
// Terminate is received or updates is closed, then stops the program.
func (r *Renderer) Present(updates <-chan message.Message) {
	defer r.program.Quit()
	for m := range updates {
		switch m := m.(type) {
		case message.StateUpdate:
			r.program.Send(snapshotMsg{model: m.Model})
		case message.Terminate:
			return
		}
	}
}
