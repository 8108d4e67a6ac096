package models

// Main menu labels.
const (
	OptionNewGame  = "New Game"
	OptionContinue = "Continue"
	OptionSettings = "Settings"
	OptionQuit     = "Quit"
)

// MainMenuState is the list of menu options and the highlighted one.
// The selection wraps in both directions.
type MainMenuState struct {
	options   []string
	selection int
}

// NewMainMenuState returns the default menu with "New Game" selected.
func NewMainMenuState() *MainMenuState {
	return NewMainMenuStateWith(OptionNewGame, OptionContinue, OptionSettings, OptionQuit)
}

// NewMainMenuStateWith returns a menu over the given options. It panics when
// no options are given.
func NewMainMenuStateWith(options ...string) *MainMenuState {
	if len(options) == 0 {
		panic("models: main menu needs at least one option")
	}
	return &MainMenuState{options: options}
}

func (s *MainMenuState) SelectNext() {
	s.selection = (s.selection + 1) % len(s.options)
}

func (s *MainMenuState) SelectPrev() {
	s.selection = (s.selection + len(s.options) - 1) % len(s.options)
}

// Selection returns the label of the highlighted option.
func (s *MainMenuState) Selection() string {
	return s.options[s.selection]
}

func (s *MainMenuState) SelectionIndex() int {
	return s.selection
}

func (s *MainMenuState) Options() []string {
	return s.options
}
