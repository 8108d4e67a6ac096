package models

import "slices"

// Model is the screen the player is on: exactly one of MainMenu or Game.
// Switching screens drops the previous screen's state.
type Model struct {
	menu *MainMenuState
	game *GameState
}

// NewMainMenuModel returns a Model showing a fresh main menu.
func NewMainMenuModel() Model {
	return Model{menu: NewMainMenuState()}
}

// NewGameModel returns a Model showing the given game.
func NewGameModel(state *GameState) Model {
	return Model{game: state}
}

// MainMenu returns the menu state when the menu is the active screen.
func (m Model) MainMenu() (*MainMenuState, bool) {
	return m.menu, m.menu != nil
}

// Game returns the game state when a game is the active screen.
func (m Model) Game() (*GameState, bool) {
	return m.game, m.game != nil
}

// Snapshot returns a deep copy that shares no memory with m.
func (m Model) Snapshot() Model {
	var s Model
	if m.menu != nil {
		menu := *m.menu
		menu.options = slices.Clone(m.menu.options)
		s.menu = &menu
	}
	if m.game != nil {
		game := *m.game
		game.inventory = slices.Clone(m.game.inventory)
		game.sceneHistory = slices.Clone(m.game.sceneHistory)
		s.game = &game
	}
	return s
}
