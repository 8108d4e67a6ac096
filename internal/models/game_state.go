package models

import (
	"slices"
	"unicode/utf8"
)

// MaxEntryLength is the most characters the input line holds.
const MaxEntryLength = 100

// Opening scene shown until the first NewScene arrives.
const (
	defaultSceneName = "New Game"
	defaultSceneDesc = "You are in a dark room. Somewhere ahead, a story is waiting to be told."
)

// GameState represents one running game. It is only mutated by the dispatcher;
// everybody else sees snapshots.
type GameState struct {
	inventory    []string
	sceneName    string
	sceneDesc    string
	userEntry    string
	entryEnabled bool
	sceneHistory []string
	// scrollPosition counts lines up from the bottom of the history.
	scrollPosition int
	over           bool
}

func NewGameState() *GameState {
	return &GameState{
		sceneName:    defaultSceneName,
		sceneDesc:    defaultSceneDesc,
		entryEnabled: true,
	}
}

// AppendEntry adds c to the input line. Characters past MaxEntryLength are
// dropped.
func (s *GameState) AppendEntry(c rune) {
	if utf8.RuneCountInString(s.userEntry) >= MaxEntryLength {
		return
	}
	s.userEntry += string(c)
}

// RemoveLastEntry deletes the last character of the input line, if any.
func (s *GameState) RemoveLastEntry() {
	if s.userEntry == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.userEntry)
	s.userEntry = s.userEntry[:len(s.userEntry)-size]
}

// PushInputToHistory echoes the input line into the history as "> input"
// and clears it.
func (s *GameState) PushInputToHistory() {
	s.AppendSceneHistory("> " + s.userEntry)
	s.userEntry = ""
}

func (s *GameState) AppendSceneHistory(line string) {
	s.sceneHistory = append(s.sceneHistory, line)
	s.ScrollReset()
}

func (s *GameState) ScrollUp(amount int) {
	s.scrollPosition += amount
}

// ScrollDown moves towards the newest line, stopping at the bottom.
func (s *GameState) ScrollDown(amount int) {
	s.scrollPosition = max(s.scrollPosition-amount, 0)
}

func (s *GameState) ScrollReset() {
	s.scrollPosition = 0
}

// NewScene replaces the scene, clears its history and re-enables input.
func (s *GameState) NewScene(name, desc string) {
	s.sceneName = name
	s.sceneDesc = desc
	s.entryEnabled = true
	s.sceneHistory = nil
	s.ScrollReset()
}

func (s *GameState) AddToInventory(item string) {
	s.inventory = append(s.inventory, item)
}

// RemoveFromInventory drops every copy of item.
func (s *GameState) RemoveFromInventory(item string) {
	s.inventory = slices.DeleteFunc(s.inventory, func(i string) bool { return i == item })
}

func (s *GameState) EnableEntry()  { s.entryEnabled = true }
func (s *GameState) DisableEntry() { s.entryEnabled = false }

// End marks the game as finished and disables input for good.
func (s *GameState) End() {
	s.over = true
	s.entryEnabled = false
}

func (s *GameState) ScrollPosition() int    { return s.scrollPosition }
func (s *GameState) UserEntry() string      { return s.userEntry }
func (s *GameState) SceneTitle() string     { return s.sceneName }
func (s *GameState) SceneDesc() string      { return s.sceneDesc }
func (s *GameState) SceneHistory() []string { return s.sceneHistory }
func (s *GameState) Inventory() []string    { return s.inventory }
func (s *GameState) EntryEnabled() bool     { return s.entryEnabled }
func (s *GameState) Over() bool             { return s.over }
