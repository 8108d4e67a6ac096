package dispatcher

// KeyKind distinguishes presses from releases and auto-repeats. Only presses
// are handled.
type KeyKind int

const (
	KeyPress KeyKind = iota
	KeyRelease
	KeyRepeat
)

// KeyCode identifies the keys the state machine reacts to. Everything else
// arrives as KeyOther and is ignored.
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
)

// KeyEvent is one event from the key input source. Rune is set for KeyRune.
type KeyEvent struct {
	Kind KeyKind
	Code KeyCode
	Rune rune
}

// Press returns a press event for code.
func Press(code KeyCode) KeyEvent {
	return KeyEvent{Kind: KeyPress, Code: code}
}

// PressRune returns a press event for a printable character.
func PressRune(r rune) KeyEvent {
	return KeyEvent{Kind: KeyPress, Code: KeyRune, Rune: r}
}
