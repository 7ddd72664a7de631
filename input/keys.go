// Package input decodes terminal key presses and routes them through
// the modal key map.
//
// The key set mirrors a phone keypad: a four-way pad with a center
// button, two soft keys under the screen corners, a back key, and the
// volume rocker. On a terminal those arrive as arrows, F1/F2,
// backspace and PgUp/PgDn.
package input

import "unicode/utf8"

// Key identifies a decoded key press.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
	KeyEscape
	KeySoftLeft  // F1
	KeySoftRight // F2
	KeyPageUp
	KeyPageDown
	KeyRune
)

// KeyEvent is one decoded key press. Rune is set for KeyRune only.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// Decode reads one key press from the front of p and returns it with
// the number of bytes consumed. Unrecognized sequences decode to
// KeyNone so the caller can skip them.
func Decode(p []byte) (KeyEvent, int) {
	if len(p) == 0 {
		return KeyEvent{}, 0
	}

	switch p[0] {
	case 27: // escape introduces a sequence, or stands alone
		return decodeEscape(p)
	case 13, 10: // Enter
		return KeyEvent{Key: KeyEnter}, 1
	case 127, 8: // Backspace
		return KeyEvent{Key: KeyBackspace}, 1
	}

	if p[0] >= 32 {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size == 1 {
			return KeyEvent{Key: KeyNone}, 1
		}
		return KeyEvent{Key: KeyRune, Rune: r}, size
	}

	// remaining control bytes have no binding
	return KeyEvent{Key: KeyNone}, 1
}

func decodeEscape(p []byte) (KeyEvent, int) {
	if len(p) == 1 {
		return KeyEvent{Key: KeyEscape}, 1
	}

	switch p[1] {
	case '[':
		return decodeCSI(p)
	case 'O': // SS3 function keys
		if len(p) < 3 {
			return KeyEvent{Key: KeyNone}, len(p)
		}
		switch p[2] {
		case 'P':
			return KeyEvent{Key: KeySoftLeft}, 3
		case 'Q':
			return KeyEvent{Key: KeySoftRight}, 3
		}
		return KeyEvent{Key: KeyNone}, 3
	}

	// escape followed by an unrelated byte: treat as bare escape and
	// leave the next byte for the following decode
	return KeyEvent{Key: KeyEscape}, 1
}

func decodeCSI(p []byte) (KeyEvent, int) {
	for i := 2; i < len(p); i++ {
		b := p[i]
		if b < 0x40 || b > 0x7e { // parameter bytes keep the sequence open
			continue
		}
		consumed := i + 1
		switch string(p[2:consumed]) {
		case "A":
			return KeyEvent{Key: KeyUp}, consumed
		case "B":
			return KeyEvent{Key: KeyDown}, consumed
		case "C":
			return KeyEvent{Key: KeyRight}, consumed
		case "D":
			return KeyEvent{Key: KeyLeft}, consumed
		case "5~":
			return KeyEvent{Key: KeyPageUp}, consumed
		case "6~":
			return KeyEvent{Key: KeyPageDown}, consumed
		case "11~":
			return KeyEvent{Key: KeySoftLeft}, consumed
		case "12~":
			return KeyEvent{Key: KeySoftRight}, consumed
		}
		return KeyEvent{Key: KeyNone}, consumed
	}
	return KeyEvent{Key: KeyNone}, len(p)
}
