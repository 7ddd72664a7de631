// Package theme provides the color schemes and text size levels.
package theme

import "padbrowse/render"

// Color represents an RGB color that can render to ANSI.
type Color struct {
	R, G, B uint8
}

// Theme defines one color scheme. Document content uses terminal
// attributes (bold/dim/underline) not colors; themes control the UI
// chrome: background, soft-key bar, accents, feedback.
type Theme struct {
	Name string
	Dark bool

	// Base colors
	Background    Color // terminal background (ignored if TransparentBg is true)
	TransparentBg bool  // if true, use terminal's native background
	Foreground    Color // default text
	Dim           Color // dimmed/secondary text

	Accent Color // spinner, selection, active indicators
	Error  Color // failure notices
}

// Style creates a render.Style with the given foreground color.
func (c Color) Style() render.Style {
	return render.Style{Fg: render.RGB(c.R, c.G, c.B)}
}

// StyleBg creates a render.Style with the given background color.
func (c Color) StyleBg() render.Style {
	return render.Style{Bg: render.RGB(c.R, c.G, c.B)}
}

// StyleFgBg creates a render.Style with foreground and background colors.
func StyleFgBg(fg, bg Color) render.Style {
	return render.Style{
		Fg: render.RGB(fg.R, fg.G, fg.B),
		Bg: render.RGB(bg.R, bg.G, bg.B),
	}
}

// BaseStyle returns the base render.Style for the theme.
// If TransparentBg is true, no colors are set (terminal defaults used).
func (t *Theme) BaseStyle() render.Style {
	if t.TransparentBg {
		return render.Style{Fg: render.RGB(t.Foreground.R, t.Foreground.G, t.Foreground.B)}
	}
	return StyleFgBg(t.Foreground, t.Background)
}

// Hex creates a Color from a hex string like "#RRGGBB" or "RRGGBB".
func Hex(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}
	}
	return Color{
		R: hexByte(s[0:2]),
		G: hexByte(s[2:4]),
		B: hexByte(s[4:6]),
	}
}

func hexByte(s string) uint8 {
	var v uint8
	for _, c := range s {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v += uint8(c - 'A' + 10)
		}
	}
	return v
}

// Built-in schemes
var (
	// Dark uses the terminal's native background, so it works with any
	// terminal theme out of the box.
	Dark = &Theme{
		Name:          "dark",
		Dark:          true,
		TransparentBg: true,
		Foreground:    Hex("e0e0e0"),
		Dim:           Hex("666666"),
		Accent:        Hex("5fd7d7"),
		Error:         Hex("d75f5f"),
	}

	Light = &Theme{
		Name:       "light",
		Background: Hex("fafafa"),
		Foreground: Hex("1a1a1a"),
		Dim:        Hex("888888"),
		Accent:     Hex("00838f"),
		Error:      Hex("c62828"),
	}

	// Sepia is a warm paper-like scheme for long reading sessions.
	Sepia = &Theme{
		Name:       "sepia",
		Background: Hex("f4ecd8"),
		Foreground: Hex("5b4636"),
		Dim:        Hex("9b8b74"),
		Accent:     Hex("8b5e2a"),
		Error:      Hex("a63a2e"),
	}

	// Solarized is the dark variant of Ethan Schoonover's palette.
	Solarized = &Theme{
		Name:       "solarized",
		Dark:       true,
		Background: Hex("002b36"), // base03
		Foreground: Hex("839496"), // base0
		Dim:        Hex("586e75"), // base01
		Accent:     Hex("2aa198"), // cyan
		Error:      Hex("dc322f"), // red
	}

	// HighContrast is pure white on pure black for low-vision use.
	HighContrast = &Theme{
		Name:       "high-contrast",
		Dark:       true,
		Background: Hex("000000"),
		Foreground: Hex("ffffff"),
		Dim:        Hex("bbbbbb"),
		Accent:     Hex("ffff00"),
		Error:      Hex("ff4040"),
	}
)

// All contains the built-in schemes in cycling order.
var All = []*Theme{Dark, Light, Sepia, Solarized, HighContrast}

// Current is the active scheme.
var Current = Dark

// currentIndex tracks position in All for cycling.
var currentIndex = 0

// Set changes to a specific scheme by name.
func Set(name string) bool {
	for i, t := range All {
		if t.Name == name {
			Current = t
			currentIndex = i
			return true
		}
	}
	return false
}

// Next cycles to the next scheme, wrapping at the end.
func Next() {
	currentIndex = (currentIndex + 1) % len(All)
	Current = All[currentIndex]
}

// Text size levels. A character cell can't scale, so higher levels
// narrow the content column and add paragraph spacing instead.
const (
	MinSize     = 1
	MaxSize     = 5
	DefaultSize = 2
)

var currentSize = DefaultSize

// Size returns the active text size level (1..5).
func Size() int {
	return currentSize
}

// SetSize changes the text size level; out-of-range values are rejected.
func SetSize(n int) bool {
	if n < MinSize || n > MaxSize {
		return false
	}
	currentSize = n
	return true
}

// NextSize cycles to the next text size level, wrapping at the largest.
func NextSize() {
	currentSize++
	if currentSize > MaxSize {
		currentSize = MinSize
	}
}
