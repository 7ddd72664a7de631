package render

import "time"

// SpinnerStyle defines different spinner animation styles.
type SpinnerStyle int

const (
	// SpinnerBraille uses smooth braille dot animation
	SpinnerBraille SpinnerStyle = iota
	// SpinnerWave uses a wave animation
	SpinnerWave
)

// Spinner provides an animated loading indicator.
type Spinner struct {
	style    SpinnerStyle
	frame    int
	lastTick time.Time
	interval time.Duration
}

// NewSpinner creates a new spinner with the given style.
func NewSpinner(style SpinnerStyle) *Spinner {
	return &Spinner{
		style:    style,
		lastTick: time.Now(),
		interval: 80 * time.Millisecond,
	}
}

// Tick advances the spinner animation if enough time has passed.
// Returns true if the frame changed.
func (s *Spinner) Tick() bool {
	now := time.Now()
	if now.Sub(s.lastTick) >= s.interval {
		s.frame++
		s.lastTick = now
		return true
	}
	return false
}

// Reset resets the spinner to its initial state.
func (s *Spinner) Reset() {
	s.frame = 0
	s.lastTick = time.Now()
}

// Frame returns the current animation frame string.
func (s *Spinner) Frame() string {
	frames := s.frames()
	return frames[s.frame%len(frames)]
}

// Width returns the display width of the spinner.
func (s *Spinner) Width() int {
	return StringWidth(s.Frame())
}

func (s *Spinner) frames() []string {
	switch s.style {
	case SpinnerWave:
		return []string{
			"▁▂▃▄▅▆▇█",
			"▂▃▄▅▆▇█▇",
			"▃▄▅▆▇█▇▆",
			"▄▅▆▇█▇▆▅",
			"▅▆▇█▇▆▅▄",
			"▆▇█▇▆▅▄▃",
			"▇█▇▆▅▄▃▂",
			"█▇▆▅▄▃▂▁",
			"▇▆▅▄▃▂▁▂",
			"▆▅▄▃▂▁▂▃",
			"▅▄▃▂▁▂▃▄",
			"▄▃▂▁▂▃▄▅",
			"▃▂▁▂▃▄▅▆",
			"▂▁▂▃▄▅▆▇",
			"▁▂▃▄▅▆▇█",
		}
	default:
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
}
