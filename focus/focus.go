// Package focus implements directional link selection for D-pad input.
package focus

import (
	"math"
	"sort"

	"padbrowse/document"
)

// Direction of focus movement.
type Direction int

const (
	Up Direction = iota
	Down
)

// View describes the visible window over a rendered document.
type View struct {
	Height        int
	ContentHeight int
}

// Order returns links sorted for sequential traversal: top to bottom,
// then left to right, preserving document order for ties. When every
// link sits on the same row the page's own layout hints order them
// instead, so a portal page rendered onto one line still cycles in its
// visual order.
func Order(links []document.Link) []document.Link {
	ordered := make([]document.Link, len(links))
	copy(ordered, links)

	if len(ordered) > 1 && sameRow(ordered) {
		sort.SliceStable(ordered, func(i, j int) bool {
			if a, b := hintValue(ordered[i].HintTop), hintValue(ordered[j].HintTop); a != b {
				return a < b
			}
			return hintValue(ordered[i].HintLeft) < hintValue(ordered[j].HintLeft)
		})
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Y != ordered[j].Y {
			return ordered[i].Y < ordered[j].Y
		}
		return ordered[i].X < ordered[j].X
	})
	return ordered
}

func sameRow(links []document.Link) bool {
	for _, l := range links[1:] {
		if l.Y != links[0].Y {
			return false
		}
	}
	return true
}

// Links without hints sort after all hinted ones.
func hintValue(v int) int {
	if v < 0 {
		return math.MaxInt
	}
	return v
}

// SelectIndex wraps an arbitrary index onto [0, n). Negative indexes
// wrap backwards from the end; -1 means no valid selection exists.
func SelectIndex(i, n int) int {
	if n <= 0 {
		return -1
	}
	return ((i % n) + n) % n
}

// NearestTo picks the link whose row is closest to centerY, preferring
// candidates on the requested side of it: a link strictly beyond the
// center in the direction of travel counts at half its distance.
// Returns -1 when links is empty.
func NearestTo(dir Direction, centerY int, links []document.Link) int {
	best := -1
	bestScore := math.MaxInt
	for i, l := range links {
		d := l.Y - centerY
		if d < 0 {
			d = -d
		}
		score := d * 2
		if (dir == Down && l.Y > centerY) || (dir == Up && l.Y < centerY) {
			score = d
		}
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// ScrollTo returns the scroll offset that places a link a third of the
// way down the view, clamped to the document bounds.
func ScrollTo(l document.Link, v View) int {
	target := l.Y - v.Height/3
	if max := v.ContentHeight - v.Height; target > max {
		target = max
	}
	if target < 0 {
		target = 0
	}
	return target
}
