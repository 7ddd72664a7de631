// Package history provides the bounded back-navigation stack.
package history

// Stack is a last-in-first-out history bounded to max entries. Pushing
// onto a full stack drops the oldest entry, never the newest.
type Stack[T any] struct {
	entries []T
	max     int
}

// New creates an empty stack holding at most max entries.
func New[T any](max int) *Stack[T] {
	return &Stack[T]{max: max}
}

// Push appends an entry, evicting the oldest if the stack is full.
func (s *Stack[T]) Push(v T) {
	s.entries = append(s.entries, v)
	if s.max > 0 && len(s.entries) > s.max {
		// keep the most recent entries
		s.entries = s.entries[len(s.entries)-s.max:]
	}
}

// Pop removes and returns the most recent entry.
func (s *Stack[T]) Pop() (T, bool) {
	if len(s.entries) == 0 {
		var zero T
		return zero, false
	}
	last := len(s.entries) - 1
	v := s.entries[last]
	s.entries = s.entries[:last]
	return v, true
}

// Len returns the number of entries on the stack.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}
