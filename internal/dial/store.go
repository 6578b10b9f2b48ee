// Package dial holds the dial count and the value entered for each dial.
package dial

import "github.com/Arcadaos/ffxiii2-enigme/internal/config"

// Store owns the dial count and per-dial values. The number of values always
// equals the dial count. Store is not safe for concurrent use; it belongs to
// the event loop that edits it.
type Store struct {
	values     []int
	generation uint64
}

// NewStore returns a store with count zero-valued dials.
func NewStore(count int) *Store {
	s := &Store{}
	s.SetCount(count)
	return s
}

// SetCount resets the store to n dials, all zero, with n clamped to
// [0, config.MaxDials]. Values are never carried over, even when n equals
// the current count.
func (s *Store) SetCount(n int) {
	switch {
	case n < 0:
		n = 0
	case n > config.MaxDials:
		n = config.MaxDials
	}
	s.values = make([]int, n)
	s.generation++
}

// SetCountText parses raw as a dial count and applies it. Input that does
// not start with a number counts as zero.
func (s *Store) SetCountText(raw string) {
	s.SetCount(ParseInt(raw))
}

// SetValue parses raw and stores it at index. Malformed input stores zero.
// Indices outside the current range are ignored.
func (s *Store) SetValue(index int, raw string) {
	if index < 0 || index >= len(s.values) {
		return
	}
	s.values[index] = ParseInt(raw)
}

// Count returns the number of dials.
func (s *Store) Count() int { return len(s.values) }

// Value returns the value of dial index, or zero when index is out of range.
func (s *Store) Value(index int) int {
	if index < 0 || index >= len(s.values) {
		return 0
	}
	return s.values[index]
}

// Values returns a copy of all dial values in position order.
func (s *Store) Values() []int {
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}

// Generation increases on every count change. Work started against an older
// generation refers to a dial layout that no longer exists.
func (s *Store) Generation() uint64 { return s.generation }
