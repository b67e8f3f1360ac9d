// Package history keeps a bounded stack of buffer snapshots for undo.
package history

import (
	pximage "pixel-retouch/internal/image"
)

// DefaultDepth is the number of snapshots kept, including the loaded image.
const DefaultDepth = 10

// Stack holds deep copies of committed buffer states, oldest first.
// The top entry always equals the state the live buffer was last
// committed or undone to.
type Stack struct {
	depth   int
	entries []*pximage.Buffer
}

// New creates a stack seeded with a copy of the loaded image.
// A depth below 1 falls back to DefaultDepth.
func New(depth int, seed *pximage.Buffer) *Stack {
	if depth < 1 {
		depth = DefaultDepth
	}
	s := &Stack{depth: depth}
	s.Reset(seed)
	return s
}

// Reset discards all snapshots and seeds the stack with a copy of b.
func (s *Stack) Reset(b *pximage.Buffer) {
	clear(s.entries)
	s.entries = s.entries[:0]
	if b != nil {
		s.entries = append(s.entries, b.Clone())
	}
}

// Push stores a copy of b, dropping the oldest snapshot when full.
func (s *Stack) Push(b *pximage.Buffer) {
	s.entries = append(s.entries, b.Clone())
	if over := len(s.entries) - s.depth; over > 0 {
		clear(s.entries[:over])
		s.entries = s.entries[over:]
	}
}

// Undo drops the top snapshot and returns the new top. With one or no
// snapshots left it does nothing and returns false.
func (s *Stack) Undo() (*pximage.Buffer, bool) {
	if len(s.entries) <= 1 {
		return nil, false
	}
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return s.entries[len(s.entries)-1], true
}

// CanUndo reports whether Undo would change anything.
func (s *Stack) CanUndo() bool { return len(s.entries) > 1 }

// Len returns the number of stored snapshots.
func (s *Stack) Len() int { return len(s.entries) }

// Depth returns the maximum number of snapshots.
func (s *Stack) Depth() int { return s.depth }

// Top returns the most recent snapshot, or nil when empty.
// Callers must not modify it.
func (s *Stack) Top() *pximage.Buffer {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// At returns the i-th snapshot, oldest first.
func (s *Stack) At(i int) *pximage.Buffer {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}
