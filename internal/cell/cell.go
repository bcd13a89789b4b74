// Package cell provides the guarded containers for state shared between
// the compositor core and the scripting runtime.
//
// Two containers exist. Cell holds values owned by the event-loop
// goroutine: access is unsynchronized, and a reentrant borrow panics so
// that call cycles (a change handler mutating a value that is still being
// written) surface as bugs instead of corrupting state. SyncCell is the
// escape hatch for the few values that background goroutines must touch;
// it trades the reentrancy diagnostics for a mutex.
package cell

import (
	"fmt"
	"sync"
)

// Cell holds a value owned by a single goroutine.
type Cell[T any] struct {
	name     string
	value    T
	borrowed bool
}

// New returns a Cell holding v. The name appears in reentrancy panics.
func New[T any](name string, v T) *Cell[T] {
	return &Cell[T]{name: name, value: v}
}

// With runs fn with exclusive access to the value. Calling With or
// Snapshot again from inside fn panics: the borrow must be released before
// control reaches code that may re-enter, such as change handlers.
func (c *Cell[T]) With(fn func(*T)) {
	if c.borrowed {
		panic(fmt.Sprintf("cell %s: reentrant borrow", c.name))
	}
	c.borrowed = true
	defer func() { c.borrowed = false }()
	fn(&c.value)
}

// Snapshot returns a shallow copy of the value.
func (c *Cell[T]) Snapshot() T {
	if c.borrowed {
		panic(fmt.Sprintf("cell %s: snapshot during borrow", c.name))
	}
	return c.value
}

// SyncCell holds a value that crosses goroutines.
type SyncCell[T any] struct {
	mu    sync.Mutex
	value T
}

// NewSync returns a SyncCell holding v.
func NewSync[T any](v T) *SyncCell[T] {
	return &SyncCell[T]{value: v}
}

// With runs fn with the lock held.
func (c *SyncCell[T]) With(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.value)
}

// Snapshot returns a shallow copy of the value.
func (c *SyncCell[T]) Snapshot() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
