// Package event delivers configuration change signals.
//
// The Notifier implements an observer pattern over dotted property
// paths: handlers subscribe globally or to a path prefix and are invoked
// synchronously, on the event-loop goroutine, after a mutation has
// committed. A panicking handler is recovered and logged; it never
// unwinds into the write that triggered it.
package event

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Change is one committed configuration mutation.
type Change struct {
	// Path is the dotted path of the property that changed.
	Path string

	// Value is the committed value, as observable through the property
	// getter at the time the signal fired.
	Value any
}

// Handler receives change signals.
type Handler func(Change)

// Subscription is an active handler registration.
type Subscription struct {
	id       string
	notifier *Notifier
}

// ID returns the subscription token.
func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe removes the handler. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier fans change signals out to subscribed handlers.
type Notifier struct {
	mu     sync.RWMutex
	global map[string]Handler
	byPath map[string]map[string]Handler
	log    *zap.Logger
}

// New creates a Notifier. A nil logger is replaced with a no-op logger.
func New(log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		global: make(map[string]Handler),
		byPath: make(map[string]map[string]Handler),
		log:    log,
	}
}

// Subscribe registers a handler for every change.
func (n *Notifier) Subscribe(h Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	n.global[id] = h
	return &Subscription{id: id, notifier: n}
}

// SubscribePath registers a handler for changes at or under path.
// Subscribing to "layout" receives changes to "layout.gaps".
func (n *Notifier) SubscribePath(path string, h Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	if n.byPath[path] == nil {
		n.byPath[path] = make(map[string]Handler)
	}
	n.byPath[path][id] = h
	return &Subscription{id: id, notifier: n}
}

// Publish delivers a change to every matching handler. It implements the
// config sink contract: delivery problems are contained here, so it
// always returns nil and the mutation that fired it stays committed.
func (n *Notifier) Publish(path string, value any) error {
	n.mu.RLock()
	handlers := make([]Handler, 0, len(n.global))
	for _, h := range n.global {
		handlers = append(handlers, h)
	}
	for prefix, subs := range n.byPath {
		if prefix == path || isParentPath(prefix, path) {
			for _, h := range subs {
				handlers = append(handlers, h)
			}
		}
	}
	n.mu.RUnlock()

	change := Change{Path: path, Value: value}
	for _, h := range handlers {
		n.deliver(h, change)
	}
	return nil
}

func (n *Notifier) deliver(h Handler, change Change) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("change handler panicked",
				zap.String("path", change.Path),
				zap.Any("panic", r))
		}
	}()
	h(change)
}

func (n *Notifier) unsubscribe(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for path, subs := range n.byPath {
		delete(subs, id)
		if len(subs) == 0 {
			delete(n.byPath, path)
		}
	}
}

// isParentPath reports whether parent is a proper prefix path of child,
// e.g. "layout" is a parent of "layout.gaps".
func isParentPath(parent, child string) bool {
	if len(parent) >= len(child) {
		return false
	}
	return child[:len(parent)] == parent && child[len(parent)] == '.'
}
