package config

import (
	"sort"

	"go.uber.org/zap"

	"github.com/driftwm/driftwm/internal/cell"
	"github.com/driftwm/driftwm/internal/config/registry"
)

// Sink receives a notification after each successful mutation of a
// signalling property. Delivery is fire-and-forget: a failure is logged
// and never turns a committed write into an error.
type Sink interface {
	Publish(path string, value any) error
}

// State is the live configuration of one scripting environment: the
// configuration value inside a single-owner cell plus the invalidation
// categories accumulated since the last drain.
type State struct {
	reg     *Registry
	cfg     *cell.Cell[Config]
	pending map[registry.Category]struct{}
	sink    Sink
	log     *zap.Logger
}

// StateOption configures a State.
type StateOption func(*State)

// WithSink installs the change-notification sink.
func WithSink(s Sink) StateOption {
	return func(st *State) { st.sink = s }
}

// WithLogger sets the logger used for sink failures.
func WithLogger(log *zap.Logger) StateOption {
	return func(st *State) { st.log = log }
}

// NewState creates a State over a frozen registry, starting from the
// default configuration.
func NewState(reg *Registry, opts ...StateOption) *State {
	if reg == nil || !reg.Frozen() {
		panic("config: NewState requires a frozen registry")
	}
	st := &State{
		reg:     reg,
		cfg:     cell.New("config", Default()),
		pending: make(map[registry.Category]struct{}),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Registry returns the property table this state resolves against.
func (s *State) Registry() *Registry {
	return s.reg
}

// Get resolves a leaf property and returns its current value in canonical
// form.
func (s *State) Get(path string) (any, error) {
	prop := s.reg.Get(path)
	if prop == nil {
		return nil, &registry.UnknownPropertyError{Path: path}
	}
	var v any
	s.cfg.With(func(c *Config) {
		v = prop.Get(c)
	})
	return v, nil
}

// Set validates and applies a value to a leaf property. The ordering is a
// contract: validation strictly precedes the write, the write precedes
// category recording, and recording precedes signal emission, so a signal
// handler always observes the committed value and the recorded category.
// The configuration cell's borrow is released before the signal fires;
// handlers may re-enter Set, including for the same path.
func (s *State) Set(path string, value any) error {
	prop := s.reg.Get(path)
	if prop == nil {
		if s.reg.IsBranch(path) {
			return &registry.AssignToBranchError{Path: path}
		}
		return &registry.UnknownPropertyError{Path: path}
	}

	norm, err := prop.Kind.Normalize(path, value)
	if err != nil {
		return err
	}

	var committed any
	s.cfg.With(func(c *Config) {
		prop.Set(c, norm)
		committed = prop.Get(c)
	})

	s.pending[s.reg.CategoryFor(path)] = struct{}{}

	if s.sink != nil && !prop.NoSignal {
		if err := s.sink.Publish(path, committed); err != nil {
			s.log.Warn("config change signal failed",
				zap.String("path", path),
				zap.Error(err))
		}
	}
	return nil
}

// Snapshot returns a copy of the whole configuration value for host-side
// consumers. Slices inside the copy still alias the live value; property
// getters, not the snapshot, are the detached read path.
func (s *State) Snapshot() Config {
	return s.cfg.Snapshot()
}

// MarkDirty records a category outside the property write path, e.g.
// after the host reloads the configuration file wholesale.
func (s *State) MarkDirty(c registry.Category) {
	s.pending[c] = struct{}{}
}

// Dirty reports whether any categories are pending.
func (s *State) Dirty() bool {
	return len(s.pending) > 0
}

// Drain atomically returns and clears the pending categories, sorted by
// category value. A category recorded many times in one tick is reported
// once.
func (s *State) Drain() []registry.Category {
	if len(s.pending) == 0 {
		return nil
	}
	out := make([]registry.Category, 0, len(s.pending))
	for c := range s.pending {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	s.pending = make(map[registry.Category]struct{})
	return out
}
