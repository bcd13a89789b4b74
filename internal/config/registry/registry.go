// Package registry provides the property table for driftwm configuration.
//
// Every addressable configuration leaf is described once by a Property:
// its dotted path, value kind, invalidation category, and a getter/setter
// pair over the host configuration value. The Registry maps paths to
// properties, derives the branch structure from the path set, and is
// frozen after schema registration; it is read-only for the rest of the
// process lifetime.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// reservedSegments are path segments claimed by the script-side proxy
// surface and therefore unavailable to the schema.
var reservedSegments = map[string]bool{
	"iter":     true,
	"snapshot": true,
}

// Property describes one addressable configuration leaf: static metadata
// plus accessors over the host configuration value S.
type Property[S any] struct {
	// Path is the dot-separated path, e.g. "cursor.xcursor_size".
	Path string

	// Kind is the value shape and its validation data.
	Kind Kind

	// Category overrides inference when not CategoryUnset.
	Category Category

	// NoSignal suppresses change notification for this property.
	NoSignal bool

	// Get reads the current value in canonical form (int64, float64,
	// bool, string, []any, map[string]any). It must not mutate s.
	Get func(s S) any

	// Set writes a value previously accepted by Kind.Normalize. It is
	// infallible: all validation happens before the state is touched.
	Set func(s S, v any)
}

// Registry maps dotted paths to property descriptors. Register until the
// schema is complete, then Freeze; lookups require a frozen registry.
type Registry[S any] struct {
	props     map[string]*Property[S]
	order     []string
	children  map[string][]string
	overrides map[string]Category
	frozen    bool
}

// New creates an empty registry.
func New[S any]() *Registry[S] {
	return &Registry[S]{
		props:     make(map[string]*Property[S]),
		overrides: make(map[string]Category),
	}
}

// Register adds a property. Duplicate paths and reserved segments are
// schema bugs and return an error; registration after Freeze panics.
func (r *Registry[S]) Register(p Property[S]) error {
	if r.frozen {
		panic(fmt.Sprintf("registry: register %s: %v", p.Path, ErrFrozen))
	}
	if p.Path == "" || p.Get == nil || p.Set == nil {
		return fmt.Errorf("registry: property %q is incomplete", p.Path)
	}
	for _, segment := range strings.Split(p.Path, ".") {
		if reservedSegments[segment] {
			return fmt.Errorf("registry: %s: %w: %q", p.Path, ErrReservedSegment, segment)
		}
	}
	if _, exists := r.props[p.Path]; exists {
		return fmt.Errorf("registry: %w: %s", ErrAlreadyRegistered, p.Path)
	}
	prop := p
	r.props[p.Path] = &prop
	return nil
}

// MustRegister registers a property and panics on error. Schema
// registration runs once at startup, so errors here halt the process.
func (r *Registry[S]) MustRegister(p Property[S]) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// OverrideCategory assigns a category to every path at or under prefix.
// The override beats inference; a property's own explicit category beats
// the override.
func (r *Registry[S]) OverrideCategory(prefix string, c Category) {
	if r.frozen {
		panic(fmt.Sprintf("registry: override %s: %v", prefix, ErrFrozen))
	}
	r.overrides[prefix] = c
}

// Freeze sorts the path set, computes the branch index, and makes the
// registry read-only. A path registered as both a property and a prefix
// of another property panics: the branch would shadow the leaf on every
// proxy read.
func (r *Registry[S]) Freeze() {
	if r.frozen {
		return
	}
	r.order = make([]string, 0, len(r.props))
	for path := range r.props {
		r.order = append(r.order, path)
	}
	sort.Strings(r.order)

	r.children = make(map[string][]string)
	seen := make(map[string]bool)
	for _, path := range r.order {
		segments := strings.Split(path, ".")
		prefix := ""
		for _, segment := range segments {
			key := prefix + "\x00" + segment
			if !seen[key] {
				seen[key] = true
				r.children[prefix] = append(r.children[prefix], segment)
			}
			if prefix == "" {
				prefix = segment
			} else {
				prefix = prefix + "." + segment
			}
		}
	}
	for _, path := range r.order {
		if len(r.children[path]) > 0 {
			panic(fmt.Sprintf("registry: %s is registered as both a property and a section", path))
		}
	}
	r.frozen = true
}

// Frozen reports whether Freeze has run.
func (r *Registry[S]) Frozen() bool {
	return r.frozen
}

// Get returns the property at path, or nil if none is registered.
func (r *Registry[S]) Get(path string) *Property[S] {
	r.mustBeFrozen("Get")
	return r.props[path]
}

// Has reports whether a property is registered at path.
func (r *Registry[S]) Has(path string) bool {
	r.mustBeFrozen("Has")
	_, ok := r.props[path]
	return ok
}

// All returns every registered property in path order.
func (r *Registry[S]) All() []*Property[S] {
	r.mustBeFrozen("All")
	out := make([]*Property[S], len(r.order))
	for i, path := range r.order {
		out[i] = r.props[path]
	}
	return out
}

// Children returns the immediate child segments under prefix, in path
// order. The empty prefix yields the root segments. A path p is a child
// of prefix if it begins with prefix+"." and the remainder has no
// further dot.
func (r *Registry[S]) Children(prefix string) []string {
	r.mustBeFrozen("Children")
	kids := r.children[prefix]
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// IsBranch reports whether path has registered descendants. A branch is
// never itself assignable.
func (r *Registry[S]) IsBranch(path string) bool {
	r.mustBeFrozen("IsBranch")
	if path == "" {
		return true
	}
	return len(r.children[path]) > 0
}

// CategoryFor resolves the invalidation category for a path: an explicit
// property category wins, then the longest branch override, then
// first-segment inference.
func (r *Registry[S]) CategoryFor(path string) Category {
	r.mustBeFrozen("CategoryFor")
	if p, ok := r.props[path]; ok && p.Category != CategoryUnset {
		return p.Category
	}
	best := ""
	cat := CategoryUnset
	for prefix, c := range r.overrides {
		if (path == prefix || strings.HasPrefix(path, prefix+".")) && len(prefix) > len(best) {
			best = prefix
			cat = c
		}
	}
	if cat != CategoryUnset {
		return cat
	}
	return CategoryOf(path)
}

// mustBeFrozen guards lookups: reading an incomplete registry would
// silently misreport the schema, so it fails loudly instead.
func (r *Registry[S]) mustBeFrozen(op string) {
	if !r.frozen {
		panic(fmt.Sprintf("registry: %s before Freeze: schema registration is incomplete", op))
	}
}
