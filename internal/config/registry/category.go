package registry

import "strings"

// Category is a coarse invalidation bucket. Successful writes record their
// property's category so the compositor can react per subsystem once per
// tick instead of recomputing everything on every change.
type Category uint8

const (
	// CategoryUnset on a property means the category is inferred from the
	// path's first segment.
	CategoryUnset Category = iota
	// CategoryMisc is the fallback bucket for unmapped path prefixes.
	CategoryMisc
	// CategoryCursor covers pointer appearance settings.
	CategoryCursor
	// CategoryLayout covers settings that force a relayout.
	CategoryLayout
	// CategoryInput covers libinput and keyboard settings.
	CategoryInput
	// CategoryAnimations covers animation tuning.
	CategoryAnimations
	// CategoryGestures covers gesture settings.
	CategoryGestures
	// CategoryOverview covers the overview mode.
	CategoryOverview
	// CategoryDecorations covers border and focus-ring appearance, which
	// repaint without relayout.
	CategoryDecorations
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryUnset:
		return "unset"
	case CategoryMisc:
		return "misc"
	case CategoryCursor:
		return "cursor"
	case CategoryLayout:
		return "layout"
	case CategoryInput:
		return "input"
	case CategoryAnimations:
		return "animations"
	case CategoryGestures:
		return "gestures"
	case CategoryOverview:
		return "overview"
	case CategoryDecorations:
		return "decorations"
	default:
		return "unknown"
	}
}

// categoryBySegment maps a path's first segment to its bucket. Unmapped
// segments fall back to CategoryMisc, so properties never need hand
// annotation unless a branch overrides the inference.
var categoryBySegment = map[string]Category{
	"cursor":     CategoryCursor,
	"layout":     CategoryLayout,
	"input":      CategoryInput,
	"animations": CategoryAnimations,
	"gestures":   CategoryGestures,
	"overview":   CategoryOverview,
}

// CategoryOf infers the category from a path's first dot-separated
// segment. It is total and deterministic: unmapped prefixes always yield
// CategoryMisc.
func CategoryOf(path string) Category {
	segment := path
	if i := strings.IndexByte(path, '.'); i >= 0 {
		segment = path[:i]
	}
	if c, ok := categoryBySegment[segment]; ok {
		return c
	}
	return CategoryMisc
}
