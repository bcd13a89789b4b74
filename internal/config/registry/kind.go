package registry

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// KindTag discriminates property value kinds.
type KindTag uint8

const (
	// KindBool is a boolean value.
	KindBool KindTag = iota
	// KindInt is an integer with inclusive bounds.
	KindInt
	// KindFloat is a floating-point number with inclusive bounds.
	KindFloat
	// KindString is a free-form string.
	KindString
	// KindEnum is one of a fixed set of case-sensitive variant strings.
	KindEnum
	// KindColor is a hex color string, canonicalized on write.
	KindColor
	// KindList is a homogeneous list validated element by element.
	KindList
	// KindObject is a table validated by a shape check.
	KindObject
)

// String returns the kind name used in error messages.
func (t KindTag) String() string {
	switch t {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindColor:
		return "color"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Kind describes the value shape of a property and carries the data its
// validation needs. Values accepted by Normalize are stored in a canonical
// representation: int64, float64, bool, string, []any, or map[string]any.
type Kind struct {
	// Tag is the kind discriminator.
	Tag KindTag

	// Name is the enum type name (enum kinds only).
	Name string

	// Variants lists the accepted enum values (enum kinds only).
	Variants []string

	// Min and Max are inclusive numeric bounds (int and float kinds).
	Min float64
	Max float64

	// Elem is the element kind (list kinds only).
	Elem *Kind

	// Shape validates and canonicalizes an object value (object kinds
	// only). It returns the canonical map or a shape error.
	Shape func(path string, v map[string]any) (map[string]any, error)
}

// Bool returns a boolean kind.
func Bool() Kind {
	return Kind{Tag: KindBool}
}

// Int returns an integer kind with inclusive bounds.
func Int(min, max int64) Kind {
	return Kind{Tag: KindInt, Min: float64(min), Max: float64(max)}
}

// Float returns a number kind with inclusive bounds.
func Float(min, max float64) Kind {
	return Kind{Tag: KindFloat, Min: min, Max: max}
}

// String returns a string kind.
func String() Kind {
	return Kind{Tag: KindString}
}

// Enum returns an enum kind. Matching is case-sensitive and exact.
func Enum(name string, variants ...string) Kind {
	return Kind{Tag: KindEnum, Name: name, Variants: variants}
}

// Color returns a hex color kind. Accepted forms are #rgb, #rrggbb and
// #rrggbbaa; stored canonically as lowercase #rrggbb or #rrggbbaa.
func Color() Kind {
	return Kind{Tag: KindColor}
}

// List returns a list kind whose elements are validated against elem.
func List(elem Kind) Kind {
	e := elem
	return Kind{Tag: KindList, Elem: &e}
}

// Object returns an object kind validated by shape.
func Object(shape func(path string, v map[string]any) (map[string]any, error)) Kind {
	return Kind{Tag: KindObject, Shape: shape}
}

// Normalize validates v against the kind and returns its canonical
// representation. It never mutates v; on error the returned value is nil.
// Lists are validated completely before any part is accepted: the first
// invalid element rejects the whole value with its 1-based index.
func (k Kind) Normalize(path string, v any) (any, error) {
	switch k.Tag {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "boolean", Value: v}
		}
		return b, nil

	case KindInt:
		n, ok := toInt64(v)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "integer", Value: v}
		}
		if f := float64(n); f < k.Min || f > k.Max {
			return nil, &RangeError{Path: path, Value: f, Min: k.Min, Max: k.Max}
		}
		return n, nil

	case KindFloat:
		f, ok := toFloat64(v)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "number", Value: v}
		}
		// NaN compares false against any bound, so it needs its own
		// rejection: a committed NaN would also be unrepresentable in
		// the JSON export.
		if math.IsNaN(f) || f < k.Min || f > k.Max {
			return nil, &RangeError{Path: path, Value: f, Min: k.Min, Max: k.Max}
		}
		return f, nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "string", Value: v}
		}
		return s, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "string", Value: v}
		}
		for _, variant := range k.Variants {
			if s == variant {
				return s, nil
			}
		}
		return nil, &EnumError{Path: path, Name: k.Name, Value: s, Variants: k.Variants}

	case KindColor:
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "color string", Value: v}
		}
		canon, ok := normalizeColor(s)
		if !ok {
			return nil, &ColorError{Path: path, Value: s}
		}
		return canon, nil

	case KindList:
		items, ok := toSlice(v)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "list", Value: v}
		}
		out := make([]any, len(items))
		for i, item := range items {
			norm, err := k.Elem.Normalize(path, item)
			if err != nil {
				return nil, &ArrayElementError{Path: path, Index: i + 1, Err: err}
			}
			out[i] = norm
		}
		return out, nil

	case KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: "object", Value: v}
		}
		return k.Shape(path, m)

	default:
		return nil, &TypeMismatchError{Path: path, Expected: "unknown", Value: v}
	}
}

// toInt64 widens integers and accepts integral floats. Script values
// arrive as float64 because Lua has a single number type.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) && n == float64(int64(n)) {
			return int64(n), true
		}
		return 0, false
	case float32:
		f := float64(n)
		if !math.IsNaN(f) && !math.IsInf(f, 0) && f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// normalizeColor parses a hex color and returns its canonical lowercase
// form. An 8-digit form keeps its alpha suffix; go-colorful handles the
// 3- and 6-digit forms.
func normalizeColor(s string) (string, bool) {
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	hex := s
	alpha := ""
	if len(s) == 9 {
		if _, err := strconv.ParseUint(s[7:], 16, 8); err != nil {
			return "", false
		}
		hex = s[:7]
		alpha = strings.ToLower(s[7:])
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return "", false
	}
	return c.Hex() + alpha, true
}
