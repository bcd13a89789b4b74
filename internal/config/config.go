// Package config holds the driftwm configuration value and the per-script
// environment state built around it: the typed aggregate, the pending
// invalidation categories, and the mutation discipline that ties
// validation, the write, category recording, and change notification into
// one ordered step.
package config

import "github.com/driftwm/driftwm/internal/config/registry"

// Registry is the property table over the driftwm configuration value.
type Registry = registry.Registry[*Config]

// Property is one registered configuration leaf.
type Property = registry.Property[*Config]

// PresetSize is one entry of a preset width/height list. Exactly one of
// Proportion or Fixed is set.
type PresetSize struct {
	// Proportion is a fraction of the workspace dimension, 0..1.
	Proportion *float64
	// Fixed is a logical pixel size, 1..65535.
	Fixed *int64
}

// CursorConfig controls pointer appearance.
type CursorConfig struct {
	XCursorTheme        string
	XCursorSize         int64
	HideWhenTyping      bool
	HideAfterInactiveMS int64
}

// StrutsConfig shrinks the usable working area on each screen edge.
type StrutsConfig struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// DecorationConfig is shared by the focus ring and the border.
type DecorationConfig struct {
	Off           bool
	Width         float64
	ActiveColor   string
	InactiveColor string
}

// LayoutConfig controls window placement.
type LayoutConfig struct {
	Gaps                     float64
	CenterFocusedColumn      string
	AlwaysCenterSingleColumn bool
	DefaultColumnDisplay     string
	PresetColumnWidths       []PresetSize
	PresetWindowHeights      []PresetSize
	Struts                   StrutsConfig
	FocusRing                DecorationConfig
	Border                   DecorationConfig
}

// XkbConfig selects the keyboard layout.
type XkbConfig struct {
	Layout  string
	Options string
}

// KeyboardConfig controls key repeat and layout tracking.
type KeyboardConfig struct {
	RepeatDelay int64
	RepeatRate  int64
	TrackLayout string
	Xkb         XkbConfig
}

// TouchpadConfig controls libinput touchpad behavior.
type TouchpadConfig struct {
	Tap           bool
	NaturalScroll bool
	AccelSpeed    float64
	AccelProfile  string
	ScrollMethod  string
}

// MouseConfig controls libinput mouse behavior.
type MouseConfig struct {
	NaturalScroll bool
	AccelSpeed    float64
	AccelProfile  string
}

// InputConfig groups all input device settings.
type InputConfig struct {
	Keyboard                  KeyboardConfig
	Touchpad                  TouchpadConfig
	Mouse                     MouseConfig
	WarpMouseToFocus          bool
	WorkspaceAutoBackAndForth bool
}

// AnimationsConfig tunes animations.
type AnimationsConfig struct {
	Off      bool
	Slowdown float64
}

// GesturesConfig controls gesture behavior.
type GesturesConfig struct {
	HotCornersOff                 bool
	DnDEdgeViewScrollTriggerWidth float64
}

// OverviewConfig controls the workspace overview.
type OverviewConfig struct {
	Zoom          float64
	BackdropColor string
}

// DebugConfig holds developer toggles. Changes here do not notify
// scripts.
type DebugConfig struct {
	DisableTransactions bool
	DamageTracking      string
}

// Config is the complete driftwm configuration value. All mutation goes
// through property setters; the host never writes fields directly while
// scripting is live.
type Config struct {
	Cursor         CursorConfig
	Layout         LayoutConfig
	Input          InputConfig
	Animations     AnimationsConfig
	Gestures       GesturesConfig
	Overview       OverviewConfig
	Debug          DebugConfig
	PreferNoCSD    bool
	ScreenshotPath string
	SpawnAtStartup []string
}

// Default returns the configuration every environment starts from.
func Default() Config {
	return Config{
		Cursor: CursorConfig{
			XCursorTheme:        "default",
			XCursorSize:         24,
			HideWhenTyping:      false,
			HideAfterInactiveMS: 0,
		},
		Layout: LayoutConfig{
			Gaps:                     16,
			CenterFocusedColumn:      "Never",
			AlwaysCenterSingleColumn: false,
			DefaultColumnDisplay:     "Normal",
			PresetColumnWidths: []PresetSize{
				{Proportion: ptr(1.0 / 3.0)},
				{Proportion: ptr(0.5)},
				{Proportion: ptr(2.0 / 3.0)},
			},
			PresetWindowHeights: nil,
			Struts:              StrutsConfig{},
			FocusRing: DecorationConfig{
				Off:           false,
				Width:         4,
				ActiveColor:   "#7fc8ff",
				InactiveColor: "#505050",
			},
			Border: DecorationConfig{
				Off:           true,
				Width:         4,
				ActiveColor:   "#ffc87f",
				InactiveColor: "#505050",
			},
		},
		Input: InputConfig{
			Keyboard: KeyboardConfig{
				RepeatDelay: 600,
				RepeatRate:  25,
				TrackLayout: "Global",
				Xkb:         XkbConfig{Layout: "", Options: ""},
			},
			Touchpad: TouchpadConfig{
				Tap:           true,
				NaturalScroll: false,
				AccelSpeed:    0,
				AccelProfile:  "Adaptive",
				ScrollMethod:  "TwoFinger",
			},
			Mouse: MouseConfig{
				NaturalScroll: false,
				AccelSpeed:    0,
				AccelProfile:  "Adaptive",
			},
			WarpMouseToFocus:          false,
			WorkspaceAutoBackAndForth: false,
		},
		Animations: AnimationsConfig{Off: false, Slowdown: 1},
		Gestures: GesturesConfig{
			HotCornersOff:                 false,
			DnDEdgeViewScrollTriggerWidth: 30,
		},
		Overview: OverviewConfig{Zoom: 0.5, BackdropColor: "#777777"},
		Debug: DebugConfig{
			DisableTransactions: false,
			DamageTracking:      "Full",
		},
		PreferNoCSD:    false,
		ScreenshotPath: "~/Pictures/Screenshots",
		SpawnAtStartup: nil,
	}
}

func ptr[T any](v T) *T {
	return &v
}
