// Package schema registers every driftwm configuration property.
//
// Install is the single source of truth for the script-visible
// configuration tree: each leaf supplies its path, kind, and accessors
// over config.Config. The table must be complete before the global
// registry is first read; Global enforces that by building, installing,
// and freezing in one step.
package schema

import (
	"sync"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/config/registry"
)

var global struct {
	once sync.Once
	reg  *config.Registry
}

// Global returns the process-wide frozen registry, building it on first
// use. The schema is immutable for the process lifetime.
func Global() *config.Registry {
	global.once.Do(func() {
		r := registry.New[*config.Config]()
		Install(r)
		r.Freeze()
		global.reg = r
	})
	return global.reg
}

// Install registers the complete property table into r. The caller
// freezes the registry afterwards. Duplicate or reserved paths panic:
// they are schema bugs, not runtime conditions.
func Install(r *config.Registry) {
	installCursor(r)
	installLayout(r)
	installInput(r)
	installAnimations(r)
	installGestures(r)
	installOverview(r)
	installDebug(r)
	installTopLevel(r)

	// Decoration colors and widths repaint without relayout, so both
	// branches override the layout inference.
	r.OverrideCategory("layout.focus_ring", registry.CategoryDecorations)
	r.OverrideCategory("layout.border", registry.CategoryDecorations)
}

func installCursor(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "cursor.xcursor_theme",
		Kind: registry.String(),
		Get:  func(c *config.Config) any { return c.Cursor.XCursorTheme },
		Set:  func(c *config.Config, v any) { c.Cursor.XCursorTheme = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "cursor.xcursor_size",
		Kind: registry.Int(0, 255),
		Get:  func(c *config.Config) any { return c.Cursor.XCursorSize },
		Set:  func(c *config.Config, v any) { c.Cursor.XCursorSize = v.(int64) },
	})
	r.MustRegister(config.Property{
		Path: "cursor.hide_when_typing",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Cursor.HideWhenTyping },
		Set:  func(c *config.Config, v any) { c.Cursor.HideWhenTyping = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "cursor.hide_after_inactive_ms",
		Kind: registry.Int(0, 600000),
		Get:  func(c *config.Config) any { return c.Cursor.HideAfterInactiveMS },
		Set:  func(c *config.Config, v any) { c.Cursor.HideAfterInactiveMS = v.(int64) },
	})
}

func installLayout(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "layout.gaps",
		Kind: registry.Float(0, 1000),
		Get:  func(c *config.Config) any { return c.Layout.Gaps },
		Set:  func(c *config.Config, v any) { c.Layout.Gaps = v.(float64) },
	})
	r.MustRegister(config.Property{
		Path: "layout.center_focused_column",
		Kind: registry.Enum("CenterFocusedColumn", "Never", "Always", "OnOverflow"),
		Get:  func(c *config.Config) any { return c.Layout.CenterFocusedColumn },
		Set:  func(c *config.Config, v any) { c.Layout.CenterFocusedColumn = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "layout.always_center_single_column",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Layout.AlwaysCenterSingleColumn },
		Set:  func(c *config.Config, v any) { c.Layout.AlwaysCenterSingleColumn = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "layout.default_column_display",
		Kind: registry.Enum("ColumnDisplay", "Normal", "Tabbed"),
		Get:  func(c *config.Config) any { return c.Layout.DefaultColumnDisplay },
		Set:  func(c *config.Config, v any) { c.Layout.DefaultColumnDisplay = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "layout.preset_column_widths",
		Kind: registry.List(registry.Object(presetSizeShape)),
		Get:  func(c *config.Config) any { return presetsOut(c.Layout.PresetColumnWidths) },
		Set:  func(c *config.Config, v any) { c.Layout.PresetColumnWidths = presetsIn(v.([]any)) },
	})
	r.MustRegister(config.Property{
		Path: "layout.preset_window_heights",
		Kind: registry.List(registry.Object(presetSizeShape)),
		Get:  func(c *config.Config) any { return presetsOut(c.Layout.PresetWindowHeights) },
		Set:  func(c *config.Config, v any) { c.Layout.PresetWindowHeights = presetsIn(v.([]any)) },
	})

	installStruts(r)
	installDecoration(r, "layout.focus_ring", func(c *config.Config) *config.DecorationConfig {
		return &c.Layout.FocusRing
	})
	installDecoration(r, "layout.border", func(c *config.Config) *config.DecorationConfig {
		return &c.Layout.Border
	})
}

func installStruts(r *config.Registry) {
	for _, edge := range []struct {
		name string
		get  func(*config.StrutsConfig) *float64
	}{
		{"left", func(s *config.StrutsConfig) *float64 { return &s.Left }},
		{"right", func(s *config.StrutsConfig) *float64 { return &s.Right }},
		{"top", func(s *config.StrutsConfig) *float64 { return &s.Top }},
		{"bottom", func(s *config.StrutsConfig) *float64 { return &s.Bottom }},
	} {
		field := edge.get
		r.MustRegister(config.Property{
			Path: "layout.struts." + edge.name,
			Kind: registry.Float(-65535, 65535),
			Get:  func(c *config.Config) any { return *field(&c.Layout.Struts) },
			Set:  func(c *config.Config, v any) { *field(&c.Layout.Struts) = v.(float64) },
		})
	}
}

func installDecoration(r *config.Registry, prefix string, deco func(*config.Config) *config.DecorationConfig) {
	r.MustRegister(config.Property{
		Path: prefix + ".off",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return deco(c).Off },
		Set:  func(c *config.Config, v any) { deco(c).Off = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: prefix + ".width",
		Kind: registry.Float(0, 1024),
		Get:  func(c *config.Config) any { return deco(c).Width },
		Set:  func(c *config.Config, v any) { deco(c).Width = v.(float64) },
	})
	r.MustRegister(config.Property{
		Path: prefix + ".active_color",
		Kind: registry.Color(),
		Get:  func(c *config.Config) any { return deco(c).ActiveColor },
		Set:  func(c *config.Config, v any) { deco(c).ActiveColor = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: prefix + ".inactive_color",
		Kind: registry.Color(),
		Get:  func(c *config.Config) any { return deco(c).InactiveColor },
		Set:  func(c *config.Config, v any) { deco(c).InactiveColor = v.(string) },
	})
}

func installInput(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "input.keyboard.repeat_delay",
		Kind: registry.Int(1, 10000),
		Get:  func(c *config.Config) any { return c.Input.Keyboard.RepeatDelay },
		Set:  func(c *config.Config, v any) { c.Input.Keyboard.RepeatDelay = v.(int64) },
	})
	r.MustRegister(config.Property{
		Path: "input.keyboard.repeat_rate",
		Kind: registry.Int(1, 1000),
		Get:  func(c *config.Config) any { return c.Input.Keyboard.RepeatRate },
		Set:  func(c *config.Config, v any) { c.Input.Keyboard.RepeatRate = v.(int64) },
	})
	r.MustRegister(config.Property{
		Path: "input.keyboard.track_layout",
		Kind: registry.Enum("TrackLayout", "Global", "Window"),
		Get:  func(c *config.Config) any { return c.Input.Keyboard.TrackLayout },
		Set:  func(c *config.Config, v any) { c.Input.Keyboard.TrackLayout = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.keyboard.xkb.layout",
		Kind: registry.String(),
		Get:  func(c *config.Config) any { return c.Input.Keyboard.Xkb.Layout },
		Set:  func(c *config.Config, v any) { c.Input.Keyboard.Xkb.Layout = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.keyboard.xkb.options",
		Kind: registry.String(),
		Get:  func(c *config.Config) any { return c.Input.Keyboard.Xkb.Options },
		Set:  func(c *config.Config, v any) { c.Input.Keyboard.Xkb.Options = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.touchpad.tap",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Input.Touchpad.Tap },
		Set:  func(c *config.Config, v any) { c.Input.Touchpad.Tap = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "input.touchpad.natural_scroll",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Input.Touchpad.NaturalScroll },
		Set:  func(c *config.Config, v any) { c.Input.Touchpad.NaturalScroll = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "input.touchpad.accel_speed",
		Kind: registry.Float(-1, 1),
		Get:  func(c *config.Config) any { return c.Input.Touchpad.AccelSpeed },
		Set:  func(c *config.Config, v any) { c.Input.Touchpad.AccelSpeed = v.(float64) },
	})
	r.MustRegister(config.Property{
		Path: "input.touchpad.accel_profile",
		Kind: registry.Enum("AccelProfile", "Adaptive", "Flat"),
		Get:  func(c *config.Config) any { return c.Input.Touchpad.AccelProfile },
		Set:  func(c *config.Config, v any) { c.Input.Touchpad.AccelProfile = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.touchpad.scroll_method",
		Kind: registry.Enum("ScrollMethod", "NoScroll", "TwoFinger", "Edge", "OnButtonDown"),
		Get:  func(c *config.Config) any { return c.Input.Touchpad.ScrollMethod },
		Set:  func(c *config.Config, v any) { c.Input.Touchpad.ScrollMethod = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.mouse.natural_scroll",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Input.Mouse.NaturalScroll },
		Set:  func(c *config.Config, v any) { c.Input.Mouse.NaturalScroll = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "input.mouse.accel_speed",
		Kind: registry.Float(-1, 1),
		Get:  func(c *config.Config) any { return c.Input.Mouse.AccelSpeed },
		Set:  func(c *config.Config, v any) { c.Input.Mouse.AccelSpeed = v.(float64) },
	})
	r.MustRegister(config.Property{
		Path: "input.mouse.accel_profile",
		Kind: registry.Enum("AccelProfile", "Adaptive", "Flat"),
		Get:  func(c *config.Config) any { return c.Input.Mouse.AccelProfile },
		Set:  func(c *config.Config, v any) { c.Input.Mouse.AccelProfile = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "input.warp_mouse_to_focus",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Input.WarpMouseToFocus },
		Set:  func(c *config.Config, v any) { c.Input.WarpMouseToFocus = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "input.workspace_auto_back_and_forth",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Input.WorkspaceAutoBackAndForth },
		Set:  func(c *config.Config, v any) { c.Input.WorkspaceAutoBackAndForth = v.(bool) },
	})
}

func installAnimations(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "animations.off",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Animations.Off },
		Set:  func(c *config.Config, v any) { c.Animations.Off = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "animations.slowdown",
		Kind: registry.Float(0, 100),
		Get:  func(c *config.Config) any { return c.Animations.Slowdown },
		Set:  func(c *config.Config, v any) { c.Animations.Slowdown = v.(float64) },
	})
}

func installGestures(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "gestures.hot_corners_off",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.Gestures.HotCornersOff },
		Set:  func(c *config.Config, v any) { c.Gestures.HotCornersOff = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "gestures.dnd_edge_view_scroll_trigger_width",
		Kind: registry.Float(0, 65535),
		Get:  func(c *config.Config) any { return c.Gestures.DnDEdgeViewScrollTriggerWidth },
		Set:  func(c *config.Config, v any) { c.Gestures.DnDEdgeViewScrollTriggerWidth = v.(float64) },
	})
}

func installOverview(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "overview.zoom",
		Kind: registry.Float(0, 1),
		Get:  func(c *config.Config) any { return c.Overview.Zoom },
		Set:  func(c *config.Config, v any) { c.Overview.Zoom = v.(float64) },
	})
	r.MustRegister(config.Property{
		Path: "overview.backdrop_color",
		Kind: registry.Color(),
		Get:  func(c *config.Config) any { return c.Overview.BackdropColor },
		Set:  func(c *config.Config, v any) { c.Overview.BackdropColor = v.(string) },
	})
}

func installDebug(r *config.Registry) {
	// Debug toggles stay silent: scripts reacting to them would couple
	// to developer-only switches.
	r.MustRegister(config.Property{
		Path:     "debug.disable_transactions",
		Kind:     registry.Bool(),
		NoSignal: true,
		Get:      func(c *config.Config) any { return c.Debug.DisableTransactions },
		Set:      func(c *config.Config, v any) { c.Debug.DisableTransactions = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path:     "debug.damage_tracking",
		Kind:     registry.Enum("DamageTracking", "Full", "PerWindow", "Off"),
		NoSignal: true,
		Get:      func(c *config.Config) any { return c.Debug.DamageTracking },
		Set:      func(c *config.Config, v any) { c.Debug.DamageTracking = v.(string) },
	})
}

func installTopLevel(r *config.Registry) {
	r.MustRegister(config.Property{
		Path: "prefer_no_csd",
		Kind: registry.Bool(),
		Get:  func(c *config.Config) any { return c.PreferNoCSD },
		Set:  func(c *config.Config, v any) { c.PreferNoCSD = v.(bool) },
	})
	r.MustRegister(config.Property{
		Path: "screenshot_path",
		Kind: registry.String(),
		Get:  func(c *config.Config) any { return c.ScreenshotPath },
		Set:  func(c *config.Config, v any) { c.ScreenshotPath = v.(string) },
	})
	r.MustRegister(config.Property{
		Path: "spawn_at_startup",
		Kind: registry.List(registry.String()),
		Get: func(c *config.Config) any {
			out := make([]any, len(c.SpawnAtStartup))
			for i, cmd := range c.SpawnAtStartup {
				out[i] = cmd
			}
			return out
		},
		Set: func(c *config.Config, v any) {
			items := v.([]any)
			cmds := make([]string, len(items))
			for i, item := range items {
				cmds[i] = item.(string)
			}
			c.SpawnAtStartup = cmds
		},
	})
}

// presetSizeShape validates one preset width/height entry: a table with
// exactly one of proportion (0..1) or fixed (1..65535).
func presetSizeShape(path string, v map[string]any) (map[string]any, error) {
	_, hasProp := v["proportion"]
	_, hasFixed := v["fixed"]
	switch {
	case hasProp && hasFixed:
		return nil, &registry.ObjectError{Path: path, Message: "exactly one of proportion or fixed is allowed", Value: v}
	case !hasProp && !hasFixed:
		return nil, &registry.ObjectError{Path: path, Message: "one of proportion or fixed is required", Value: v}
	}
	for key := range v {
		if key != "proportion" && key != "fixed" {
			return nil, &registry.ObjectError{Path: path, Message: "unknown field " + key, Value: v}
		}
	}
	if hasProp {
		norm, err := registry.Float(0, 1).Normalize(path, v["proportion"])
		if err != nil {
			return nil, err
		}
		return map[string]any{"proportion": norm}, nil
	}
	norm, err := registry.Int(1, 65535).Normalize(path, v["fixed"])
	if err != nil {
		return nil, err
	}
	return map[string]any{"fixed": norm}, nil
}

// presetsOut renders the typed preset list in canonical form.
func presetsOut(presets []config.PresetSize) []any {
	out := make([]any, len(presets))
	for i, p := range presets {
		if p.Proportion != nil {
			out[i] = map[string]any{"proportion": *p.Proportion}
		} else if p.Fixed != nil {
			out[i] = map[string]any{"fixed": *p.Fixed}
		} else {
			out[i] = map[string]any{}
		}
	}
	return out
}

// presetsIn converts a normalized list back into the typed form.
func presetsIn(items []any) []config.PresetSize {
	presets := make([]config.PresetSize, len(items))
	for i, item := range items {
		entry := item.(map[string]any)
		if p, ok := entry["proportion"]; ok {
			f := p.(float64)
			presets[i].Proportion = &f
		} else if n, ok := entry["fixed"]; ok {
			x := n.(int64)
			presets[i].Fixed = &x
		}
	}
	return presets
}
