package script

import (
	"testing"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/config/registry"
	"github.com/driftwm/driftwm/internal/config/schema"
)

type recordSink struct {
	paths  []string
	values []any
}

func (s *recordSink) Publish(path string, value any) error {
	s.paths = append(s.paths, path)
	s.values = append(s.values, value)
	return nil
}

func newTestEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()
	env, err := New(config.NewState(schema.Global()), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

func mustEval(t *testing.T, env *Env, src string) {
	t.Helper()
	if err := env.Eval(src); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestProxy_ReadDefaults(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		assert(drift.config.cursor.xcursor_size == 24)
		assert(drift.config.cursor.xcursor_theme == "default")
		assert(drift.config.layout.gaps == 16)
		assert(drift.config.layout.center_focused_column == "Never")
		assert(drift.config.layout.border.off == true)
		assert(drift.config.layout.focus_ring.active_color == "#7fc8ff")
		assert(drift.config.input.touchpad.tap == true)
	`)
}

func TestProxy_WriteAndReadBack(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		drift.config.layout.gaps = 24
		assert(drift.config.layout.gaps == 24)
		drift.config.layout.center_focused_column = "Always"
		assert(drift.config.layout.center_focused_column == "Always")
		drift.config.cursor.hide_when_typing = true
		assert(drift.config.cursor.hide_when_typing == true)
	`)

	// The write went through to the shared store, not a Lua-side shadow.
	v, err := env.Store().Get("layout.gaps")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != float64(24) {
		t.Errorf("store value = %v, want 24", v)
	}
}

func TestProxy_InvalidWriteIsCatchableAndAtomic(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local ok, err = pcall(function() drift.config.layout.gaps = -5 end)
		assert(not ok, "out-of-range write must fail")
		err = tostring(err)
		assert(string.find(err, "layout.gaps", 1, true), "error must name the full path: " .. err)
		assert(string.find(err, "-5", 1, true), "error must carry the offending value: " .. err)
		assert(drift.config.layout.gaps == 16, "failed write must leave the value untouched")

		ok = pcall(function() drift.config.layout.gaps = 0/0 end)
		assert(not ok, "NaN must not commit into a bounded field")
		ok = pcall(function() drift.config.layout.gaps = 1/0 end)
		assert(not ok, "Inf must not commit into a bounded field")
		assert(drift.config.layout.gaps == 16)
	`)
	if env.Store().Dirty() {
		t.Error("failed write must not record a dirty category")
	}
}

func TestProxy_EnumRejectsUnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local ok, err = pcall(function()
			drift.config.layout.center_focused_column = "Sometimes"
		end)
		assert(not ok)
		err = tostring(err)
		assert(string.find(err, "layout.center_focused_column", 1, true), err)
		assert(string.find(err, "Never", 1, true), "error must list the variants: " .. err)
		assert(drift.config.layout.center_focused_column == "Never")
	`)
}

func TestProxy_TypeMismatch(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local ok, err = pcall(function() drift.config.cursor.xcursor_size = "big" end)
		assert(not ok)
		assert(string.find(tostring(err), "cursor.xcursor_size", 1, true), tostring(err))
		assert(drift.config.cursor.xcursor_size == 24)
	`)
}

func TestProxy_UnknownProperty(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local ok, err = pcall(function() return drift.config.cursor.sparkle end)
		assert(not ok, "reading an unknown property must fail")
		assert(string.find(tostring(err), "cursor.sparkle", 1, true), tostring(err))

		ok, err = pcall(function() drift.config.cursor.sparkle = 1 end)
		assert(not ok, "writing an unknown property must fail")
		assert(string.find(tostring(err), "cursor.sparkle", 1, true), tostring(err))

		ok, err = pcall(function() return drift.config.bogus end)
		assert(not ok)
		assert(string.find(tostring(err), "bogus", 1, true), tostring(err))
	`)
}

func TestProxy_AssignToBranch(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local ok, err = pcall(function() drift.config.layout = 5 end)
		assert(not ok, "assigning to a branch must fail")
		assert(string.find(tostring(err), "layout", 1, true), tostring(err))

		ok, err = pcall(function() drift.config.input.keyboard = {} end)
		assert(not ok)
		assert(string.find(tostring(err), "input.keyboard", 1, true), tostring(err))
	`)
}

func TestProxy_ListOfObjects(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		drift.config.layout.preset_column_widths = { {proportion = 0.25}, {fixed = 800} }
		local widths = drift.config.layout.preset_column_widths
		assert(#widths == 2)
		assert(widths[1].proportion == 0.25)
		assert(widths[2].fixed == 800)

		local ok, err = pcall(function()
			drift.config.layout.preset_column_widths = { {proportion = 0.5}, {proportion = 2} }
		end)
		assert(not ok, "a bad element must reject the whole list")
		assert(string.find(tostring(err), "preset_column_widths", 1, true), tostring(err))
		assert(#drift.config.layout.preset_column_widths == 2, "rejected list must not partially apply")
	`)
}

func TestProxy_Iter(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local names = {}
		for name, value in drift.config.cursor:iter() do
			names[#names + 1] = name
			assert(value ~= nil)
		end
		assert(#names == 4, "cursor has 4 leaves, got " .. #names)
		-- Path order is stable and sorted.
		assert(names[1] == "hide_after_inactive_ms", names[1])
		assert(names[2] == "hide_when_typing", names[2])
		assert(names[3] == "xcursor_size", names[3])
		assert(names[4] == "xcursor_theme", names[4])

		-- Branch children come back as proxies, usable for nesting.
		local seen_branch = false
		for name, value in drift.config:iter() do
			if name == "cursor" then
				seen_branch = true
				assert(tostring(value) == "drift.config.cursor")
			end
		end
		assert(seen_branch)
	`)
}

func TestProxy_Snapshot(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		local snap = drift.config.layout:snapshot()
		assert(snap.gaps == 16)
		assert(snap.center_focused_column == "Never")
		-- Nested branches are not part of a one-level snapshot.
		assert(snap.struts == nil)
		assert(snap.focus_ring == nil)

		-- The snapshot is detached from the live configuration.
		snap.gaps = 999
		assert(drift.config.layout.gaps == 16)
	`)
}

func TestProxy_EqualityAndString(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		assert(drift.config.layout == drift.config.layout)
		assert(drift.config.layout ~= drift.config.cursor)
		assert(tostring(drift.config) == "drift.config")
		assert(tostring(drift.config.layout.struts) == "drift.config.layout.struts")
		assert(getmetatable(drift.config) == "protected")
	`)
}

func TestProxy_WritesEmitSignals(t *testing.T) {
	sink := &recordSink{}
	store := config.NewState(schema.Global(), config.WithSink(sink))
	env, err := New(store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer env.Close()

	mustEval(t, env, `
		drift.config.layout.gaps = 32
		pcall(function() drift.config.layout.gaps = -1 end)
	`)

	if len(sink.paths) != 1 {
		t.Fatalf("got %d signals, want 1 (failed writes are silent): %v", len(sink.paths), sink.paths)
	}
	if sink.paths[0] != "layout.gaps" || sink.values[0] != float64(32) {
		t.Errorf("signal = %s %v", sink.paths[0], sink.values[0])
	}
}

func TestProxy_WritesRecordCategories(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		drift.config.cursor.xcursor_size = 32
		drift.config.layout.gaps = 8
		drift.config.layout.focus_ring.width = 2
	`)

	got := env.Store().Drain()
	want := []registry.Category{registry.CategoryCursor, registry.CategoryLayout, registry.CategoryDecorations}
	if len(got) != len(want) {
		t.Fatalf("Drain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain = %v, want %v", got, want)
		}
	}
}

func TestEnv_SandboxExcludesUnsafeLibraries(t *testing.T) {
	env := newTestEnv(t)
	mustEval(t, env, `
		assert(io == nil)
		assert(os == nil)
		assert(debug == nil)
		assert(package == nil)
		assert(require == nil)
	`)
}
