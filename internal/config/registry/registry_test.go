package registry

import (
	"errors"
	"reflect"
	"testing"
)

type testState struct {
	size  int64
	gaps  float64
	theme string
}

func leaf(path string, kind Kind) Property[*testState] {
	return Property[*testState]{
		Path: path,
		Kind: kind,
		Get:  func(s *testState) any { return nil },
		Set:  func(s *testState, v any) {},
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := New[*testState]()

	if err := r.Register(leaf("cursor.xcursor_size", Int(0, 255))); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := r.Register(leaf("cursor.xcursor_size", Int(0, 255)))
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegistry_RegisterReservedSegment(t *testing.T) {
	r := New[*testState]()

	for _, path := range []string{"layout.iter", "snapshot.depth", "a.snapshot.b"} {
		err := r.Register(leaf(path, Bool()))
		if !errors.Is(err, ErrReservedSegment) {
			t.Errorf("Register(%q): expected ErrReservedSegment, got %v", path, err)
		}
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("a.b", Bool()))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate MustRegister")
		}
	}()
	r.MustRegister(leaf("a.b", Bool()))
}

func TestRegistry_FreezeRejectsLeafAsBranch(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("a", Bool()))
	r.MustRegister(leaf("a.b", Bool()))

	// "a" would be unreadable: branch dispatch shadows the leaf.
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a path that is both a property and a section")
		}
	}()
	r.Freeze()
}

func TestRegistry_LookupBeforeFreezePanics(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("a.b", Bool()))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for Get before Freeze")
		}
	}()
	r.Get("a.b")
}

func TestRegistry_RegisterAfterFreezePanics(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("a.b", Bool()))
	r.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for Register after Freeze")
		}
	}()
	_ = r.Register(leaf("a.c", Bool()))
}

func TestRegistry_Children(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("layout.gaps", Float(0, 1000)))
	r.MustRegister(leaf("layout.struts.left", Float(-10, 10)))
	r.MustRegister(leaf("layout.struts.right", Float(-10, 10)))
	r.MustRegister(leaf("cursor.xcursor_size", Int(0, 255)))
	r.MustRegister(leaf("prefer_no_csd", Bool()))
	r.Freeze()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"cursor", "layout", "prefer_no_csd"}},
		{"layout", []string{"gaps", "struts"}},
		{"layout.struts", []string{"left", "right"}},
		{"layout.gaps", nil},
		{"nope", nil},
	}
	for _, tt := range tests {
		got := r.Children(tt.prefix)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Children(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}

	if !r.IsBranch("layout.struts") {
		t.Error("layout.struts should be a branch")
	}
	if r.IsBranch("layout.gaps") {
		t.Error("layout.gaps is a leaf, not a branch")
	}
	if !r.IsBranch("") {
		t.Error("the root is always a branch")
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("b.x", Bool()))
	r.MustRegister(leaf("a.y", Bool()))
	r.MustRegister(leaf("a.x", Bool()))
	r.Freeze()

	all := r.All()
	want := []string{"a.x", "a.y", "b.x"}
	for i, p := range all {
		if p.Path != want[i] {
			t.Errorf("All()[%d].Path = %s, want %s", i, p.Path, want[i])
		}
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"cursor.xcursor_size", CategoryCursor},
		{"layout.gaps", CategoryLayout},
		{"input.keyboard.repeat_delay", CategoryInput},
		{"animations.off", CategoryAnimations},
		{"gestures.hot_corners_off", CategoryGestures},
		{"overview.zoom", CategoryOverview},
		{"prefer_no_csd", CategoryMisc},
		{"debug.damage_tracking", CategoryMisc},
		{"unmapped.anything.at.all", CategoryMisc},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.path); got != tt.want {
			t.Errorf("CategoryOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
		// Deterministic: repeated calls agree.
		if again := CategoryOf(tt.path); again != CategoryOf(tt.path) {
			t.Errorf("CategoryOf(%q) is not deterministic", tt.path)
		}
	}
}

func TestRegistry_CategoryFor(t *testing.T) {
	r := New[*testState]()
	r.MustRegister(leaf("layout.gaps", Float(0, 1000)))
	r.MustRegister(leaf("layout.border.width", Float(0, 64)))
	explicit := leaf("layout.border.off", Bool())
	explicit.Category = CategoryMisc
	r.MustRegister(explicit)
	r.OverrideCategory("layout.border", CategoryDecorations)
	r.Freeze()

	// Inference for unoverridden paths.
	if got := r.CategoryFor("layout.gaps"); got != CategoryLayout {
		t.Errorf("CategoryFor(layout.gaps) = %v, want layout", got)
	}
	// Branch override beats inference.
	if got := r.CategoryFor("layout.border.width"); got != CategoryDecorations {
		t.Errorf("CategoryFor(layout.border.width) = %v, want decorations", got)
	}
	// Explicit property category beats the branch override.
	if got := r.CategoryFor("layout.border.off"); got != CategoryMisc {
		t.Errorf("CategoryFor(layout.border.off) = %v, want misc", got)
	}
}
