package event

import (
	"testing"

	"go.uber.org/zap"
)

func TestNotifier_Subscribe(t *testing.T) {
	n := New(zap.NewNop())

	var got []Change
	n.Subscribe(func(c Change) {
		got = append(got, c)
	})

	if err := n.Publish("cursor.xcursor_size", int64(24)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1", len(got))
	}
	if got[0].Path != "cursor.xcursor_size" || got[0].Value != int64(24) {
		t.Errorf("change = %+v", got[0])
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	n := New(zap.NewNop())

	var layout, cursor int
	n.SubscribePath("layout", func(Change) { layout++ })
	n.SubscribePath("cursor", func(Change) { cursor++ })

	_ = n.Publish("layout.gaps", 8.0)
	_ = n.Publish("layout.struts.left", 64.0)
	_ = n.Publish("cursor.xcursor_size", int64(24))
	// A prefix must match on segment boundaries.
	_ = n.Publish("layouts.other", 1)

	if layout != 2 {
		t.Errorf("layout handler ran %d times, want 2", layout)
	}
	if cursor != 1 {
		t.Errorf("cursor handler ran %d times, want 1", cursor)
	}
}

func TestNotifier_ExactPathMatch(t *testing.T) {
	n := New(zap.NewNop())

	var hits int
	n.SubscribePath("layout.gaps", func(Change) { hits++ })

	_ = n.Publish("layout.gaps", 8.0)
	_ = n.Publish("layout.gaps_extra", 1)

	if hits != 1 {
		t.Errorf("handler ran %d times, want 1", hits)
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New(zap.NewNop())

	var hits int
	sub := n.Subscribe(func(Change) { hits++ })
	if sub.ID() == "" {
		t.Error("subscription should carry a token")
	}

	_ = n.Publish("a.b", 1)
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent
	_ = n.Publish("a.b", 2)

	if hits != 1 {
		t.Errorf("handler ran %d times after unsubscribe, want 1", hits)
	}
}

func TestNotifier_PanickingHandlerIsContained(t *testing.T) {
	n := New(zap.NewNop())

	var after int
	n.Subscribe(func(Change) { panic("handler bug") })
	n.Subscribe(func(Change) { after++ })

	if err := n.Publish("a.b", 1); err != nil {
		t.Fatalf("Publish must contain handler panics: %v", err)
	}
	if after != 1 {
		t.Error("a panicking handler must not starve the others")
	}
}

func TestNotifier_ReentrantPublish(t *testing.T) {
	n := New(zap.NewNop())

	var order []string
	n.SubscribePath("a", func(c Change) {
		order = append(order, "a:"+c.Path)
		if c.Path == "a.first" {
			_ = n.Publish("a.second", 2)
		}
	})

	_ = n.Publish("a.first", 1)

	want := []string{"a:a.first", "a:a.second"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}
