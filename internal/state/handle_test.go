package state

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestHandle_Installed(t *testing.T) {
	var zero Handle
	if zero.Installed() {
		t.Error("zero Handle must not report installed")
	}
	if !New().Installed() {
		t.Error("New Handle must report installed")
	}
}

// A query on a zero handle is a host initialization bug; it must name
// itself instead of nil-panicking inside a cell.
func TestHandle_UninstalledQueryPanics(t *testing.T) {
	var zero Handle
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for query on uninstalled handle")
		}
		if !strings.Contains(fmt.Sprint(r), "handle not installed") {
			t.Errorf("panic %v should name the installation bug", r)
		}
	}()
	zero.Windows()
}

func TestHandle_UninstalledUpdatePanics(t *testing.T) {
	var zero Handle
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for update on uninstalled handle")
		}
	}()
	zero.UpsertWindow(Window{ID: 1})
}

func TestHandle_WindowQueries(t *testing.T) {
	h := New()
	h.UpsertWindow(Window{ID: 2, Title: "Browser", WorkspaceID: 1})
	h.UpsertWindow(Window{ID: 1, Title: "Terminal", WorkspaceID: 1, IsFocused: true})

	windows := h.Windows()
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].ID != 1 || windows[1].ID != 2 {
		t.Error("Windows must be sorted by ID")
	}

	w, ok := h.Window(1)
	if !ok || w.Title != "Terminal" {
		t.Errorf("Window(1) = %+v, %v", w, ok)
	}

	// A missing window is absence, never an error.
	if _, ok := h.Window(42); ok {
		t.Error("Window(42) should be absent")
	}

	h.RemoveWindow(1)
	if _, ok := h.Window(1); ok {
		t.Error("removed window still present")
	}
}

func TestHandle_WorkspaceQueries(t *testing.T) {
	h := New()
	h.UpsertWorkspace(Workspace{ID: 10, Idx: 2, Name: "chat", Output: "eDP-1"})
	h.UpsertWorkspace(Workspace{ID: 11, Idx: 1, Name: "main", Output: "eDP-1", IsActive: true})

	if wss := h.Workspaces(); len(wss) != 2 || wss[0].Idx != 1 {
		t.Errorf("Workspaces = %+v, want sorted by Idx", wss)
	}
	if ws, ok := h.WorkspaceByID(10); !ok || ws.Name != "chat" {
		t.Errorf("WorkspaceByID(10) = %+v, %v", ws, ok)
	}
	if ws, ok := h.WorkspaceByName("main"); !ok || ws.ID != 11 {
		t.Errorf("WorkspaceByName(main) = %+v, %v", ws, ok)
	}
	if ws, ok := h.WorkspaceByIdx(2); !ok || ws.ID != 10 {
		t.Errorf("WorkspaceByIdx(2) = %+v, %v", ws, ok)
	}
	if _, ok := h.WorkspaceByName("nope"); ok {
		t.Error("unknown workspace name should be absent")
	}
}

func TestHandle_OutputQueries(t *testing.T) {
	h := New()
	h.UpsertOutput(Output{Name: "HDMI-A-1", Scale: 1})
	h.UpsertOutput(Output{Name: "eDP-1", Scale: 2})

	outs := h.Outputs()
	if len(outs) != 2 || outs[0].Name != "HDMI-A-1" {
		t.Errorf("Outputs = %+v, want sorted by name", outs)
	}
	if o, ok := h.OutputByName("eDP-1"); !ok || o.Scale != 2 {
		t.Errorf("OutputByName = %+v, %v", o, ok)
	}
}

func TestHandle_CursorPosition(t *testing.T) {
	h := New()

	// Unknown before the first motion event.
	if _, ok := h.CursorPosition(); ok {
		t.Error("cursor position should start unknown")
	}

	h.SetCursorPosition(&Point{X: 10, Y: 20})
	p, ok := h.CursorPosition()
	if !ok || p.X != 10 || p.Y != 20 {
		t.Errorf("CursorPosition = %+v, %v", p, ok)
	}

	h.SetCursorPosition(nil)
	if _, ok := h.CursorPosition(); ok {
		t.Error("cursor position should be unknown after reset")
	}
}

func TestHandle_FocusMode(t *testing.T) {
	h := New()
	if h.FocusMode() != FocusNormal {
		t.Error("focus mode should start normal")
	}
	h.SetFocusMode(FocusOverview)
	if h.FocusMode() != FocusOverview {
		t.Error("focus mode update not visible")
	}
	if FocusLayerShell.String() != "layer_shell" {
		t.Errorf("FocusLayerShell.String() = %s", FocusLayerShell)
	}
}

func TestHandle_ReservedSpace(t *testing.T) {
	h := New()
	h.UpsertOutput(Output{Name: "eDP-1"})
	h.SetReservedSpace("eDP-1", ReservedSpace{Top: 32})

	rs, ok := h.ReservedSpace("eDP-1")
	if !ok || rs.Top != 32 {
		t.Errorf("ReservedSpace = %+v, %v", rs, ok)
	}

	h.RemoveReservedSpace("eDP-1")
	if _, ok := h.ReservedSpace("eDP-1"); ok {
		t.Error("reserved space not removed")
	}
}

func TestHandle_OutputDisconnectDropsReservedSpace(t *testing.T) {
	h := New()
	h.UpsertOutput(Output{Name: "HDMI-A-1"})
	h.SetReservedSpace("HDMI-A-1", ReservedSpace{Bottom: 48})

	h.RemoveOutput("HDMI-A-1")
	if _, ok := h.OutputByName("HDMI-A-1"); ok {
		t.Error("output not removed")
	}
	if _, ok := h.ReservedSpace("HDMI-A-1"); ok {
		t.Error("reserved space should go with its output")
	}
}

func TestHandle_KeyboardLayouts(t *testing.T) {
	h := New()
	h.SetKeyboardLayouts(KeyboardLayouts{Names: []string{"us", "de"}, CurrentIdx: 1})

	kl := h.KeyboardLayouts()
	if len(kl.Names) != 2 || kl.CurrentIdx != 1 {
		t.Errorf("KeyboardLayouts = %+v", kl)
	}

	// The returned slice is detached from the live value.
	kl.Names[0] = "mangled"
	if h.KeyboardLayouts().Names[0] != "us" {
		t.Error("query result must not alias live state")
	}
}

func TestHandle_CloneSharesState(t *testing.T) {
	h := New()
	clone := h.Clone()

	h.UpsertWindow(Window{ID: 7, Title: "Editor"})
	if _, ok := clone.Window(7); !ok {
		t.Error("clone must observe updates through the original")
	}

	clone.SetFocusMode(FocusLockScreen)
	if h.FocusMode() != FocusLockScreen {
		t.Error("original must observe updates through the clone")
	}
}

// Spawn results arrive from the process-monitor goroutine, outside the
// event loop; the lock-based cell makes that the one safe cross-thread
// update.
func TestHandle_SpawnResultFromWorker(t *testing.T) {
	h := New()

	if _, ok := h.SpawnResult("tok-1"); ok {
		t.Error("unknown token should be absent")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ReportSpawnResult(SpawnResult{Token: "tok-1", ExitCode: 0})
	}()
	wg.Wait()

	res, ok := h.SpawnResult("tok-1")
	if !ok || res.ExitCode != 0 {
		t.Errorf("SpawnResult = %+v, %v", res, ok)
	}
}
