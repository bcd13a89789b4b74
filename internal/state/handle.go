// Package state exposes live compositor facts to scripting code.
//
// A Handle is created once at startup, after the underlying sources
// exist, and cloned into every execution context that runs scripts:
// event callbacks, timers, IPC evaluation, the REPL. Queries resolve
// against the live directories at call time, so there is no scope a
// caller must be inside and no stale snapshot to invalidate. The host
// pushes every state transition in through the update methods; the
// handle never polls.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/driftwm/driftwm/internal/cell"
)

// ErrNotInstalled is reported when a query runs before the host has
// installed a handle. That is an initialization bug in the host, never a
// script-correctable condition.
var ErrNotInstalled = errors.New("state: handle not installed")

// Handle is a cloneable accessor over the live state. Copies share the
// underlying cells; the zero Handle is not installed.
type Handle struct {
	windows    *cell.Cell[map[uint64]Window]
	workspaces *cell.Cell[map[uint64]Workspace]
	outputs    *cell.Cell[map[string]Output]
	layouts    *cell.Cell[KeyboardLayouts]
	cursor     *cell.Cell[*Point]
	focus      *cell.Cell[FocusMode]
	reserved   *cell.Cell[map[string]ReservedSpace]

	// spawn is the one cross-goroutine cell: completion records arrive
	// from the process-monitor goroutine, outside the event loop, so
	// this cell is lock-based where everything else is single-owner.
	spawn *cell.SyncCell[map[string]SpawnResult]
}

// New creates an installed, empty Handle.
func New() Handle {
	return Handle{
		windows:    cell.New("state.windows", map[uint64]Window{}),
		workspaces: cell.New("state.workspaces", map[uint64]Workspace{}),
		outputs:    cell.New("state.outputs", map[string]Output{}),
		layouts:    cell.New("state.layouts", KeyboardLayouts{}),
		cursor:     cell.New[*Point]("state.cursor", nil),
		focus:      cell.New("state.focus", FocusNormal),
		reserved:   cell.New("state.reserved", map[string]ReservedSpace{}),
		spawn:      cell.NewSync(map[string]SpawnResult{}),
	}
}

// Clone returns a handle sharing the same live sources.
func (h Handle) Clone() Handle {
	return h
}

// Installed reports whether the handle is backed by live sources.
func (h Handle) Installed() bool {
	return h.windows != nil
}

// mustBeInstalled guards every accessor: a zero Handle means the host
// skipped startup installation, so it fails loudly instead of nil-panicking
// somewhere below.
func (h Handle) mustBeInstalled(op string) {
	if !h.Installed() {
		panic(fmt.Sprintf("state: %s: %v", op, ErrNotInstalled))
	}
}

// Windows returns every window, sorted by ID, resolved at call time.
func (h Handle) Windows() []Window {
	h.mustBeInstalled("Windows")
	m := h.windows.Snapshot()
	out := make([]Window, 0, len(m))
	for _, w := range m {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Window returns the window with the given ID. A missing window is
// absence, not an error.
func (h Handle) Window(id uint64) (Window, bool) {
	h.mustBeInstalled("Window")
	w, ok := h.windows.Snapshot()[id]
	return w, ok
}

// Workspaces returns every workspace sorted by index.
func (h Handle) Workspaces() []Workspace {
	h.mustBeInstalled("Workspaces")
	m := h.workspaces.Snapshot()
	out := make([]Workspace, 0, len(m))
	for _, ws := range m {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Idx < out[j].Idx })
	return out
}

// WorkspaceByID returns the workspace with the given ID.
func (h Handle) WorkspaceByID(id uint64) (Workspace, bool) {
	h.mustBeInstalled("WorkspaceByID")
	ws, ok := h.workspaces.Snapshot()[id]
	return ws, ok
}

// WorkspaceByName returns the workspace with the given name.
func (h Handle) WorkspaceByName(name string) (Workspace, bool) {
	h.mustBeInstalled("WorkspaceByName")
	for _, ws := range h.workspaces.Snapshot() {
		if ws.Name == name {
			return ws, true
		}
	}
	return Workspace{}, false
}

// WorkspaceByIdx returns the workspace at the given index.
func (h Handle) WorkspaceByIdx(idx int) (Workspace, bool) {
	h.mustBeInstalled("WorkspaceByIdx")
	for _, ws := range h.workspaces.Snapshot() {
		if ws.Idx == idx {
			return ws, true
		}
	}
	return Workspace{}, false
}

// Outputs returns every output sorted by name.
func (h Handle) Outputs() []Output {
	h.mustBeInstalled("Outputs")
	m := h.outputs.Snapshot()
	out := make([]Output, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// OutputByName returns the output with the given connector name.
func (h Handle) OutputByName(name string) (Output, bool) {
	h.mustBeInstalled("OutputByName")
	o, ok := h.outputs.Snapshot()[name]
	return o, ok
}

// KeyboardLayouts returns the configured layouts and the active index.
func (h Handle) KeyboardLayouts() KeyboardLayouts {
	h.mustBeInstalled("KeyboardLayouts")
	kl := h.layouts.Snapshot()
	names := make([]string, len(kl.Names))
	copy(names, kl.Names)
	kl.Names = names
	return kl
}

// CursorPosition returns the pointer position, or false before the first
// motion event.
func (h Handle) CursorPosition() (Point, bool) {
	h.mustBeInstalled("CursorPosition")
	p := h.cursor.Snapshot()
	if p == nil {
		return Point{}, false
	}
	return *p, true
}

// FocusMode returns the current focus mode.
func (h Handle) FocusMode() FocusMode {
	h.mustBeInstalled("FocusMode")
	return h.focus.Snapshot()
}

// ReservedSpace returns the layer-shell margins on an output, or false
// if none are claimed.
func (h Handle) ReservedSpace(output string) (ReservedSpace, bool) {
	h.mustBeInstalled("ReservedSpace")
	rs, ok := h.reserved.Snapshot()[output]
	return rs, ok
}

// SpawnResult returns the completion record for a spawn token, or false
// while the command is still running or the token is unknown.
func (h Handle) SpawnResult(token string) (SpawnResult, bool) {
	h.mustBeInstalled("SpawnResult")
	var res SpawnResult
	var ok bool
	h.spawn.With(func(m *map[string]SpawnResult) {
		res, ok = (*m)[token]
	})
	return res, ok
}

// UpsertWindow installs or replaces a window record.
func (h Handle) UpsertWindow(w Window) {
	h.mustBeInstalled("UpsertWindow")
	h.windows.With(func(m *map[uint64]Window) {
		(*m)[w.ID] = w
	})
}

// RemoveWindow drops a window record.
func (h Handle) RemoveWindow(id uint64) {
	h.mustBeInstalled("RemoveWindow")
	h.windows.With(func(m *map[uint64]Window) {
		delete(*m, id)
	})
}

// UpsertWorkspace installs or replaces a workspace record.
func (h Handle) UpsertWorkspace(ws Workspace) {
	h.mustBeInstalled("UpsertWorkspace")
	h.workspaces.With(func(m *map[uint64]Workspace) {
		(*m)[ws.ID] = ws
	})
}

// RemoveWorkspace drops a workspace record.
func (h Handle) RemoveWorkspace(id uint64) {
	h.mustBeInstalled("RemoveWorkspace")
	h.workspaces.With(func(m *map[uint64]Workspace) {
		delete(*m, id)
	})
}

// UpsertOutput installs or replaces an output record.
func (h Handle) UpsertOutput(o Output) {
	h.mustBeInstalled("UpsertOutput")
	h.outputs.With(func(m *map[string]Output) {
		(*m)[o.Name] = o
	})
}

// RemoveOutput drops an output record and any space reserved on it.
func (h Handle) RemoveOutput(name string) {
	h.mustBeInstalled("RemoveOutput")
	h.outputs.With(func(m *map[string]Output) {
		delete(*m, name)
	})
	h.reserved.With(func(m *map[string]ReservedSpace) {
		delete(*m, name)
	})
}

// SetKeyboardLayouts replaces the layout list.
func (h Handle) SetKeyboardLayouts(kl KeyboardLayouts) {
	h.mustBeInstalled("SetKeyboardLayouts")
	h.layouts.With(func(cur *KeyboardLayouts) {
		*cur = kl
	})
}

// SetCursorPosition records pointer motion. Passing nil marks the
// position unknown, e.g. after the pointer leaves every output.
func (h Handle) SetCursorPosition(p *Point) {
	h.mustBeInstalled("SetCursorPosition")
	h.cursor.With(func(cur **Point) {
		if p == nil {
			*cur = nil
			return
		}
		v := *p
		*cur = &v
	})
}

// SetFocusMode records a focus transition.
func (h Handle) SetFocusMode(m FocusMode) {
	h.mustBeInstalled("SetFocusMode")
	h.focus.With(func(cur *FocusMode) {
		*cur = m
	})
}

// SetReservedSpace records layer-shell margins for an output.
func (h Handle) SetReservedSpace(output string, rs ReservedSpace) {
	h.mustBeInstalled("SetReservedSpace")
	h.reserved.With(func(m *map[string]ReservedSpace) {
		(*m)[output] = rs
	})
}

// RemoveReservedSpace clears layer-shell margins for an output.
func (h Handle) RemoveReservedSpace(output string) {
	h.mustBeInstalled("RemoveReservedSpace")
	h.reserved.With(func(m *map[string]ReservedSpace) {
		delete(*m, output)
	})
}

// ReportSpawnResult records a command completion. It is the one update
// method safe to call from outside the event loop: the monitor goroutine
// that reaps spawned processes reports through the lock-based cell.
func (h Handle) ReportSpawnResult(res SpawnResult) {
	h.mustBeInstalled("ReportSpawnResult")
	h.spawn.With(func(m *map[string]SpawnResult) {
		(*m)[res.Token] = res
	})
}
