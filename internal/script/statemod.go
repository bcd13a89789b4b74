package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/driftwm/driftwm/internal/state"
)

// buildStateModule assembles the drift.state table. Every function
// resolves against the live handle at call time; absence is nil, never an
// error. The only error case is a handle that was never installed, which
// is a host initialization bug surfaced loudly instead of as empty data.
func (e *Env) buildStateModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "windows", L.NewFunction(e.stateWindows))
	L.SetField(mod, "window", L.NewFunction(e.stateWindow))
	L.SetField(mod, "workspaces", L.NewFunction(e.stateWorkspaces))
	L.SetField(mod, "workspace_by_id", L.NewFunction(e.stateWorkspaceByID))
	L.SetField(mod, "workspace_by_name", L.NewFunction(e.stateWorkspaceByName))
	L.SetField(mod, "workspace_by_idx", L.NewFunction(e.stateWorkspaceByIdx))
	L.SetField(mod, "outputs", L.NewFunction(e.stateOutputs))
	L.SetField(mod, "output_by_name", L.NewFunction(e.stateOutputByName))
	L.SetField(mod, "keyboard_layouts", L.NewFunction(e.stateKeyboardLayouts))
	L.SetField(mod, "cursor_position", L.NewFunction(e.stateCursorPosition))
	L.SetField(mod, "focus_mode", L.NewFunction(e.stateFocusMode))
	L.SetField(mod, "reserved_space", L.NewFunction(e.stateReservedSpace))
	L.SetField(mod, "spawn_result", L.NewFunction(e.stateSpawnResult))
	return mod
}

// handle returns the installed state handle or raises.
func (e *Env) handle(L *lua.LState) state.Handle {
	if !e.state.Installed() {
		L.RaiseError("%v (host bug: queries must not run before startup installs the handle)", state.ErrNotInstalled)
	}
	return e.state
}

func windowToLua(L *lua.LState, w state.Window) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LNumber(w.ID))
	tbl.RawSetString("title", lua.LString(w.Title))
	tbl.RawSetString("app_id", lua.LString(w.AppID))
	tbl.RawSetString("workspace_id", lua.LNumber(w.WorkspaceID))
	tbl.RawSetString("is_focused", lua.LBool(w.IsFocused))
	tbl.RawSetString("is_floating", lua.LBool(w.IsFloating))
	return tbl
}

func workspaceToLua(L *lua.LState, ws state.Workspace) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LNumber(ws.ID))
	tbl.RawSetString("idx", lua.LNumber(ws.Idx))
	tbl.RawSetString("name", lua.LString(ws.Name))
	tbl.RawSetString("output", lua.LString(ws.Output))
	tbl.RawSetString("is_active", lua.LBool(ws.IsActive))
	tbl.RawSetString("is_focused", lua.LBool(ws.IsFocused))
	return tbl
}

func outputToLua(L *lua.LState, o state.Output) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(o.Name))
	tbl.RawSetString("make", lua.LString(o.Make))
	tbl.RawSetString("model", lua.LString(o.Model))
	tbl.RawSetString("scale", lua.LNumber(o.Scale))
	tbl.RawSetString("logical_width", lua.LNumber(o.LogicalWidth))
	tbl.RawSetString("logical_height", lua.LNumber(o.LogicalHeight))
	return tbl
}

func (e *Env) stateWindows(L *lua.LState) int {
	h := e.handle(L)
	tbl := L.NewTable()
	for i, w := range h.Windows() {
		tbl.RawSetInt(i+1, windowToLua(L, w))
	}
	L.Push(tbl)
	return 1
}

func (e *Env) stateWindow(L *lua.LState) int {
	h := e.handle(L)
	id := uint64(L.CheckNumber(1))
	w, ok := h.Window(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(windowToLua(L, w))
	return 1
}

func (e *Env) stateWorkspaces(L *lua.LState) int {
	h := e.handle(L)
	tbl := L.NewTable()
	for i, ws := range h.Workspaces() {
		tbl.RawSetInt(i+1, workspaceToLua(L, ws))
	}
	L.Push(tbl)
	return 1
}

func (e *Env) stateWorkspaceByID(L *lua.LState) int {
	h := e.handle(L)
	ws, ok := h.WorkspaceByID(uint64(L.CheckNumber(1)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(workspaceToLua(L, ws))
	return 1
}

func (e *Env) stateWorkspaceByName(L *lua.LState) int {
	h := e.handle(L)
	ws, ok := h.WorkspaceByName(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(workspaceToLua(L, ws))
	return 1
}

func (e *Env) stateWorkspaceByIdx(L *lua.LState) int {
	h := e.handle(L)
	ws, ok := h.WorkspaceByIdx(int(L.CheckNumber(1)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(workspaceToLua(L, ws))
	return 1
}

func (e *Env) stateOutputs(L *lua.LState) int {
	h := e.handle(L)
	tbl := L.NewTable()
	for i, o := range h.Outputs() {
		tbl.RawSetInt(i+1, outputToLua(L, o))
	}
	L.Push(tbl)
	return 1
}

func (e *Env) stateOutputByName(L *lua.LState) int {
	h := e.handle(L)
	o, ok := h.OutputByName(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(outputToLua(L, o))
	return 1
}

func (e *Env) stateKeyboardLayouts(L *lua.LState) int {
	h := e.handle(L)
	kl := h.KeyboardLayouts()
	tbl := L.NewTable()
	names := L.NewTable()
	for i, name := range kl.Names {
		names.RawSetInt(i+1, lua.LString(name))
	}
	tbl.RawSetString("names", names)
	tbl.RawSetString("current_idx", lua.LNumber(kl.CurrentIdx))
	L.Push(tbl)
	return 1
}

func (e *Env) stateCursorPosition(L *lua.LState) int {
	h := e.handle(L)
	p, ok := h.CursorPosition()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	tbl.RawSetString("x", lua.LNumber(p.X))
	tbl.RawSetString("y", lua.LNumber(p.Y))
	L.Push(tbl)
	return 1
}

func (e *Env) stateFocusMode(L *lua.LState) int {
	h := e.handle(L)
	L.Push(lua.LString(h.FocusMode().String()))
	return 1
}

func (e *Env) stateReservedSpace(L *lua.LState) int {
	h := e.handle(L)
	rs, ok := h.ReservedSpace(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	tbl.RawSetString("left", lua.LNumber(rs.Left))
	tbl.RawSetString("right", lua.LNumber(rs.Right))
	tbl.RawSetString("top", lua.LNumber(rs.Top))
	tbl.RawSetString("bottom", lua.LNumber(rs.Bottom))
	L.Push(tbl)
	return 1
}

func (e *Env) stateSpawnResult(L *lua.LState) int {
	h := e.handle(L)
	res, ok := h.SpawnResult(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	tbl.RawSetString("token", lua.LString(res.Token))
	tbl.RawSetString("exit_code", lua.LNumber(res.ExitCode))
	tbl.RawSetString("err", lua.LString(res.Err))
	L.Push(tbl)
	return 1
}
