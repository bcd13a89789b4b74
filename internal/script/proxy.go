package script

import (
	lua "github.com/yuin/gopher-lua"
)

// proxyTypeName registers the config proxy metatable in the Lua state.
const proxyTypeName = "driftwm.config"

// proxy is the ephemeral cursor scripting code navigates the
// configuration tree with. It carries only its current path; schema and
// data are resolved through the environment on every access, so a proxy
// is cheap to create and safe to keep across mutations.
type proxy struct {
	path string
}

// registerProxyType installs the proxy metatable once per Lua state.
func registerProxyType(L *lua.LState, env *Env) {
	mt := L.NewTypeMetatable(proxyTypeName)
	L.SetField(mt, "__index", L.NewFunction(env.proxyIndex))
	L.SetField(mt, "__newindex", L.NewFunction(env.proxyNewIndex))
	L.SetField(mt, "__eq", L.NewFunction(proxyEq))
	L.SetField(mt, "__tostring", L.NewFunction(proxyToString))
	L.SetField(mt, "__metatable", lua.LString("protected"))
}

// newProxy wraps a path in proxy userdata.
func newProxy(L *lua.LState, path string) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &proxy{path: path}
	L.SetMetatable(ud, L.GetTypeMetatable(proxyTypeName))
	return ud
}

// checkProxy extracts the proxy from argument n.
func checkProxy(L *lua.LState, n int) *proxy {
	ud := L.CheckUserData(n)
	if p, ok := ud.Value.(*proxy); ok {
		return p
	}
	L.ArgError(n, "config proxy expected")
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// proxyIndex resolves proxy[key]. A branch yields a new proxy, a leaf
// yields its current value, and the reserved names iter and snapshot
// yield the proxy methods. Anything else is an unknown-property error
// naming the full path.
func (e *Env) proxyIndex(L *lua.LState) int {
	p := checkProxy(L, 1)
	key := L.CheckString(2)

	switch key {
	case "iter":
		L.Push(L.NewFunction(e.proxyIter))
		return 1
	case "snapshot":
		L.Push(L.NewFunction(e.proxySnapshot))
		return 1
	}

	full := joinPath(p.path, key)
	reg := e.store.Registry()
	if reg.IsBranch(full) {
		L.Push(newProxy(L, full))
		return 1
	}

	v, err := e.store.Get(full)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(goToLua(L, v))
	return 1
}

// proxyNewIndex applies proxy[key] = value through validation. The write
// either commits completely or leaves the state untouched; the error
// carries the full dotted path and the offending value.
func (e *Env) proxyNewIndex(L *lua.LState) int {
	p := checkProxy(L, 1)
	key := L.CheckString(2)
	value := luaToGo(L.Get(3))

	full := joinPath(p.path, key)
	if err := e.store.Set(full, value); err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	return 0
}

// proxyIter returns an iterator over the immediate children of the
// proxy's path, in path order. Leaf children yield their resolved value;
// branch children yield a child proxy.
//
//	for name, value in drift.config.layout:iter() do ... end
func (e *Env) proxyIter(L *lua.LState) int {
	p := checkProxy(L, 1)
	reg := e.store.Registry()
	children := reg.Children(p.path)
	i := 0

	L.Push(L.NewFunction(func(L *lua.LState) int {
		if i >= len(children) {
			L.Push(lua.LNil)
			return 1
		}
		name := children[i]
		i++
		full := joinPath(p.path, name)

		L.Push(lua.LString(name))
		if reg.IsBranch(full) {
			L.Push(newProxy(L, full))
			return 2
		}
		v, err := e.store.Get(full)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(goToLua(L, v))
		return 2
	}))
	return 1
}

// proxySnapshot returns a detached table of the leaf values immediately
// under the proxy's path. Nested branches are omitted; callers recurse
// explicitly for a deep copy.
func (e *Env) proxySnapshot(L *lua.LState) int {
	p := checkProxy(L, 1)
	reg := e.store.Registry()

	tbl := L.NewTable()
	for _, name := range reg.Children(p.path) {
		full := joinPath(p.path, name)
		if reg.IsBranch(full) {
			continue
		}
		v, err := e.store.Get(full)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		tbl.RawSetString(name, goToLua(L, v))
	}
	L.Push(tbl)
	return 1
}

// proxyEq compares proxies by path.
func proxyEq(L *lua.LState) int {
	a := checkProxy(L, 1)
	b := checkProxy(L, 2)
	L.Push(lua.LBool(a.path == b.path))
	return 1
}

func proxyToString(L *lua.LState) int {
	p := checkProxy(L, 1)
	s := "drift.config"
	if p.path != "" {
		s += "." + p.path
	}
	L.Push(lua.LString(s))
	return 1
}
