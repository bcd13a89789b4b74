package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaToGo converts a Lua value into the canonical Go form property
// validation accepts: bool, float64, string, []any, or map[string]any.
// Tables with contiguous 1-based integer keys become slices; everything
// else becomes a string-keyed map.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case *lua.LNilType, nil:
		return nil
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return tableToGo(val)
	default:
		return v.String()
	}
}

func tableToGo(t *lua.LTable) any {
	isArray := true
	maxIdx := 0
	count := 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		num, ok := k.(lua.LNumber)
		if !ok {
			isArray = false
			return
		}
		idx := int(num)
		if float64(idx) != float64(num) || idx < 1 {
			isArray = false
			return
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	})

	if isArray && count == maxIdx {
		arr := make([]any, maxIdx)
		for i := 1; i <= maxIdx; i++ {
			arr[i-1] = luaToGo(t.RawGetInt(i))
		}
		return arr
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = luaToGo(v)
	})
	return m
}

// goToLua converts a canonical Go value back into a Lua value.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, goToLua(L, item))
		}
		return tbl
	case []string:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, lua.LString(item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, goToLua(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}
