package theory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

var ErrLuaTable = errors.New("malformed library table")

/*
LoadLua reads extra scales and matrices from a Lua script and returns base
extended with them. The script sets two globals, both optional:

	scales = { ["Hirajoshi"] = {0, 2, 3, 7, 8} }
	matrices = {
		["Two Step"] = {
			[1] = { {5, 0.7}, {4, 0.3} },
			[5] = { {1, 1.0} },
		},
	}

Edges are a list of {degree, weight} pairs so their order survives. Invalid
entries are skipped and reported in the returned error; the library is
still usable.
*/
func LoadLua(base *Library, path string) (*Library, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return base, fmt.Errorf("load %s: %w", path, err)
	}
	return fromLua(base, L)
}

// LoadLuaString is LoadLua for an in-memory script.
func LoadLuaString(base *Library, src string) (*Library, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return base, err
	}
	return fromLua(base, L)
}

func fromLua(base *Library, L *lua.LState) (*Library, error) {
	var errs error
	scales, err := luaScales(L.GetGlobal("scales"))
	errs = errors.Join(errs, err)
	matrices, err := luaMatrices(L.GetGlobal("matrices"))
	errs = errors.Join(errs, err)
	return base.With(scales, matrices), errs
}

func luaScales(v lua.LValue) (out []Scale, errs error) {
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: scales is a %s", ErrLuaTable, v.Type())
	}
	tbl.ForEach(func(k, val lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("%w: scale key %v is not a name", ErrLuaTable, k))
			return
		}
		intervals, err := luaInts(val)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("scale %q: %w", name, err))
			return
		}
		s := Scale{Name: string(name), Intervals: intervals}
		if err := s.Validate(); err != nil {
			errs = errors.Join(errs, err)
			return
		}
		out = append(out, s)
	})
	// lua hash order is not stable
	slices.SortFunc(out, func(a, b Scale) int { return strings.Compare(a.Name, b.Name) })
	return out, errs
}

func luaMatrices(v lua.LValue) (out []Matrix, errs error) {
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: matrices is a %s", ErrLuaTable, v.Type())
	}
	tbl.ForEach(func(k, val lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("%w: matrix key %v is not a name", ErrLuaTable, k))
			return
		}
		rows, ok := val.(*lua.LTable)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("%w: matrix %q is not a table", ErrLuaTable, name))
			return
		}
		m := Matrix{Name: string(name), Rows: map[int][]Edge{}}
		rows.ForEach(func(rk, rv lua.LValue) {
			src, ok := rk.(lua.LNumber)
			if !ok {
				errs = errors.Join(errs, fmt.Errorf("%w: matrix %q row key %v", ErrLuaTable, name, rk))
				return
			}
			edges, err := luaEdges(rv)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("matrix %q degree %d: %w", name, int(src), err))
				return
			}
			m.Rows[int(src)] = edges
		})
		out = append(out, m)
	})
	slices.SortFunc(out, func(a, b Matrix) int { return strings.Compare(a.Name, b.Name) })
	return out, errs
}

func luaEdges(v lua.LValue) ([]Edge, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: edges are a %s", ErrLuaTable, v.Type())
	}
	edges := make([]Edge, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		pair, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok || pair.Len() != 2 {
			return nil, fmt.Errorf("%w: edge %d is not a {degree, weight} pair", ErrLuaTable, i)
		}
		deg, ok1 := pair.RawGetInt(1).(lua.LNumber)
		w, ok2 := pair.RawGetInt(2).(lua.LNumber)
		if !ok1 || !ok2 || w < 0 {
			return nil, fmt.Errorf("%w: edge %d has non numeric fields", ErrLuaTable, i)
		}
		edges = append(edges, Edge{Degree: int(deg), Weight: float64(w)})
	}
	return edges, nil
}

func luaInts(v lua.LValue) ([]int, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: intervals are a %s", ErrLuaTable, v.Type())
	}
	out := make([]int, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		n, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("%w: interval %d is not a number", ErrLuaTable, i)
		}
		out = append(out, int(n))
	}
	return out, nil
}
