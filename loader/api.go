package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Campaign { title = "...", options = { ... } }
	L.SetGlobal("Campaign", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.campaign = tbl
		return 0
	}))

	// Person "id" { ... } is curried: Person("id") returns a function that takes a table.
	L.SetGlobal("Person", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.persons = append(coll.persons, rawPerson{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Doctor "id" { ... } is curried too. Surgery defaults to 0 instead of untrained.
	L.SetGlobal("Doctor", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.persons = append(coll.persons, rawPerson{id: id, doctor: true, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// On("event_type", { say = "..." })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}

func registerHelpers(L *lua.LState) {
	// Wound("am:broken_limb", "left_arm", { time = 12, severity = 1, permanent = false })
	// The location may be nil for single-location injury types.
	L.SetGlobal("Wound", L.NewFunction(func(L *lua.LState) int {
		typ := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(typ))
		if loc, ok := L.Get(2).(lua.LString); ok {
			tbl.RawSetString("location", loc)
		}
		if opts, ok := L.Get(3).(*lua.LTable); ok {
			opts.ForEach(func(k, v lua.LValue) {
				if ks, ok := k.(lua.LString); ok && ks != "type" && ks != "location" {
					tbl.RawSetString(string(ks), v)
				}
			})
		}
		L.Push(tbl)
		return 1
	}))
}
