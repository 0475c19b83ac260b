package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	campaign *lua.LTable
	persons  []rawPerson
	handlers []rawHandler
	order    int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir, compiles them into campaign
// definitions, validates them against the injury catalog, and returns the
// immutable Defs. The Lua VM is discarded after loading.
func Load(dir string) (*state.Defs, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading campaign directory %s", dir)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, errors.Errorf("no .lua files found in %s", dir)
	}

	// Sort: campaign.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	coll := &collector{}
	L := newVM(coll)
	defer L.Close()

	// Execute each file.
	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, errors.Wrapf(err, "executing %s", f)
		}
	}

	// Compile.
	defs, err := compile(coll)
	if err != nil {
		return nil, errors.Wrap(err, "compiling campaign data")
	}

	// Validate.
	if err := validate(defs, injury.NewCatalog()); err != nil {
		return nil, err
	}

	return defs, nil
}

// newVM creates a sandboxed VM with the campaign API registered.
func newVM(coll *collector) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open safe libs only.
	openSafeLibs(L)

	// Sandbox: remove dangerous globals.
	sandbox(L)

	// Register API.
	registerAPI(L, coll)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	// Remove dangerous base globals.
	// require and module would reach the file system through package.path.
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed so content cannot reseed the Lua stream.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
