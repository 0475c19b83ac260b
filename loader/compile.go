// Package loader loads Lua campaign content into Go structs at startup.
// The Lua VM is discarded after loading: zero Lua at runtime.
package loader

import (
	"sort"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// rawPerson holds a Person or Doctor table before compilation.
type rawPerson struct {
	id     string
	doctor bool
	table  *lua.LTable
	order  int
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Persons: map[string]types.PersonDef{},
	}

	// Campaign.
	if coll.campaign == nil {
		return nil, errors.New("no Campaign{} definition found")
	}
	defs.Campaign = compileCampaign(coll.campaign)

	// Persons and doctors.
	for _, raw := range coll.persons {
		if _, dup := defs.Persons[raw.id]; dup {
			return nil, errors.Errorf("duplicate person ID %q", raw.id)
		}
		p, err := compilePerson(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling person %s", raw.id)
		}
		defs.Persons[p.ID] = p
	}

	// Handlers.
	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileCampaign(tbl *lua.LTable) types.CampaignDef {
	return types.CampaignDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Seed:    int64(getNumber(tbl, "seed", 0)),
		Options: compileOptions(getTable(tbl, "options")),
	}
}

// compileOptions overlays the options table on state.DefaultOptions.
func compileOptions(tbl *lua.LTable) types.Options {
	opts := state.DefaultOptions()
	if tbl == nil {
		return opts
	}
	opts.HealingWaitingPeriod = getInt(tbl, "healing_waiting_period", opts.HealingWaitingPeriod)
	opts.MistakeXP = getInt(tbl, "mistake_xp", opts.MistakeXP)
	opts.SuccessXP = getInt(tbl, "success_xp", opts.SuccessXP)
	opts.TaskXP = getInt(tbl, "task_xp", opts.TaskXP)
	opts.TasksPerXPAward = getInt(tbl, "tasks_per_xp_award", opts.TasksPerXPAward)
	opts.UseSupportEdge = getBool(tbl, "use_support_edge", opts.UseSupportEdge)
	opts.UseAlternateMedicalModel = getBool(tbl, "use_alternate_medical_model", opts.UseAlternateMedicalModel)
	return opts
}

func compilePerson(raw rawPerson) (types.PersonDef, error) {
	surgery := -1
	if raw.doctor {
		surgery = 0
	}

	p := types.PersonDef{
		ID:              raw.id,
		Name:            getString(raw.table, "name"),
		Status:          types.Status(getString(raw.table, "status")),
		Armored:         getBool(raw.table, "armored", false),
		HealingModifier: getNumber(raw.table, "healing_modifier", 1),
		Surgery:         getInt(raw.table, "surgery", surgery),
		Edge:            getInt(raw.table, "edge", 0),
		Doctor:          getString(raw.table, "doctor"),
		WaitDays:        getInt(raw.table, "wait_days", 0),
		SourceOrder:     raw.order,
	}
	if p.Name == "" {
		p.Name = raw.id
	}
	if p.Status == "" {
		p.Status = types.StatusActive
	}

	if tbl := getTable(raw.table, "injuries"); tbl != nil {
		for i := 1; i <= tbl.MaxN(); i++ {
			it, ok := tbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				return types.PersonDef{}, errors.Errorf("injury %d is not a table (use Wound(...))", i)
			}
			p.Injuries = append(p.Injuries, compileInjury(it))
		}
	}
	return p, nil
}

func compileInjury(tbl *lua.LTable) types.InjuryDef {
	return types.InjuryDef{
		Type:      getString(tbl, "type"),
		Location:  getString(tbl, "location"),
		Severity:  getInt(tbl, "severity", 0),
		Time:      getInt(tbl, "time", 0),
		Permanent: getBool(tbl, "permanent", false),
		WorkedOn:  getBool(tbl, "worked_on", false),
	}
}

func compileHandler(raw rawHandler) types.EventHandler {
	return types.EventHandler{
		EventType: raw.eventType,
		Say:       getString(raw.table, "say"),
	}
}

// sortedLuaFiles returns .lua files in a directory, with campaign.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var campaignFile string
	var others []string
	for _, f := range files {
		if f == "campaign.lua" {
			campaignFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if campaignFile != "" {
		return append([]string{campaignFile}, others...)
	}
	return others
}
