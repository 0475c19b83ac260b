package body

import "github.com/nathoo/fieldmed/engine/dice"

// MaxRedraws bounds how often Resolve redraws a rejected location before it
// falls back to scanning the table in order.
const MaxRedraws = 64

// HitEntry maps an inclusive cumulative ceiling to a location.
type HitEntry struct {
	Ceiling  int
	Location Location
}

// HitTable is a cumulative-weight table with ascending ceilings. The last
// ceiling is the total weight.
type HitTable []HitEntry

// Total returns the table's total weight.
func (t HitTable) Total() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].Ceiling
}

// Lookup returns the first entry whose ceiling is at least roll.
func (t HitTable) Lookup(roll int) Location {
	for _, e := range t {
		if roll <= e.Ceiling {
			return e.Location
		}
	}
	return Generic
}

// ArmoredTable is used for mech and vehicle crews; hits land on the torso
// far more often than on extremities.
var ArmoredTable = HitTable{
	{20, Head},
	{80, Chest},
	{110, Abdomen},
	{125, LeftArm},
	{130, LeftHand},
	{145, RightArm},
	{150, RightHand},
	{170, LeftLeg},
	{175, LeftFoot},
	{195, RightLeg},
	{200, RightFoot},
}

// GenericTable is used for unarmored targets.
var GenericTable = HitTable{
	{20, Head},
	{50, Chest},
	{74, Abdomen},
	{92, LeftArm},
	{102, LeftHand},
	{120, RightArm},
	{130, RightHand},
	{155, LeftLeg},
	{165, LeftFoot},
	{190, RightLeg},
	{200, RightFoot},
}

// Resolve draws a location from table, redrawing while valid rejects it.
//
// Callers must leave at least one valid location in the table. When they do
// not, Resolve stops redrawing after MaxRedraws attempts, scans the table in
// order for any valid entry, and reports false if there is none. The
// fallback is deterministic rather than weighted: it always returns the
// first valid entry in table order.
func Resolve(table HitTable, src dice.Source, valid func(Location) bool) (Location, bool) {
	total := table.Total()
	if total <= 0 {
		return Generic, false
	}
	for i := 0; i < MaxRedraws; i++ {
		loc := table.Lookup(src.NextInt(total) + 1)
		if valid == nil || valid(loc) {
			return loc, true
		}
	}
	for _, e := range table {
		if valid(e.Location) {
			return e.Location, true
		}
	}
	return Generic, false
}
