package injury

import (
	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
)

// CritThreshold is the total a critical check must exceed to put a second
// hit on the same location.
const CritThreshold = 12

// Critical check modifiers.
const (
	armoredCritMod   = 0
	unarmoredCritMod = 2
)

// severedSpineChance is the percent chance a broken back from combat comes
// with a severed spine.
const severedSpineChance = 15

// Generator turns a number of combat hits into new injuries.
type Generator interface {
	Generate(p Patient, hits int, rnd dice.Source) []*Injury
}

// Standard is the default generator: distribute hits over body locations,
// then map each location's accumulated count through a fixed severity ladder.
type Standard struct {
	Catalog *Catalog
}

// NewStandard returns a Standard generator over c.
func NewStandard(c *Catalog) *Standard {
	return &Standard{Catalog: c}
}

// Distribute rolls a location for each hit and returns the accumulated hit
// count per location. Missing locations are never chosen.
func (g *Standard) Distribute(p Patient, hits int, rnd dice.Source) map[body.Location]int {
	table, critMod := body.GenericTable, unarmoredCritMod
	if p.Armored() {
		table, critMod = body.ArmoredTable, armoredCritMod
	}
	valid := func(l body.Location) bool { return !IsMissing(p, l) }

	counts := map[body.Location]int{}
	total := 0
	for i := 0; i < hits; i++ {
		loc, ok := body.Resolve(table, rnd, valid)
		if !ok {
			continue
		}
		counts[loc]++
		total++
		if dice.TwoD6(rnd)+total+critMod > CritThreshold {
			counts[loc]++
			total++
		}
	}
	return counts
}

// Generate implements Generator.
func (g *Standard) Generate(p Patient, hits int, rnd dice.Source) []*Injury {
	counts := g.Distribute(p, hits, rnd)
	var out []*Injury
	for _, loc := range body.All() {
		if n := counts[loc]; n > 0 {
			out = append(out, g.InjuriesAt(p, loc, n, rnd)...)
		}
	}
	return out
}

// InjuriesAt maps an accumulated hit count at one location to injuries.
func (g *Standard) InjuriesAt(p Patient, loc body.Location, hits int, rnd dice.Source) []*Injury {
	var out []*Injury
	add := func(k Kind, l body.Location, severity int) {
		if inj, err := g.Catalog.New(k, l, severity, p, rnd); err == nil {
			out = append(out, inj)
		}
	}
	punctureOrFracture := func() Kind {
		if rnd.NextInt(2) == 0 {
			return Puncture
		}
		return Fracture
	}

	switch {
	case loc.IsLimb():
		switch {
		case hits == 1:
			add(punctureOrFracture(), loc, 1)
		case hits == 2:
			add(TornMuscle, loc, 1)
		case hits == 3:
			add(BrokenLimb, loc, 1)
		default:
			add(LostLimb, loc, 1)
		}
	case loc == body.Head:
		switch {
		case hits == 1:
			add(Laceration, loc, 1)
		case hits <= 3:
			add(Concussion, loc, hits-1)
		case hits == 4:
			add(CerebralContusion, loc, 1)
		default:
			add(CTE, loc, 1)
		}
	case loc == body.Chest:
		switch {
		case hits == 1:
			add(punctureOrFracture(), loc, 1)
		case hits == 2:
			add(BrokenRib, loc, 1)
		case hits == 3:
			add(BrokenCollarBone, loc, 1)
		case hits == 4:
			add(PuncturedLung, loc, 1)
		default:
			add(BrokenBack, loc, 1)
			if dice.Percent(rnd) < severedSpineChance {
				add(SeveredSpine, loc, 1)
			}
		}
	case loc == body.Abdomen:
		switch {
		case hits == 1:
			add(Puncture, loc, 1)
		case hits == 2:
			add(BruisedKidney, loc, 1)
		default:
			add(InternalBleeding, loc, hits-2)
		}
	}
	return out
}
