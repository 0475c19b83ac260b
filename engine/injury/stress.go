package injury

import (
	"fmt"
	"math"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/effects"
	"github.com/nathoo/fieldmed/types"
)

// Stress percentages for broken ribs and broken backs.
const (
	ribDeathChance    = 1
	ribLungChance     = 10 // cumulative with ribDeathChance
	spineSeverMinRoll = 20
)

// worseningChance is the percentage quoted in stress descriptions:
// max(round((1+hits)*100/6), 100).
func worseningChance(hits int) int {
	c := int(math.Round(float64(1+hits) * 100 / 6))
	if c < 100 {
		return 100
	}
	return c
}

// worsens is the d6 check shared by head trauma and bleeding.
func worsens(rnd dice.Source, hits int) bool {
	return rnd.NextInt(6)+hits >= 5
}

// StressEffects returns what may happen to inj when p takes hits fresh
// combat hits while it is still open. Nothing is rolled until the effects
// are applied.
func (c *Catalog) StressEffects(p Patient, inj *Injury, hits int) []effects.GameEffect {
	if hits <= 0 {
		return nil
	}
	name := p.Name()

	switch inj.Type.Kind {
	case Concussion:
		chance := worseningChance(hits)
		if inj.Hits < 2 {
			return one(fmt.Sprintf("%d%% chance of %s's concussion worsening", chance, name),
				func(rnd dice.Source) []types.Event {
					if !isOpen(p, inj) || !worsens(rnd, hits) {
						return nil
					}
					c.setSeverity(p, inj, 2, rnd)
					return []types.Event{EventFor(types.EventInjuryWorsened, p, inj)}
				})
		}
		return one(fmt.Sprintf("%d%% chance of %s's concussion becoming a cerebral contusion", chance, name),
			func(rnd dice.Source) []types.Event {
				if !isOpen(p, inj) || !worsens(rnd, hits) {
					return nil
				}
				return c.replace(p, inj, CerebralContusion, rnd)
			})

	case CerebralContusion:
		return one(fmt.Sprintf("%d%% chance of %s developing chronic traumatic encephalopathy", worseningChance(hits), name),
			func(rnd dice.Source) []types.Event {
				if !isOpen(p, inj) || !worsens(rnd, hits) {
					return nil
				}
				return c.replace(p, inj, CTE, rnd)
			})

	case CTE:
		return one(fmt.Sprintf("%d%% chance of %s dying from brain trauma", worseningChance(hits), name),
			func(rnd dice.Source) []types.Event {
				if !worsens(rnd, hits) {
					return nil
				}
				return kill(p, "chronic traumatic encephalopathy")
			})

	case BrokenRib:
		return one(fmt.Sprintf("%d%% chance of %s's broken rib piercing the heart, %d%% chance of it puncturing a lung",
			ribDeathChance, name, ribLungChance-ribDeathChance),
			func(rnd dice.Source) []types.Event {
				roll := dice.Percent(rnd)
				switch {
				case roll < ribDeathChance:
					return kill(p, "a broken rib piercing the heart")
				case roll < ribLungChance:
					return c.add(p, PuncturedLung, body.Chest, 1, rnd)
				}
				return nil
			})

	case InternalBleeding:
		if inj.Hits < inj.Type.MaxSeverity {
			return one(fmt.Sprintf("%d%% chance of %s's internal bleeding worsening", worseningChance(hits), name),
				func(rnd dice.Source) []types.Event {
					if !isOpen(p, inj) || !worsens(rnd, hits) {
						return nil
					}
					if inj.Hits >= inj.Type.MaxSeverity {
						return kill(p, "internal bleeding")
					}
					c.setSeverity(p, inj, inj.Hits+1, rnd)
					return []types.Event{EventFor(types.EventInjuryWorsened, p, inj)}
				})
		}
		return one(fmt.Sprintf("%d%% chance of %s bleeding to death", worseningChance(hits), name),
			func(rnd dice.Source) []types.Event {
				if !worsens(rnd, hits) {
					return nil
				}
				return kill(p, "internal bleeding")
			})

	case BrokenBack:
		return one(fmt.Sprintf("%d%% chance of %s's spine being severed", 100-spineSeverMinRoll, name),
			func(rnd dice.Source) []types.Event {
				if dice.Percent(rnd) < spineSeverMinRoll || Has(p, SeveredSpine) {
					return nil
				}
				return c.add(p, SeveredSpine, body.Chest, 1, rnd)
			})

	case Cut, Bruise, Sprain, Laceration, Puncture, Fracture, TornMuscle, BrokenLimb, LostLimb,
		BrokenCollarBone, PuncturedLung, SeveredSpine, BruisedKidney:
		return nil
	}
	return nil
}

// EventFor builds an event about inj on p. Extra key/value pairs are appended.
func EventFor(typ string, p Patient, inj *Injury, kv ...any) types.Event {
	base := []any{
		"patient", p.Name(),
		"injury", inj.Name(),
		"location", inj.Location.String(),
	}
	return effects.Event(typ, append(base, kv...)...)
}

func one(description string, apply func(dice.Source) []types.Event) []effects.GameEffect {
	return []effects.GameEffect{effects.New(description, apply)}
}

func isOpen(p Patient, inj *Injury) bool {
	for _, i := range p.Injuries() {
		if i == inj {
			return true
		}
	}
	return false
}

func (c *Catalog) setSeverity(p Patient, inj *Injury, severity int, rnd dice.Source) {
	inj.Hits = clampSeverity(inj.Type, severity)
	days := HealingTime(inj.Type, inj.Hits, p.HealingModifier(), rnd)
	inj.OriginalTime = days
	inj.Time = days
}

func (c *Catalog) add(p Patient, k Kind, loc body.Location, severity int, rnd dice.Source) []types.Event {
	inj, err := c.New(k, loc, severity, p, rnd)
	if err != nil {
		return nil
	}
	p.AddInjury(inj)
	return []types.Event{EventFor(types.EventInjuryAdded, p, inj)}
}

func (c *Catalog) replace(p Patient, old *Injury, k Kind, rnd dice.Source) []types.Event {
	inj, err := c.New(k, old.Location, 1, p, rnd)
	if err != nil {
		return nil
	}
	p.RemoveInjury(old)
	p.AddInjury(inj)
	return []types.Event{EventFor(types.EventInjuryReplaced, p, inj, "previous", old.Name())}
}

func kill(p Patient, cause string) []types.Event {
	if p.Status() == types.StatusDead {
		return nil
	}
	p.SetStatus(types.StatusDead)
	return []types.Event{effects.Event(types.EventPatientDied, "patient", p.Name(), "cause", cause)}
}
