package engine

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/effects"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/types"
)

// Combat applies hits combat hits to a person. Open injuries take the stress
// of the fight first; the hits then produce new injuries through the
// engine's generator.
func (e *Engine) Combat(ctx context.Context, id string, hits int) (types.Result, error) {
	p, ok := e.Roster.Get(id)
	if !ok {
		return types.Result{}, errors.Errorf("unknown person %q", id)
	}
	if hits < 1 || hits > MaxHitsPerCombat {
		return types.Result{}, errors.Errorf("hits must be between 1 and %d, got %d", MaxHitsPerCombat, hits)
	}
	if p.Status() == types.StatusDead {
		return types.Result{}, errors.Errorf("%s is dead", p.Name())
	}

	var result types.Result
	addLines(&result, types.Line{Text: fmt.Sprintf("%s takes %s.", p.Name(), e.plural.Pluralize("hit", hits, true))})

	effs := e.Resolver.Stress(p, hits)
	effs = append(effs, e.woundEffects(p, hits)...)

	evts, applied := effects.Apply(e.RNG, effs)
	result.Effects = applied
	result.Events = evts
	addLines(&result, e.announce(ctx, evts)...)

	e.Logger.Debug("combat_resolved",
		"person", p.ID,
		"hits", hits,
		"events", len(evts),
		"injuries", len(p.Injuries()))
	return result, nil
}

// woundEffects returns a single effect that generates and records the new
// injuries. Generation happens when the effect applies, after stress, so a
// stress death leaves no fresh wounds.
func (e *Engine) woundEffects(p injury.Patient, hits int) []effects.GameEffect {
	return []effects.GameEffect{effects.New(
		fmt.Sprintf("%s suffers new injuries from %s", p.Name(), e.plural.Pluralize("hit", hits, true)),
		func(rnd dice.Source) []types.Event {
			if p.Status() == types.StatusDead {
				return nil
			}
			var evts []types.Event
			for _, inj := range e.Generator.Generate(p, hits, rnd) {
				p.AddInjury(inj)
				evts = append(evts, injury.EventFor(types.EventInjuryAdded, p, inj))
			}
			return evts
		})}
}
