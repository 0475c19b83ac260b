// Package effects implements described, deferred state mutations. Building a
// GameEffect never rolls dice or touches state; Apply is the single commit step.
package effects

import (
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/types"
)

// GameEffect pairs a human-readable explanation with the mutation it stands for.
type GameEffect struct {
	Description string
	Apply       func(rnd dice.Source) []types.Event
}

// New builds a GameEffect.
func New(description string, apply func(rnd dice.Source) []types.Event) GameEffect {
	return GameEffect{Description: description, Apply: apply}
}

// Apply runs effects in order against rnd, mutating state.
// Returns events emitted and the descriptions of the effects applied.
func Apply(rnd dice.Source, effs []GameEffect) ([]types.Event, []string) {
	var events []types.Event
	var applied []string

	for _, eff := range effs {
		if eff.Apply != nil {
			events = append(events, eff.Apply(rnd)...)
		}
		applied = append(applied, eff.Description)
	}

	return events, applied
}

// Describe lists effect descriptions without applying anything.
func Describe(effs []GameEffect) []string {
	out := make([]string, 0, len(effs))
	for _, eff := range effs {
		out = append(out, eff.Description)
	}
	return out
}

// Event builds an event with the given data pairs. Odd trailing keys are dropped.
func Event(typ string, kv ...any) types.Event {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return types.Event{Type: typ, Data: data}
}
