package injury

import (
	"math"

	"github.com/nathoo/fieldmed/engine/dice"
)

// Healing time jitter, in percent of the base time.
const (
	minTimeVariance = 80
	maxTimeVariance = 120
)

// HealingTime returns the randomised number of days an injury of type t at
// severity takes to heal. The base recovery time goes through the kind's own
// adjustment, then a uniform 80–120% multiplier, then abilityModifier. The
// result is rounded and never below one day.
func HealingTime(t *Type, severity int, abilityModifier float64, rnd dice.Source) int {
	base := t.modifyTime(t.RecoveryTime(severity), rnd)
	pct := minTimeVariance + rnd.NextInt(maxTimeVariance-minTimeVariance+1)
	return scaleTime(base, pct, abilityModifier)
}

// modifyTime is the per-kind hook applied to the base time before jitter.
func (t *Type) modifyTime(base int, rnd dice.Source) int {
	switch t.Kind {
	case Laceration:
		return base + dice.D6(rnd)
	}
	return base
}

func scaleTime(base, pct int, abilityModifier float64) int {
	if abilityModifier <= 0 {
		abilityModifier = 1
	}
	days := int(math.Round(float64(base) * float64(pct) / 100 * abilityModifier))
	if days < 1 {
		return 1
	}
	return days
}
