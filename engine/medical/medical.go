// Package medical resolves one simulated day of medical care for a patient
// and the stress fresh combat hits put on open injuries.
//
// Every rule is expressed as effects.GameEffect values. Preview lists them
// without consuming randomness; Day generates and applies them phase by phase.
package medical

import (
	"fmt"
	"math"

	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/effects"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/types"
)

// FumbleLimits and CritLimits are indexed by surgery skill, clamped to 0..10.
// A d100 below the fumble limit is a mistake; above the crit limit it is a
// critical success.
var (
	FumbleLimits = [11]int{50, 40, 30, 20, 12, 6, 5, 4, 3, 2, 1}
	CritLimits   = [11]int{98, 97, 94, 89, 84, 79, 74, 69, 64, 59, 54}
)

const untreatedSlowChance = 30

// Doctor is the part of a person who treats others.
type Doctor interface {
	Name() string
	Status() types.Status
	// SurgerySkill returns the level and whether the person has the skill.
	SurgerySkill() (int, bool)
	Edge() int
	SpendEdge()
	Tasks() int
	SetTasks(int)
	AwardXP(int)
}

// Patient is a person whose injuries the resolver advances. Doctor returns a
// nil interface when nobody is assigned.
type Patient interface {
	injury.Patient
	Doctor() Doctor
	SetDoctor(Doctor)
	WaitDays() int
	SetWaitDays(int)
}

// Report describes what one resolved day did to a patient.
type Report struct {
	Effects []string
	Events  []types.Event
}

func (r *Report) add(events []types.Event, applied []string) {
	r.Events = append(r.Events, events...)
	r.Effects = append(r.Effects, applied...)
}

// Resolver runs the daily medical rules.
type Resolver struct {
	Options types.Options
	Catalog *injury.Catalog
}

// New returns a Resolver.
func New(opts types.Options, c *injury.Catalog) *Resolver {
	return &Resolver{Options: opts, Catalog: c}
}

// Limits returns the fumble and crit limits for a surgery level.
func Limits(skill int) (fumble, crit int) {
	if skill < 0 {
		skill = 0
	}
	if skill > 10 {
		skill = 10
	}
	return FumbleLimits[skill], CritLimits[skill]
}

// Qualified reports whether d can treat patients.
func Qualified(d Doctor) bool {
	if d == nil || d.Status() != types.StatusActive {
		return false
	}
	_, ok := d.SurgerySkill()
	return ok
}

// NeedsCare reports whether p has an injury still healing: anything not
// permanent, or a permanent injury that has not been finalized.
func NeedsCare(p injury.Patient) bool {
	for _, inj := range p.Injuries() {
		if !inj.Permanent || inj.Time > 0 {
			return true
		}
	}
	return false
}

// Preview returns the treatment or untreated effects Day would apply first.
// Nothing is rolled or changed.
func (r *Resolver) Preview(p Patient) []effects.GameEffect {
	if p.Status() == types.StatusDead {
		return nil
	}
	if d := p.Doctor(); Qualified(d) && p.WaitDays() <= 0 {
		return r.treatment(p, d)
	}
	if Qualified(p.Doctor()) {
		return nil
	}
	return r.untreated(p)
}

// Day resolves one day for p: treatment or untreated degradation, then
// natural healing, then doctor dismissal, then the wait counter.
func (r *Resolver) Day(p Patient, rnd dice.Source) Report {
	var rep Report
	if p.Status() != types.StatusDead {
		rep.add(effects.Apply(rnd, r.Preview(p)))
		rep.add(effects.Apply(rnd, r.heal(p)))
	}
	rep.add(effects.Apply(rnd, r.dismissal(p)))
	if w := p.WaitDays(); w > 0 {
		p.SetWaitDays(w - 1)
	}
	return rep
}

// Stress returns every stress effect the patient's open injuries produce
// for hits fresh combat hits.
func (r *Resolver) Stress(p injury.Patient, hits int) []effects.GameEffect {
	var out []effects.GameEffect
	for _, inj := range append([]*injury.Injury(nil), p.Injuries()...) {
		out = append(out, r.Catalog.StressEffects(p, inj, hits)...)
	}
	return out
}

func (r *Resolver) treatment(p Patient, d Doctor) []effects.GameEffect {
	skill, _ := d.SurgerySkill()
	fumble, crit := Limits(skill)
	open := append([]*injury.Injury(nil), p.Injuries()...)
	xp := 0

	out := []effects.GameEffect{effects.New(
		fmt.Sprintf("%s starts a treatment cycle for %s", d.Name(), p.Name()),
		func(dice.Source) []types.Event {
			for _, inj := range p.Injuries() {
				inj.WorkedOn = false
			}
			return nil
		})}

	for _, inj := range open {
		inj := inj
		if inj.Time <= 0 {
			continue
		}
		out = append(out, effects.New(
			fmt.Sprintf("%s treats %s's %s (mistake below %d, critical above %d)", d.Name(), p.Name(), inj.Name(), fumble, crit),
			func(rnd dice.Source) []types.Event {
				if inj.WorkedOn {
					return nil
				}
				inj.WorkedOn = true
				var events []types.Event
				roll := dice.Percent(rnd)
				if roll < fumble && r.Options.UseSupportEdge && d.Edge() > 0 {
					d.SpendEdge()
					events = append(events, injury.EventFor(types.EventEdgeUsed, p, inj, "doctor", d.Name()))
					roll = dice.Percent(rnd)
				}
				return append(events, r.treat(p, d, inj, roll, fumble, crit, &xp))
			}))
	}

	return append(out, effects.New(
		fmt.Sprintf("%s waits %d days before treating %s again", d.Name(), r.Options.HealingWaitingPeriod, p.Name()),
		func(dice.Source) []types.Event {
			p.SetWaitDays(r.Options.HealingWaitingPeriod)
			if xp <= 0 {
				return nil
			}
			d.AwardXP(xp)
			return []types.Event{effects.Event(types.EventXPAwarded, "doctor", d.Name(), "patient", p.Name(), "xp", xp)}
		}))
}

func (r *Resolver) treat(p Patient, d Doctor, inj *injury.Injury, roll, fumble, crit int, xp *int) types.Event {
	t := inj.Time
	switch {
	case roll < fumble:
		inj.Time = max(int(math.Ceil(float64(t)*1.2)), t+5)
		inj.Extended = true
		*xp += r.Options.MistakeXP
		return injury.EventFor(types.EventTreatmentMistake, p, inj, "doctor", d.Name(), "days", inj.Time-t)
	case roll > crit && t-int(math.Floor(float64(t)*0.9)) > 0:
		reduction := t - int(math.Floor(float64(t)*0.9))
		inj.Time = t - reduction
		*xp += r.Options.SuccessXP
		return injury.EventFor(types.EventTreatmentCrit, p, inj, "doctor", d.Name(), "days", reduction)
	}
	tasks := d.Tasks() + 1
	if r.Options.TasksPerXPAward > 0 && tasks >= r.Options.TasksPerXPAward {
		*xp += r.Options.TaskXP
		tasks = 0
	}
	d.SetTasks(tasks)
	return injury.EventFor(types.EventTreatmentSuccess, p, inj, "doctor", d.Name())
}

func (r *Resolver) untreated(p Patient) []effects.GameEffect {
	var out []effects.GameEffect
	for _, inj := range p.Injuries() {
		inj := inj
		if inj.Permanent || inj.WorkedOn {
			continue
		}
		out = append(out, effects.New(
			fmt.Sprintf("%d%% chance of %s's %s healing more slowly without a doctor", untreatedSlowChance, p.Name(), inj.Name()),
			func(rnd dice.Source) []types.Event {
				if dice.Percent(rnd) >= untreatedSlowChance {
					return nil
				}
				inj.Time++
				return []types.Event{injury.EventFor(types.EventHealingSlowed, p, inj, "days", 1)}
			}))
	}
	return out
}

func improperlyHealing(k injury.Kind) bool {
	switch k {
	case injury.BrokenLimb, injury.TornMuscle, injury.Concussion, injury.BrokenCollarBone:
		return true
	}
	return false
}

func (r *Resolver) heal(p Patient) []effects.GameEffect {
	var out []effects.GameEffect
	for _, inj := range append([]*injury.Injury(nil), p.Injuries()...) {
		inj := inj
		switch {
		case inj.Time <= 1 && !inj.Permanent:
			if improperlyHealing(inj.Type.Kind) && !inj.WorkedOn {
				out = append(out, effects.New(
					fmt.Sprintf("1 in 6 chance of %s's %s healing improperly", p.Name(), inj.Name()),
					func(rnd dice.Source) []types.Event {
						if rnd.NextInt(6) == 0 {
							inj.Permanent = true
							return []types.Event{injury.EventFor(types.EventInjuryPermanent, p, inj)}
						}
						p.RemoveInjury(inj)
						return []types.Event{injury.EventFor(types.EventInjuryHealed, p, inj)}
					}))
				continue
			}
			out = append(out, effects.New(
				fmt.Sprintf("%s's %s heals", p.Name(), inj.Name()),
				func(dice.Source) []types.Event {
					p.RemoveInjury(inj)
					return []types.Event{injury.EventFor(types.EventInjuryHealed, p, inj)}
				}))
		case inj.Time > 1:
			out = append(out, effects.New(
				fmt.Sprintf("%s's %s has %d days left", p.Name(), inj.Name(), inj.Time-1),
				func(dice.Source) []types.Event {
					inj.Time--
					return nil
				}))
		case inj.Time == 1 && inj.Permanent:
			out = append(out, effects.New(
				fmt.Sprintf("%s's %s will not heal further", p.Name(), inj.Name()),
				func(dice.Source) []types.Event {
					inj.Time = 0
					return []types.Event{injury.EventFor(types.EventInjuryFinalized, p, inj)}
				}))
		}
	}
	return out
}

func (r *Resolver) dismissal(p Patient) []effects.GameEffect {
	d := p.Doctor()
	if d == nil {
		return nil
	}
	var reason string
	switch s := p.Status(); {
	case s == types.StatusDead, s == types.StatusMIA, s == types.StatusRetired:
		reason = string(s)
	case !NeedsCare(p):
		reason = "recovered"
	default:
		return nil
	}
	return []effects.GameEffect{effects.New(
		fmt.Sprintf("%s is released from %s's care (%s)", p.Name(), d.Name(), reason),
		func(dice.Source) []types.Event {
			p.SetDoctor(nil)
			p.SetWaitDays(0)
			return []types.Event{effects.Event(types.EventDoctorDismissed, "patient", p.Name(), "doctor", d.Name(), "reason", reason)}
		})}
}
