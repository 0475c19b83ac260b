package injury

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/types"
)

// Injury is one open wound on one person.
type Injury struct {
	ID           string
	Type         *Type
	Location     body.Location
	Hits         int // severity, in [1, Type.MaxSeverity]
	OriginalTime int
	Time         int // days left; 0 means resolve this tick
	Permanent    bool
	WorkedOn     bool // treated during the current cycle
	Extended     bool // a treatment mistake lengthened it
}

// Name returns e.g. "Broken Limb (left arm)".
func (i *Injury) Name() string {
	if i.Type.Kind == Concussion || i.Type.Kind == InternalBleeding {
		return fmt.Sprintf("%s (severity %d)", i.Type.Name, i.Hits)
	}
	if len(i.Type.Locations) == 1 {
		return i.Type.Name
	}
	return fmt.Sprintf("%s (%s)", i.Type.Name, i.Location)
}

// Fluff returns the instance description.
func (i *Injury) Fluff() string {
	return i.Type.Fluff(i.Location, i.Hits)
}

// Level returns the instance's current level.
func (i *Injury) Level() Level {
	return i.Type.LevelAt(i.Hits)
}

// Modifiers returns the skill penalties the injury imposes while open.
func (i *Injury) Modifiers() []types.Modifier {
	return i.Type.Modifiers(i)
}

// Patient is the part of a person the injury rules read and mutate.
type Patient interface {
	Name() string
	Injuries() []*Injury
	AddInjury(*Injury)
	RemoveInjury(*Injury)
	HealingModifier() float64
	Armored() bool
	Status() types.Status
	SetStatus(types.Status)
}

// IsMissing reports whether loc, or the limb it hangs from, carries an
// injury that implies the location is gone.
func IsMissing(p Patient, loc body.Location) bool {
	parent, hasParent := loc.Parent()
	for _, inj := range p.Injuries() {
		if !inj.Type.ImpliesMissingLocation {
			continue
		}
		if inj.Location == loc || (hasParent && inj.Location == parent) {
			return true
		}
	}
	return false
}

// Has reports whether p has an open injury of kind k.
func Has(p Patient, k Kind) bool {
	for _, inj := range p.Injuries() {
		if inj.Type.Kind == k {
			return true
		}
	}
	return false
}

// New instantiates an injury of kind k at loc. The location must be allowed
// for the kind and still present on the patient. Severity is clamped into
// [1, MaxSeverity]. p may be nil, in which case no missing-location check is
// made and the ability modifier is neutral.
func (c *Catalog) New(k Kind, loc body.Location, severity int, p Patient, rnd dice.Source) (*Injury, error) {
	t := c.Type(k)
	if t == nil {
		return nil, errors.Errorf("unknown injury kind %d", k)
	}
	if !t.Allowed(loc) {
		return nil, errors.Errorf("%s cannot be located at the %s", t.Name, loc)
	}
	mod := 1.0
	if p != nil {
		if IsMissing(p, loc) {
			return nil, errors.Errorf("%s has no %s", p.Name(), loc)
		}
		mod = p.HealingModifier()
	}
	severity = clampSeverity(t, severity)
	days := HealingTime(t, severity, mod, rnd)
	return &Injury{
		ID:           uuid.NewString(),
		Type:         t,
		Location:     loc,
		Hits:         severity,
		OriginalTime: days,
		Time:         days,
		Permanent:    t.Permanent,
	}, nil
}

func clampSeverity(t *Type, severity int) int {
	if severity < 1 {
		return 1
	}
	if severity > t.MaxSeverity {
		return t.MaxSeverity
	}
	return severity
}

// Modifiers returns the skill penalties inj imposes.
func (t *Type) Modifiers(inj *Injury) []types.Modifier {
	limb := func(arm, leg int) []types.Modifier {
		switch {
		case inj.Location.IsArm() && arm > 0:
			return []types.Modifier{{Skill: types.SkillGunnery, Penalty: arm}}
		case inj.Location.IsLeg() && leg > 0:
			return []types.Modifier{{Skill: types.SkillPiloting, Penalty: leg}}
		}
		return nil
	}
	both := func(gunnery, piloting int) []types.Modifier {
		return []types.Modifier{
			{Skill: types.SkillGunnery, Penalty: gunnery},
			{Skill: types.SkillPiloting, Penalty: piloting},
		}
	}

	switch t.Kind {
	case Cut, Bruise, Laceration, BruisedKidney:
		return nil
	case Sprain, Puncture, Fracture, TornMuscle:
		return limb(1, 1)
	case BrokenLimb:
		return limb(2, 2)
	case LostLimb:
		return limb(3, 3)
	case Concussion:
		return both(inj.Hits, inj.Hits)
	case CerebralContusion, CTE:
		return both(2, 2)
	case BrokenRib:
		return []types.Modifier{{Skill: types.SkillPiloting, Penalty: 1}}
	case BrokenCollarBone:
		return []types.Modifier{{Skill: types.SkillGunnery, Penalty: 1}}
	case PuncturedLung:
		return both(1, 1)
	case BrokenBack:
		return both(1, 3)
	case SeveredSpine:
		return both(2, 4)
	case InternalBleeding:
		return both(inj.Hits, inj.Hits)
	}
	return nil
}
