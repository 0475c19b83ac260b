// Package injury holds the injury-type catalog, injury instances, healing-time
// calculation, injury generation from combat hits and the stress rules that
// let open injuries worsen.
package injury

import (
	"fmt"

	"github.com/nathoo/fieldmed/engine/body"
)

// Kind tags one variant of the closed injury catalog.
type Kind int

const (
	Cut Kind = iota
	Bruise
	Sprain
	Laceration
	Puncture
	Fracture
	TornMuscle
	BrokenLimb
	LostLimb
	Concussion
	CerebralContusion
	CTE
	BrokenRib
	BrokenCollarBone
	PuncturedLung
	BrokenBack
	SeveredSpine
	BruisedKidney
	InternalBleeding

	numKinds
)

// Level classifies how serious an injury is.
type Level int

const (
	LevelNone Level = iota
	LevelMinor
	LevelMajor
	LevelChronic
	LevelDeadly
)

func (l Level) String() string {
	switch l {
	case LevelMinor:
		return "minor"
	case LevelMajor:
		return "major"
	case LevelChronic:
		return "chronic"
	case LevelDeadly:
		return "deadly"
	}
	return "none"
}

// Type is an immutable catalog entry.
type Type struct {
	Kind                   Kind
	Key                    string
	Name                   string
	SimpleName             string
	Level                  Level
	MaxSeverity            int
	Permanent              bool
	ImpliesMissingLocation bool
	Locations              []body.Location
}

// Allowed reports whether instances of t may sit at loc.
func (t *Type) Allowed(loc body.Location) bool {
	for _, l := range t.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// RecoveryTime returns the base number of days to recover at a severity.
func (t *Type) RecoveryTime(severity int) int {
	switch t.Kind {
	case Cut:
		return 3
	case Bruise:
		return 2
	case Sprain:
		return 12
	case Laceration:
		return 5
	case Puncture, Fracture:
		return 20
	case TornMuscle:
		return 7
	case BrokenLimb:
		return 40
	case LostLimb:
		return 28
	case Concussion:
		if severity >= 2 {
			return 42
		}
		return 14
	case CerebralContusion:
		return 90
	case CTE:
		return 180
	case BrokenRib:
		return 20
	case BrokenCollarBone:
		return 22
	case PuncturedLung:
		return 20
	case BrokenBack:
		return 150
	case SeveredSpine:
		return 180
	case BruisedKidney:
		return 10
	case InternalBleeding:
		return 20 * severity
	}
	return 1
}

// LevelAt returns the level of an instance at the given severity. Most kinds
// have a fixed level; concussions and internal bleeding grow more serious.
func (t *Type) LevelAt(severity int) Level {
	switch t.Kind {
	case Concussion:
		if severity >= 2 {
			return LevelMajor
		}
	case InternalBleeding:
		if severity >= 3 {
			return LevelDeadly
		}
	}
	return t.Level
}

// Fluff describes an instance for reports, e.g. "A broken bone in the left arm".
func (t *Type) Fluff(loc body.Location, severity int) string {
	switch t.Kind {
	case Cut:
		return "Some cuts on the " + loc.String()
	case Bruise:
		return "A bruise on the " + loc.String()
	case Sprain:
		return "A sprained " + loc.String()
	case Laceration:
		return "A laceration on the head"
	case Puncture:
		return "A puncture wound to the " + loc.String()
	case Fracture:
		return "A fractured " + loc.String()
	case TornMuscle:
		return "A torn muscle in the " + loc.String()
	case BrokenLimb:
		return "A broken bone in the " + loc.String()
	case LostLimb:
		return "Lost " + loc.String()
	case Concussion:
		if severity >= 2 {
			return "A severe concussion"
		}
		return "A concussion"
	case CerebralContusion:
		return "A cerebral contusion"
	case CTE:
		return "Chronic traumatic encephalopathy"
	case BrokenRib:
		return "A broken rib"
	case BrokenCollarBone:
		return "A broken collar bone"
	case PuncturedLung:
		return "A punctured lung"
	case BrokenBack:
		return "A broken back"
	case SeveredSpine:
		return "A severed spine"
	case BruisedKidney:
		return "A bruised kidney"
	case InternalBleeding:
		switch {
		case severity >= 3:
			return "Critical internal bleeding"
		case severity == 2:
			return "Severe internal bleeding"
		}
		return "Internal bleeding"
	}
	return fmt.Sprintf("An injury to the %s", loc)
}

// Catalog is the full, immutable set of injury types. Build it once with
// NewCatalog and share the pointer.
type Catalog struct {
	byKind [numKinds]*Type
	byKey  map[string]*Type
}

var (
	allLimbs  = []body.Location{body.LeftArm, body.LeftHand, body.RightArm, body.RightHand, body.LeftLeg, body.LeftFoot, body.RightLeg, body.RightFoot}
	headOnly  = []body.Location{body.Head}
	chestOnly = []body.Location{body.Chest}
)

func locations(groups ...[]body.Location) []body.Location {
	var out []body.Location
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// NewCatalog builds the catalog.
func NewCatalog() *Catalog {
	surface := locations(headOnly, chestOnly, []body.Location{body.Abdomen}, allLimbs)

	defs := []Type{
		{Kind: Cut, Key: "am:cut", Name: "Cuts", SimpleName: "cut", Level: LevelMinor, Locations: surface},
		{Kind: Bruise, Key: "am:bruise", Name: "Bruises", SimpleName: "bruised", Level: LevelMinor, Locations: surface},
		{Kind: Sprain, Key: "am:sprain", Name: "Sprain", SimpleName: "sprained", Level: LevelMinor, Locations: allLimbs},
		{Kind: Laceration, Key: "am:laceration", Name: "Laceration", SimpleName: "lacerated", Level: LevelMinor, Locations: headOnly},
		{Kind: Puncture, Key: "am:puncture", Name: "Puncture", SimpleName: "punctured", Level: LevelMajor,
			Locations: locations(allLimbs, chestOnly, []body.Location{body.Abdomen})},
		{Kind: Fracture, Key: "am:fracture", Name: "Fracture", SimpleName: "fractured", Level: LevelMajor,
			Locations: locations(allLimbs, chestOnly)},
		{Kind: TornMuscle, Key: "am:torn_muscle", Name: "Torn Muscle", SimpleName: "torn muscle", Level: LevelMinor, Locations: allLimbs},
		{Kind: BrokenLimb, Key: "am:broken_limb", Name: "Broken Limb", SimpleName: "broken", Level: LevelMajor, Locations: allLimbs},
		{Kind: LostLimb, Key: "am:lost_limb", Name: "Lost Limb", SimpleName: "lost", Level: LevelChronic,
			Permanent: true, ImpliesMissingLocation: true, Locations: allLimbs},
		{Kind: Concussion, Key: "am:concussion", Name: "Concussion", SimpleName: "concussed", Level: LevelMinor,
			MaxSeverity: 2, Locations: headOnly},
		{Kind: CerebralContusion, Key: "am:cerebral_contusion", Name: "Cerebral Contusion", SimpleName: "cerebral contusion",
			Level: LevelMajor, Locations: headOnly},
		{Kind: CTE, Key: "am:cte", Name: "Chronic Traumatic Encephalopathy", SimpleName: "CTE", Level: LevelChronic,
			Permanent: true, Locations: headOnly},
		{Kind: BrokenRib, Key: "am:broken_rib", Name: "Broken Rib", SimpleName: "broken rib", Level: LevelMajor, Locations: chestOnly},
		{Kind: BrokenCollarBone, Key: "am:broken_collar_bone", Name: "Broken Collar Bone", SimpleName: "broken collar bone",
			Level: LevelMajor, Locations: chestOnly},
		{Kind: PuncturedLung, Key: "am:punctured_lung", Name: "Punctured Lung", SimpleName: "punctured lung",
			Level: LevelMajor, Locations: chestOnly},
		{Kind: BrokenBack, Key: "am:broken_back", Name: "Broken Back", SimpleName: "broken back", Level: LevelMajor, Locations: chestOnly},
		{Kind: SeveredSpine, Key: "am:severed_spine", Name: "Severed Spine", SimpleName: "severed spine", Level: LevelChronic,
			Permanent: true, Locations: chestOnly},
		{Kind: BruisedKidney, Key: "am:bruised_kidney", Name: "Bruised Kidney", SimpleName: "bruised kidney",
			Level: LevelMinor, Locations: []body.Location{body.Abdomen}},
		{Kind: InternalBleeding, Key: "am:internal_bleeding", Name: "Internal Bleeding", SimpleName: "internal bleeding",
			Level: LevelMajor, MaxSeverity: 3, Locations: []body.Location{body.Abdomen, body.Internal}},
	}

	c := &Catalog{byKey: make(map[string]*Type, len(defs))}
	for i := range defs {
		t := defs[i]
		if t.MaxSeverity < 1 {
			t.MaxSeverity = 1
		}
		c.byKind[t.Kind] = &t
		c.byKey[t.Key] = &t
	}
	return c
}

// Type returns the descriptor for a kind, or nil for an unknown kind.
func (c *Catalog) Type(k Kind) *Type {
	if k < 0 || k >= numKinds {
		return nil
	}
	return c.byKind[k]
}

// Lookup returns the descriptor registered under key.
func (c *Catalog) Lookup(key string) (*Type, bool) {
	t, ok := c.byKey[key]
	return t, ok
}

// Types returns every descriptor ordered by kind.
func (c *Catalog) Types() []*Type {
	out := make([]*Type, 0, numKinds)
	for _, t := range c.byKind {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
