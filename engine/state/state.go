// Package state holds the mutable campaign roster: people, their open
// injuries and doctor assignments, built from immutable definitions.
package state

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/medical"
	"github.com/nathoo/fieldmed/types"
)

// Defs holds the immutable campaign definitions loaded from Lua.
type Defs struct {
	Campaign types.CampaignDef
	Persons  map[string]types.PersonDef
	Handlers []types.EventHandler
}

// DefaultOptions returns the options used when a campaign sets none.
func DefaultOptions() types.Options {
	return types.Options{
		HealingWaitingPeriod: 1,
		TaskXP:               1,
		TasksPerXPAward:      25,
	}
}

// Person is one roster member. It serves as patient and as doctor.
type Person struct {
	ID    string
	Order int

	name            string
	status          types.Status
	armored         bool
	healingModifier float64
	surgery         int
	edge            int
	tasks           int
	xp              int
	wait            int
	doctor          *Person
	injuries        []*injury.Injury
}

// NewPerson builds a person with no injuries and no doctor from def.
func NewPerson(def types.PersonDef) *Person {
	status := def.Status
	if status == "" {
		status = types.StatusActive
	}
	mod := def.HealingModifier
	if mod <= 0 {
		mod = 1
	}
	return &Person{
		ID:              def.ID,
		Order:           def.SourceOrder,
		name:            def.Name,
		status:          status,
		armored:         def.Armored,
		healingModifier: mod,
		surgery:         def.Surgery,
		edge:            def.Edge,
		wait:            def.WaitDays,
	}
}

func (p *Person) Name() string             { return p.name }
func (p *Person) Status() types.Status     { return p.status }
func (p *Person) SetStatus(s types.Status) { p.status = s }
func (p *Person) Armored() bool            { return p.armored }
func (p *Person) HealingModifier() float64 { return p.healingModifier }
func (p *Person) Injuries() []*injury.Injury {
	return p.injuries
}

func (p *Person) AddInjury(inj *injury.Injury) {
	p.injuries = append(p.injuries, inj)
}

func (p *Person) RemoveInjury(inj *injury.Injury) {
	for i, open := range p.injuries {
		if open == inj {
			p.injuries = append(p.injuries[:i:i], p.injuries[i+1:]...)
			return
		}
	}
}

// SetInjuries replaces every open injury.
func (p *Person) SetInjuries(injs []*injury.Injury) {
	p.injuries = append([]*injury.Injury(nil), injs...)
}

// Injury returns the open injury with the given ID.
func (p *Person) Injury(id string) (*injury.Injury, bool) {
	for _, inj := range p.injuries {
		if inj.ID == id {
			return inj, true
		}
	}
	return nil, false
}

// SurgerySkill returns the surgery level and whether the person is trained.
func (p *Person) SurgerySkill() (int, bool) { return p.surgery, p.surgery >= 0 }

// IsDoctor reports whether the person has surgery skill.
func (p *Person) IsDoctor() bool { return p.surgery >= 0 }

func (p *Person) Edge() int      { return p.edge }
func (p *Person) SetEdge(n int)  { p.edge = n }
func (p *Person) SpendEdge()     { p.edge-- }
func (p *Person) Tasks() int     { return p.tasks }
func (p *Person) SetTasks(n int) { p.tasks = n }
func (p *Person) XP() int        { return p.xp }
func (p *Person) AwardXP(n int)  { p.xp += n }
func (p *Person) SetXP(n int)    { p.xp = n }
func (p *Person) WaitDays() int  { return p.wait }
func (p *Person) SetWaitDays(n int) {
	p.wait = n
}

// Doctor returns the assigned doctor. The result is a nil interface when
// nobody is assigned.
func (p *Person) Doctor() medical.Doctor {
	if p.doctor == nil {
		return nil
	}
	return p.doctor
}

// DoctorPerson returns the assigned doctor as a roster member, or nil.
func (p *Person) DoctorPerson() *Person { return p.doctor }

// SetDoctor assigns d. Doctors that are not roster members clear the
// assignment.
func (p *Person) SetDoctor(d medical.Doctor) {
	doc, _ := d.(*Person)
	p.doctor = doc
}

// Modifiers sums the skill penalties of every open injury.
func (p *Person) Modifiers() map[types.SkillAxis]int {
	out := map[types.SkillAxis]int{}
	for _, inj := range p.injuries {
		for _, m := range inj.Modifiers() {
			out[m.Skill] += m.Penalty
		}
	}
	return out
}

// Roster is the ordered set of people in a campaign.
type Roster struct {
	Day     int
	persons map[string]*Person
}

// NewRoster builds people from defs, instantiating their declared injuries
// through c. Injuries declared without a time roll a fresh healing time
// from rnd. Doctor assignments are linked once everybody exists.
func NewRoster(defs *Defs, c *injury.Catalog, rnd dice.Source) (*Roster, error) {
	r := &Roster{persons: make(map[string]*Person, len(defs.Persons))}
	for _, def := range defs.Persons {
		r.Add(NewPerson(def))
	}

	for _, p := range r.All() {
		def := defs.Persons[p.ID]
		for i, idef := range def.Injuries {
			inj, err := NewInjury(c, p, idef, rnd)
			if err != nil {
				return nil, errors.Wrapf(err, "person %q injury %d", p.ID, i+1)
			}
			p.AddInjury(inj)
		}
		if def.Doctor != "" {
			doc, ok := r.Get(def.Doctor)
			if !ok {
				return nil, errors.Errorf("person %q: unknown doctor %q", p.ID, def.Doctor)
			}
			p.doctor = doc
		}
	}
	return r, nil
}

// NewInjury instantiates a declared injury on p.
func NewInjury(c *injury.Catalog, p *Person, def types.InjuryDef, rnd dice.Source) (*injury.Injury, error) {
	typ, ok := c.Lookup(def.Type)
	if !ok {
		return nil, errors.Errorf("unknown injury type %q", def.Type)
	}
	var loc body.Location
	if def.Location == "" && len(typ.Locations) == 1 {
		loc = typ.Locations[0]
	} else {
		var err error
		if loc, err = body.ParseLocation(def.Location); err != nil {
			return nil, err
		}
	}
	inj, err := c.New(typ.Kind, loc, def.Severity, p, rnd)
	if err != nil {
		return nil, err
	}
	if def.Time > 0 {
		inj.Time = def.Time
		inj.OriginalTime = def.Time
	}
	inj.Permanent = inj.Permanent || def.Permanent
	inj.WorkedOn = def.WorkedOn
	return inj, nil
}

// Add inserts or replaces p.
func (r *Roster) Add(p *Person) {
	if r.persons == nil {
		r.persons = map[string]*Person{}
	}
	r.persons[p.ID] = p
}

// Get returns the person with the given ID.
func (r *Roster) Get(id string) (*Person, bool) {
	p, ok := r.persons[id]
	return p, ok
}

// All returns everybody in declaration order.
func (r *Roster) All() []*Person {
	out := make([]*Person, 0, len(r.persons))
	for _, p := range r.persons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Patients returns everybody with an open injury.
func (r *Roster) Patients() []*Person {
	var out []*Person
	for _, p := range r.All() {
		if len(p.injuries) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Doctors returns everybody who could treat patients today.
func (r *Roster) Doctors() []*Person {
	var out []*Person
	for _, p := range r.All() {
		if medical.Qualified(p) {
			out = append(out, p)
		}
	}
	return out
}

// PatientsOf returns the people doc is treating.
func (r *Roster) PatientsOf(doc *Person) []*Person {
	var out []*Person
	for _, p := range r.All() {
		if p.doctor == doc {
			out = append(out, p)
		}
	}
	return out
}

// Assign puts patient under doc's care. The first treatment waits wait days.
func (r *Roster) Assign(doctorID, patientID string, wait int) error {
	doc, ok := r.Get(doctorID)
	if !ok {
		return errors.Errorf("unknown doctor %q", doctorID)
	}
	patient, ok := r.Get(patientID)
	if !ok {
		return errors.Errorf("unknown patient %q", patientID)
	}
	switch {
	case doc == patient:
		return errors.Errorf("%s cannot treat themselves", doc.Name())
	case !doc.IsDoctor():
		return errors.Errorf("%s has no surgery skill", doc.Name())
	case !medical.Qualified(doc):
		return errors.Errorf("%s is %s and cannot treat anyone", doc.Name(), doc.Status())
	case patient.Status() == types.StatusDead:
		return errors.Errorf("%s is dead", patient.Name())
	case !medical.NeedsCare(patient):
		return errors.Errorf("%s does not need medical care", patient.Name())
	}
	patient.doctor = doc
	patient.wait = wait
	return nil
}

// Release clears patient's doctor assignment.
func (r *Roster) Release(patientID string) error {
	patient, ok := r.Get(patientID)
	if !ok {
		return errors.Errorf("unknown patient %q", patientID)
	}
	if patient.doctor == nil {
		return errors.Errorf("%s has no doctor", patient.Name())
	}
	patient.doctor = nil
	patient.wait = 0
	return nil
}
