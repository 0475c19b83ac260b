package medical

import (
	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/types"
)

type fakeDoctor struct {
	name    string
	status  types.Status
	surgery int // -1 untrained
	edge    int
	tasks   int
	xp      int
}

func newDoctor(skill int) *fakeDoctor {
	return &fakeDoctor{name: "Dr Reyes", status: types.StatusActive, surgery: skill}
}

func (d *fakeDoctor) Name() string         { return d.name }
func (d *fakeDoctor) Status() types.Status { return d.status }
func (d *fakeDoctor) Edge() int            { return d.edge }
func (d *fakeDoctor) SpendEdge()           { d.edge-- }
func (d *fakeDoctor) Tasks() int           { return d.tasks }
func (d *fakeDoctor) SetTasks(n int)       { d.tasks = n }
func (d *fakeDoctor) AwardXP(n int)        { d.xp += n }

func (d *fakeDoctor) SurgerySkill() (int, bool) {
	return d.surgery, d.surgery >= 0
}

type fakePatient struct {
	name     string
	status   types.Status
	doctor   *fakeDoctor
	wait     int
	injuries []*injury.Injury
}

func newPatient() *fakePatient {
	return &fakePatient{name: "Ana", status: types.StatusActive}
}

func (p *fakePatient) Name() string               { return p.name }
func (p *fakePatient) Injuries() []*injury.Injury { return p.injuries }
func (p *fakePatient) AddInjury(i *injury.Injury) { p.injuries = append(p.injuries, i) }
func (p *fakePatient) HealingModifier() float64   { return 1 }
func (p *fakePatient) Armored() bool              { return false }
func (p *fakePatient) Status() types.Status       { return p.status }
func (p *fakePatient) SetStatus(s types.Status)   { p.status = s }
func (p *fakePatient) WaitDays() int              { return p.wait }
func (p *fakePatient) SetWaitDays(n int)          { p.wait = n }

func (p *fakePatient) RemoveInjury(i *injury.Injury) {
	out := p.injuries[:0]
	for _, inj := range p.injuries {
		if inj != i {
			out = append(out, inj)
		}
	}
	p.injuries = out
}

func (p *fakePatient) Doctor() Doctor {
	if p.doctor == nil {
		return nil
	}
	return p.doctor
}

func (p *fakePatient) SetDoctor(d Doctor) {
	if d == nil {
		p.doctor = nil
		return
	}
	p.doctor = d.(*fakeDoctor)
}

var catalog = injury.NewCatalog()

func wound(p *fakePatient, k injury.Kind, loc body.Location, days int) *injury.Injury {
	inj, err := catalog.New(k, loc, 1, p, dice.Func(func(int) int { return 20 }))
	if err != nil {
		panic(err)
	}
	inj.Time = days
	inj.OriginalTime = days
	p.AddInjury(inj)
	return inj
}

// rolls answers by bound and falls back to fallback for anything unlisted.
func rolls(byBound map[int][]int, fallback int) dice.Source {
	return dice.Func(func(bound int) int {
		if q := byBound[bound]; len(q) > 0 {
			r := q[0]
			byBound[bound] = q[1:]
			return r
		}
		return fallback
	})
}

func defaultOptions() types.Options {
	return types.Options{
		HealingWaitingPeriod: 1,
		TaskXP:               1,
		TasksPerXPAward:      25,
	}
}
