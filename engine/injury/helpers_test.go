package injury

import (
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/types"
)

type fakePatient struct {
	name     string
	armored  bool
	mod      float64
	status   types.Status
	injuries []*Injury
}

func newPatient(name string) *fakePatient {
	return &fakePatient{name: name, mod: 1, status: types.StatusActive}
}

func (p *fakePatient) Name() string             { return p.name }
func (p *fakePatient) Injuries() []*Injury      { return p.injuries }
func (p *fakePatient) AddInjury(i *Injury)      { p.injuries = append(p.injuries, i) }
func (p *fakePatient) HealingModifier() float64 { return p.mod }
func (p *fakePatient) Armored() bool            { return p.armored }
func (p *fakePatient) Status() types.Status     { return p.status }
func (p *fakePatient) SetStatus(s types.Status) { p.status = s }

func (p *fakePatient) RemoveInjury(i *Injury) {
	out := p.injuries[:0]
	for _, inj := range p.injuries {
		if inj != i {
			out = append(out, inj)
		}
	}
	p.injuries = out
}

// byBound answers each roll according to its bound. The healing jitter
// (bound 41) defaults to its midpoint so times come out at 100%; every other
// unlisted bound rolls 0.
func byBound(rolls map[int]int) dice.Source {
	return dice.Func(func(bound int) int {
		if r, ok := rolls[bound]; ok {
			return r
		}
		if bound == 41 {
			return 20
		}
		return 0
	})
}

func kinds(injs []*Injury) []Kind {
	out := make([]Kind, 0, len(injs))
	for _, i := range injs {
		out = append(out, i.Type.Kind)
	}
	return out
}
