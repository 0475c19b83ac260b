package engine

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rodaine/table"

	"github.com/nathoo/fieldmed/engine/events"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// render prints a table into lines.
func render(t table.Table) []string {
	var buf bytes.Buffer
	t.WithWriter(&buf).Print()
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func (e *Engine) describeRoster() []string {
	t := table.New("ID", "Name", "Status", "Injuries", "Doctor", "Surgery")
	for _, p := range e.Roster.All() {
		surgery := "-"
		if lvl, ok := p.SurgerySkill(); ok {
			surgery = strconv.Itoa(lvl)
		}
		doctor := "-"
		if d := p.DoctorPerson(); d != nil {
			doctor = d.Name()
		}
		t.AddRow(p.ID, p.Name(), p.Status(), len(p.Injuries()), doctor, surgery)
	}
	return append([]string{fmt.Sprintf("Day %d.", e.Roster.Day)}, render(t)...)
}

func (e *Engine) describePatients() []string {
	patients := e.Roster.Patients()
	if len(patients) == 0 {
		return []string{fmt.Sprintf("Day %d. Nobody is injured.", e.Roster.Day)}
	}
	t := table.New("Patient", "Status", "Injury", "Days Left", "Doctor")
	for _, p := range patients {
		doctor := "untreated"
		if d := p.DoctorPerson(); d != nil {
			doctor = d.Name()
		}
		for _, inj := range p.Injuries() {
			t.AddRow(p.Name(), p.Status(), inj.Name(), daysLeft(inj.Time, inj.Permanent), doctor)
		}
	}
	head := fmt.Sprintf("Day %d. %s under care.", e.Roster.Day, e.plural.Pluralize("patient", len(patients), true))
	return append([]string{head}, render(t)...)
}

func (e *Engine) describePerson(p *state.Person) []string {
	lines := []string{fmt.Sprintf("%s (%s), %s.", p.Name(), p.ID, p.Status())}

	if lvl, ok := p.SurgerySkill(); ok {
		lines = append(lines, fmt.Sprintf("Surgery %d, Edge %d, %d XP, %s toward the next award.",
			lvl, p.Edge(), p.XP(), e.plural.Pluralize("task", p.Tasks(), true)))
		if treating := e.Roster.PatientsOf(p); len(treating) > 0 {
			names := make([]string, len(treating))
			for i, t := range treating {
				names[i] = t.Name()
			}
			lines = append(lines, "Treating: "+strings.Join(names, ", ")+".")
		}
	}

	if d := p.DoctorPerson(); d != nil {
		line := "Under the care of " + d.Name()
		if w := p.WaitDays(); w > 0 {
			line += fmt.Sprintf(", next treatment in %s", e.plural.Pluralize("day", w, true))
		}
		lines = append(lines, line+".")
	}

	if len(p.Injuries()) == 0 {
		return append(lines, "No injuries.")
	}
	t := table.New("Injury", "Level", "Days Left", "Notes")
	for _, inj := range p.Injuries() {
		var notes []string
		if inj.Permanent {
			notes = append(notes, "permanent")
		}
		if inj.WorkedOn {
			notes = append(notes, "treated")
		}
		if inj.Extended {
			notes = append(notes, "extended")
		}
		t.AddRow(inj.Name(), inj.Level(), daysLeft(inj.Time, inj.Permanent), strings.Join(notes, ", "))
	}
	lines = append(lines, render(t)...)

	mods := p.Modifiers()
	var penalties []string
	for _, skill := range []types.SkillAxis{types.SkillGunnery, types.SkillPiloting} {
		if n := mods[skill]; n != 0 {
			penalties = append(penalties, fmt.Sprintf("%s +%d", skill, n))
		}
	}
	if len(penalties) > 0 {
		lines = append(lines, "Penalties: "+strings.Join(penalties, ", ")+".")
	}
	return lines
}

func (e *Engine) describeCatalog() []string {
	t := table.New("Key", "Name", "Level", "Days", "Locations")
	for _, typ := range e.Catalog.Types() {
		days := strconv.Itoa(typ.RecoveryTime(1))
		if typ.MaxSeverity > 1 {
			days += fmt.Sprintf("-%d", typ.RecoveryTime(typ.MaxSeverity))
		}
		if typ.Permanent {
			days = "permanent"
		}
		locs := make([]string, len(typ.Locations))
		for i, l := range typ.Locations {
			locs[i] = l.Key()
		}
		t.AddRow(typ.Key, typ.Name, typ.Level, days, strings.Join(locs, " "))
	}
	return render(t)
}

func (e *Engine) describeHistory(ctx context.Context, p *state.Person, limit int) ([]string, error) {
	if e.Journal == nil {
		return []string{"No journal is open."}, nil
	}
	entries, err := e.Journal.ForPerson(ctx, p.Name(), limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []string{"Nothing recorded for " + p.Name() + "."}, nil
	}
	t := table.New("Day", "Event", "Details")
	for _, en := range entries {
		ev := e.withSpan(types.Event{Type: en.Type, Data: en.Data})
		t.AddRow(en.Day, en.Type, events.Render(narration[en.Type], ev))
	}
	return render(t), nil
}

func daysLeft(time int, permanent bool) string {
	if permanent && time == 0 {
		return "-"
	}
	return strconv.Itoa(time)
}
