package tui

import (
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"

	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// panelWidth is the roster panel's width including its border. The panel
// hides on terminals narrower than panelMinTerm.
const (
	panelWidth   = 34
	panelMinTerm = 90
)

var plural = pluralize.NewClient()

// patientRow is one living patient as the panel shows them.
type patientRow struct {
	name   string
	worst  string // the injury with the most days left
	days   int
	open   int  // injury count
	scars  bool // every injury is permanent
	doctor string
}

type doctorRow struct {
	name     string
	patients int
}

// roster is the side panel's snapshot of the roster. It is rebuilt after
// every command so it never drifts from the engine.
type roster struct {
	day       int
	patients  []patientRow
	doctors   []doctorRow
	untreated int
	dead      int
}

func snapshot(r *state.Roster) roster {
	s := roster{day: r.Day}
	for _, p := range r.All() {
		if p.Status() == types.StatusDead {
			s.dead++
			continue
		}
		injs := p.Injuries()
		if len(injs) == 0 {
			continue
		}
		row := patientRow{name: p.Name(), open: len(injs), scars: true, days: -1}
		for _, inj := range injs {
			if inj.Permanent {
				continue
			}
			row.scars = false
			if inj.Time > row.days {
				row.days = inj.Time
				row.worst = inj.Name()
			}
		}
		if row.scars {
			row.worst = injs[0].Name()
			row.days = 0
		}
		if doc := p.DoctorPerson(); doc != nil {
			row.doctor = doc.Name()
		} else if !row.scars {
			s.untreated++
		}
		s.patients = append(s.patients, row)
	}
	for _, d := range r.Doctors() {
		s.doctors = append(s.doctors, doctorRow{name: d.Name(), patients: len(r.PatientsOf(d))})
	}
	return s
}

// lines renders the snapshot as plain text, inner is the usable width.
func (s roster) lines(inner int) []string {
	out := []string{stylePanelTitle.Render(fmt.Sprintf("Patients (%d)", len(s.patients)))}
	if len(s.patients) == 0 {
		out = append(out, styleMuted.Render("nobody is hurt"))
	}
	for _, p := range s.patients {
		left := clip(p.name, inner-6)
		out = append(out, left+strings.Repeat(" ", max(inner-len([]rune(left))-5, 1))+p.remaining())
		detail := p.worst
		if p.open > 1 {
			detail += fmt.Sprintf(" +%d", p.open-1)
		}
		out = append(out, styleMuted.Render(clip("  "+detail, inner)))
		care := "  untreated"
		switch {
		case p.doctor != "":
			care = "  with " + p.doctor
		case p.scars:
			care = "  no care needed"
		}
		out = append(out, styleMuted.Render(clip(care, inner)))
	}

	out = append(out, "", stylePanelTitle.Render(fmt.Sprintf("Doctors (%d)", len(s.doctors))))
	if len(s.doctors) == 0 {
		out = append(out, styleMuted.Render("nobody can treat"))
	}
	for _, d := range s.doctors {
		out = append(out, clip(d.name, inner))
		out = append(out, styleMuted.Render(clip("  "+plural.Pluralize("patient", d.patients, true), inner)))
	}
	return out
}

// remaining is the right-aligned "12d" column, "perm" for scars.
func (p patientRow) remaining() string {
	if p.scars {
		return " perm"
	}
	return fmt.Sprintf("%4dd", p.days)
}

// view renders the panel at height rows.
func (s roster) view(height int) string {
	inner := panelWidth - 2 // border and padding
	height = max(height, 2)
	lines := s.lines(inner)
	if len(lines) > height {
		lines = append(lines[:height-1], styleMuted.Render("..."))
	}
	return stylePanel.Width(panelWidth - 1).Height(height).Render(strings.Join(lines, "\n"))
}

func clip(s string, n int) string {
	r := []rune(s)
	if n < 1 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
