package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/fieldmed/types"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1)

	stylePanelTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// tone decides how a transcript line is coloured.
type tone int

const (
	tonePlain tone = iota
	toneHeading
	toneEcho
	toneSystem
	toneTrace
	toneWound
	toneCare
	toneHealed
	toneSetback
	toneDeath
)

var toneStyles = map[tone]lipgloss.Style{
	tonePlain:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	toneHeading: lipgloss.NewStyle().Bold(true).Underline(true),
	toneEcho:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	toneSystem:  styleMuted,
	toneTrace:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	toneWound:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	toneCare:    lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
	toneHealed:  lipgloss.NewStyle().Foreground(lipgloss.Color("41")),
	toneSetback: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	toneDeath:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// eventTones colours narrated lines by the event that produced them.
var eventTones = map[string]tone{
	types.EventInjuryAdded:      toneWound,
	types.EventTreatmentSuccess: toneCare,
	types.EventEdgeUsed:         toneCare,
	types.EventXPAwarded:        toneCare,
	types.EventInjuryHealed:     toneHealed,
	types.EventTreatmentCrit:    toneHealed,
	types.EventTreatmentMistake: toneSetback,
	types.EventInjuryWorsened:   toneSetback,
	types.EventInjuryPermanent:  toneSetback,
	types.EventInjuryFinalized:  toneSetback,
	types.EventInjuryReplaced:   toneSetback,
	types.EventHealingSlowed:    toneSetback,
	types.EventPatientDied:      toneDeath,
}

// lineTone picks the tone for one narrated line. A doctor letting a
// patient go is good news only when the patient recovered.
func lineTone(l types.Line) tone {
	if l.Heading {
		return toneHeading
	}
	if l.Event.Type == types.EventDoctorDismissed {
		if l.Event.Data["reason"] == "recovered" {
			return toneHealed
		}
		return tonePlain
	}
	return eventTones[l.Event.Type]
}
