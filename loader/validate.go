package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Known event types for handlers.
var validEventTypes = map[string]bool{
	types.EventInjuryAdded:      true,
	types.EventInjuryHealed:     true,
	types.EventInjuryPermanent:  true,
	types.EventInjuryFinalized:  true,
	types.EventInjuryWorsened:   true,
	types.EventInjuryReplaced:   true,
	types.EventTreatmentMistake: true,
	types.EventTreatmentCrit:    true,
	types.EventTreatmentSuccess: true,
	types.EventHealingSlowed:    true,
	types.EventEdgeUsed:         true,
	types.EventXPAwarded:        true,
	types.EventDoctorDismissed:  true,
	types.EventPatientDied:      true,
}

var validStatuses = map[types.Status]bool{
	types.StatusActive:  true,
	types.StatusMIA:     true,
	types.StatusRetired: true,
	types.StatusDead:    true,
}

// MaxSurgery is the highest surgery level the treatment tables know.
const MaxSurgery = 10

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs, c *injury.Catalog) error {
	ve := &ValidationError{}

	// Campaign title required.
	if defs.Campaign.Title == "" {
		ve.errorf("Campaign.title is required")
	}
	validateOptions(defs.Campaign.Options, ve)

	if len(defs.Persons) == 0 {
		ve.Warnings = append(ve.Warnings, "campaign declares nobody")
	}

	for id, p := range defs.Persons {
		validatePerson(id, p, defs, c, ve)
	}

	// Handlers.
	for i, h := range defs.Handlers {
		if !validEventTypes[h.EventType] {
			ve.errorf("handler %d: unknown event type %q", i+1, h.EventType)
		}
		if h.Say == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("handler %d for %q says nothing", i+1, h.EventType))
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateOptions(o types.Options, ve *ValidationError) {
	if o.HealingWaitingPeriod < 1 {
		ve.errorf("options.healing_waiting_period must be at least 1, got %d", o.HealingWaitingPeriod)
	}
	if o.TasksPerXPAward < 1 {
		ve.errorf("options.tasks_per_xp_award must be at least 1, got %d", o.TasksPerXPAward)
	}
	for name, v := range map[string]int{
		"mistake_xp": o.MistakeXP,
		"success_xp": o.SuccessXP,
		"task_xp":    o.TaskXP,
	} {
		if v < 0 {
			ve.errorf("options.%s must not be negative, got %d", name, v)
		}
	}
}

func validatePerson(id string, p types.PersonDef, defs *state.Defs, c *injury.Catalog, ve *ValidationError) {
	if !validStatuses[p.Status] {
		ve.errorf("person %q: unknown status %q", id, p.Status)
	}
	if p.Surgery < -1 || p.Surgery > MaxSurgery {
		ve.errorf("person %q: surgery %d outside -1..%d", id, p.Surgery, MaxSurgery)
	}
	if p.Edge < 0 {
		ve.errorf("person %q: edge must not be negative", id)
	}
	if p.HealingModifier <= 0 {
		ve.errorf("person %q: healing_modifier must be positive", id)
	}
	if p.WaitDays < 0 {
		ve.errorf("person %q: wait_days must not be negative", id)
	}

	if p.Doctor != "" {
		doc, ok := defs.Persons[p.Doctor]
		switch {
		case !ok:
			ve.errorf("person %q: doctor %q is not on the roster", id, p.Doctor)
		case p.Doctor == id:
			ve.errorf("person %q cannot be their own doctor", id)
		case doc.Surgery < 0:
			ve.errorf("person %q: doctor %q has no surgery skill", id, p.Doctor)
		}
		if len(p.Injuries) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("person %q has a doctor but no injuries", id))
		}
	}

	for i, inj := range p.Injuries {
		validateInjury(fmt.Sprintf("person %q injury %d", id, i+1), inj, c, ve)
	}
}

func validateInjury(where string, inj types.InjuryDef, c *injury.Catalog, ve *ValidationError) {
	typ, ok := c.Lookup(inj.Type)
	if !ok {
		ve.errorf("%s: unknown injury type %q", where, inj.Type)
		return
	}
	if inj.Location == "" {
		if len(typ.Locations) != 1 {
			ve.errorf("%s: %s needs a location", where, typ.Name)
		}
	} else if loc, err := body.ParseLocation(inj.Location); err != nil {
		ve.errorf("%s: %v", where, err)
	} else if !typ.Allowed(loc) {
		ve.errorf("%s: %s cannot be located at the %s", where, typ.Name, loc)
	}
	if inj.Severity < 0 || inj.Severity > typ.MaxSeverity {
		ve.errorf("%s: %s severity %d outside 1..%d", where, typ.Name, inj.Severity, typ.MaxSeverity)
	}
	if inj.Time < 0 {
		ve.errorf("%s: time must not be negative", where)
	}
}
