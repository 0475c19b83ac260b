// Package types defines the shared data structures for the fieldmed engine.
// This package contains only type definitions: no logic, no methods.
package types

// Intent is the parsed representation of an operator command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Event is emitted when an applied effect changes medical state.
type Event struct {
	Type string
	Data map[string]any
}

// Event types emitted by the medical engine.
const (
	EventInjuryAdded      = "injury_added"
	EventInjuryHealed     = "injury_healed"
	EventInjuryPermanent  = "injury_permanent"
	EventInjuryFinalized  = "injury_finalized"
	EventInjuryWorsened   = "injury_worsened"
	EventInjuryReplaced   = "injury_replaced"
	EventTreatmentMistake = "treatment_mistake"
	EventTreatmentCrit    = "treatment_critical"
	EventTreatmentSuccess = "treatment_success"
	EventHealingSlowed    = "healing_slowed"
	EventEdgeUsed         = "edge_used"
	EventXPAwarded        = "xp_awarded"
	EventDoctorDismissed  = "doctor_dismissed"
	EventPatientDied      = "patient_died"
)

// Result is the output of a single engine step.
type Result struct {
	Effects []string // descriptions of the effects that were applied
	Events  []Event
	Output  []string
	Lines   []Line // Output with provenance; only days and combat fill it
}

// Line is one line of a day's or a combat's output and the event that
// produced it. Headings carry the zero Event.
type Line struct {
	Text    string
	Event   Event
	Heading bool
}

// SkillAxis names a skill an injury can penalise.
type SkillAxis string

const (
	SkillGunnery  SkillAxis = "gunnery"
	SkillPiloting SkillAxis = "piloting"
)

// Modifier is a skill penalty imposed by an open injury.
type Modifier struct {
	Skill   SkillAxis
	Penalty int
}

// Status is a person's life status.
type Status string

const (
	StatusActive  Status = "active"
	StatusMIA     Status = "mia"
	StatusRetired Status = "retired"
	StatusDead    Status = "dead"
)

// Options are the campaign options consulted by the medical engine.
type Options struct {
	HealingWaitingPeriod     int
	MistakeXP                int
	SuccessXP                int
	TaskXP                   int
	TasksPerXPAward          int
	UseSupportEdge           bool
	UseAlternateMedicalModel bool
}

// CampaignDef holds campaign metadata from Lua.
type CampaignDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Seed    int64
	Options Options
}

// InjuryDef is a pre-existing wound declared in campaign content.
type InjuryDef struct {
	Type      string // catalog key, e.g. "am:broken_limb"
	Location  string // body location key
	Severity  int
	Time      int // 0 means "roll a fresh healing time"
	Permanent bool
	WorkedOn  bool
}

// PersonDef is the base definition of a roster member.
type PersonDef struct {
	ID              string
	Name            string
	Status          Status
	Armored         bool    // mech/vehicle crew use the armored hit table
	HealingModifier float64 // ability-derived healing time multiplier
	Surgery         int     // surgery skill level, -1 if untrained
	Edge            int
	Doctor          string // ID of the assigned doctor, if any
	WaitDays        int
	Injuries        []InjuryDef
	SourceOrder     int
}

// EventHandler announces a medical event with a templated line.
type EventHandler struct {
	EventType string
	Say       string
}
