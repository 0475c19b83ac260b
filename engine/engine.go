// Package engine provides the Step() orchestrator that wires together
// parsing, name resolution, the medical rules, effects and event
// announcements into a single command.
package engine

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/gertd/go-pluralize"
	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/effects"
	"github.com/nathoo/fieldmed/engine/events"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/journal"
	"github.com/nathoo/fieldmed/engine/medical"
	"github.com/nathoo/fieldmed/engine/parser"
	"github.com/nathoo/fieldmed/engine/resolve"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// MaxDaysPerStep bounds "day <n>".
const MaxDaysPerStep = 365

// MaxHitsPerCombat bounds the hits one combat can deliver to a person.
const MaxHitsPerCombat = 100

// Engine holds the campaign definitions and mutable state.
type Engine struct {
	Defs       *state.Defs
	Roster     *state.Roster
	RNG        *RNG
	Catalog    *injury.Catalog
	Resolver   *medical.Resolver
	Generator  injury.Generator
	Journal    *journal.Journal
	Logger     *slog.Logger
	CommandLog []string

	seed      int64
	alternate injury.Generator
	plural    *pluralize.Client
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.Logger = l }
}

// WithAlternateGenerator registers the generator used when the campaign
// turns on the alternate medical model.
func WithAlternateGenerator(g injury.Generator) Option {
	return func(e *Engine) { e.alternate = g }
}

// WithJournal records every applied event in j.
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) { e.Journal = j }
}

// WithSeed overrides the campaign's RNG seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New creates an engine from definitions. Campaigns that set no options get
// state.DefaultOptions.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	e := &Engine{
		Defs:    defs,
		Catalog: injury.NewCatalog(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:    defs.Campaign.Seed,
		plural:  pluralize.NewClient(),
	}
	for _, opt := range opts {
		opt(e)
	}

	options := defs.Campaign.Options
	if options == (types.Options{}) {
		options = state.DefaultOptions()
	}
	e.Resolver = medical.New(options, e.Catalog)

	e.Generator = injury.NewStandard(e.Catalog)
	if options.UseAlternateMedicalModel {
		if e.alternate != nil {
			e.Generator = e.alternate
		} else {
			e.Logger.Warn("alternate_medical_model_missing", "fallback", "standard")
		}
	}

	e.RNG = NewRNG(e.seed)
	roster, err := state.NewRoster(defs, e.Catalog, e.RNG)
	if err != nil {
		return nil, errors.Wrap(err, "building roster")
	}
	e.Roster = roster
	return e, nil
}

// Options returns the campaign options in effect.
func (e *Engine) Options() types.Options {
	return e.Resolver.Options
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.seed = seed
	e.RNG = RestoreRNG(seed, position)
}

// Step processes one operator command and returns the result.
func (e *Engine) Step(input string) types.Result {
	ctx := context.Background()

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Empty input.
	if intent.Verb == "" {
		return output("What now? (try: day, combat <person> <hits>, assign <doctor> to <patient>, status)")
	}

	// 3. Log the command.
	e.CommandLog = append(e.CommandLog, input)

	// 4. Dispatch on verb.
	switch intent.Verb {
	case "day":
		days := 1
		if intent.Object != "" {
			n, err := strconv.Atoi(intent.Object)
			if err != nil || n < 1 {
				return output("Advance how many days?")
			}
			days = min(n, MaxDaysPerStep)
		}
		var result types.Result
		for i := 0; i < days; i++ {
			merge(&result, e.AdvanceDay(ctx))
		}
		return result

	case "combat":
		if intent.Object == "" {
			return output("Who took the hits? (combat <person> <hits>)")
		}
		hits := 1
		if intent.Target != "" {
			n, err := strconv.Atoi(intent.Target)
			if err != nil || n < 1 {
				return output("Hits must be a positive number.")
			}
			hits = min(n, MaxHitsPerCombat)
		}
		p, err := resolve.Person(e.Roster, intent.Object, nil)
		if err != nil {
			return output(err.Error())
		}
		result, err := e.Combat(ctx, p.ID, hits)
		if err != nil {
			return output(err.Error())
		}
		return result

	case "assign":
		if intent.Object == "" || intent.Target == "" {
			return output("Assign whom? (assign <doctor> to <patient>)")
		}
		doc, err := resolve.Person(e.Roster, intent.Object, (*state.Person).IsDoctor)
		if err != nil {
			return output(err.Error())
		}
		patient, err := resolve.Person(e.Roster, intent.Target, nil)
		if err != nil {
			return output(err.Error())
		}
		if err := e.Assign(doc.ID, patient.ID); err != nil {
			return output(err.Error())
		}
		return output(doc.Name() + " is now treating " + patient.Name() + ".")

	case "release":
		if intent.Object == "" {
			return output("Release whom?")
		}
		patient, err := resolve.Person(e.Roster, intent.Object, nil)
		if err != nil {
			return output(err.Error())
		}
		doc := patient.DoctorPerson()
		if err := e.Release(patient.ID); err != nil {
			return output(err.Error())
		}
		return output(patient.Name() + " is released from " + doc.Name() + "'s care.")

	case "preview":
		if intent.Object == "" {
			return output("Preview whom?")
		}
		p, err := resolve.Person(e.Roster, intent.Object, nil)
		if err != nil {
			return output(err.Error())
		}
		effs := e.Preview(p.ID)
		if len(effs) == 0 {
			return output("Nothing is planned for " + p.Name() + " tomorrow.")
		}
		return types.Result{Output: append([]string{"Tomorrow, for " + p.Name() + ":"}, indent(effects.Describe(effs))...)}

	case "status":
		if intent.Object == "" {
			return types.Result{Output: e.describePatients()}
		}
		p, err := resolve.Person(e.Roster, intent.Object, nil)
		if err != nil {
			return output(err.Error())
		}
		return types.Result{Output: e.describePerson(p)}

	case "roster":
		return types.Result{Output: e.describeRoster()}

	case "catalog":
		return types.Result{Output: e.describeCatalog()}

	case "history":
		if intent.Object == "" {
			return output("Whose history?")
		}
		p, err := resolve.Person(e.Roster, intent.Object, nil)
		if err != nil {
			return output(err.Error())
		}
		limit := 20
		if n, err := strconv.Atoi(intent.Target); err == nil && n > 0 {
			limit = n
		}
		lines, err := e.describeHistory(ctx, p, limit)
		if err != nil {
			return output(err.Error())
		}
		return types.Result{Output: lines}

	default:
		return output("I don't know how to " + intent.Verb + ".")
	}
}

// AdvanceDay resolves one day for everybody on the roster, in roster order,
// on the engine's RNG stream.
func (e *Engine) AdvanceDay(ctx context.Context) types.Result {
	e.Roster.Day++
	var result types.Result
	addLines(&result, types.Line{Text: "Day " + strconv.Itoa(e.Roster.Day) + ".", Heading: true})

	for _, p := range e.Roster.All() {
		if len(p.Injuries()) == 0 && p.DoctorPerson() == nil {
			continue
		}
		if doc := p.Doctor(); doc != nil && !medical.Qualified(doc) {
			e.Logger.Warn("doctor_unqualified", "patient", p.ID, "doctor", p.DoctorPerson().ID, "status", string(doc.Status()))
		}
		rep := e.Resolver.Day(p, e.RNG)
		result.Effects = append(result.Effects, rep.Effects...)
		result.Events = append(result.Events, rep.Events...)
	}

	addLines(&result, e.announce(ctx, result.Events)...)
	e.Logger.Debug("day_advanced",
		"day", e.Roster.Day,
		"effects", len(result.Effects),
		"events", len(result.Events),
		"patients", len(e.Roster.Patients()),
		"rng_position", e.RNG.Position())
	return result
}

// Assign puts a patient under a doctor's care. The first treatment waits
// the campaign's healing waiting period.
func (e *Engine) Assign(doctorID, patientID string) error {
	if err := e.Roster.Assign(doctorID, patientID, e.Options().HealingWaitingPeriod); err != nil {
		return err
	}
	e.Logger.Info("doctor_assigned", "doctor", doctorID, "patient", patientID)
	return nil
}

// Release ends a patient's treatment.
func (e *Engine) Release(patientID string) error {
	if err := e.Roster.Release(patientID); err != nil {
		return err
	}
	e.Logger.Info("doctor_released", "patient", patientID)
	return nil
}

// Preview returns the effects the next day's doctor or untreated branch
// would apply to a person, without rolling or changing anything.
func (e *Engine) Preview(id string) []effects.GameEffect {
	p, ok := e.Roster.Get(id)
	if !ok {
		return nil
	}
	return e.Resolver.Preview(p)
}

// announce turns applied events into output lines and journals them.
// Campaign handlers replace the built-in line for the events they match.
// Handlers run in a single pass and never produce further events.
func (e *Engine) announce(ctx context.Context, evts []types.Event) []types.Line {
	var lines []types.Line
	for _, ev := range evts {
		ev = e.withSpan(ev)
		said := events.Dispatch([]types.Event{ev}, e.Defs.Handlers)
		if len(said) == 0 {
			said = []string{events.Render(narration[ev.Type], ev)}
		}
		for _, text := range said {
			lines = append(lines, types.Line{Text: text, Event: ev})
		}
	}

	if e.Journal != nil && len(evts) > 0 {
		if err := e.Journal.Record(ctx, e.Roster.Day, evts); err != nil {
			e.Logger.Warn("journal_record_failed", "day", e.Roster.Day, "error", err.Error())
		}
	}
	return lines
}

// withSpan adds a pluralized "span" for events that carry a day count.
func (e *Engine) withSpan(ev types.Event) types.Event {
	var days int
	switch v := ev.Data["days"].(type) {
	case int:
		days = v
	case float64:
		// Journaled events come back from JSON.
		days = int(v)
	default:
		return ev
	}
	data := make(map[string]any, len(ev.Data)+1)
	for k, v := range ev.Data {
		data[k] = v
	}
	data["span"] = e.plural.Pluralize("day", days, true)
	return types.Event{Type: ev.Type, Data: data}
}

// narration is the line announced for an event no campaign handler covers.
var narration = map[string]string{
	types.EventInjuryAdded:      "{patient} suffers {injury}.",
	types.EventInjuryHealed:     "{patient}'s {injury} has healed.",
	types.EventInjuryPermanent:  "{patient}'s {injury} healed badly and is now permanent.",
	types.EventInjuryFinalized:  "{patient}'s {injury} will not improve any further.",
	types.EventInjuryWorsened:   "{patient}'s {injury} got worse.",
	types.EventInjuryReplaced:   "{patient}'s {previous} has become {injury}.",
	types.EventTreatmentMistake: "{doctor} made a mistake treating {patient}'s {injury} (+{span}).",
	types.EventTreatmentCrit:    "{doctor} did excellent work on {patient}'s {injury} (-{span}).",
	types.EventTreatmentSuccess: "{doctor} treated {patient}'s {injury}.",
	types.EventHealingSlowed:    "{patient}'s {injury} is healing slowly without a doctor.",
	types.EventEdgeUsed:         "{doctor} used Edge to reroll a botched treatment.",
	types.EventXPAwarded:        "{doctor} earned {xp} XP treating {patient}.",
	types.EventDoctorDismissed:  "{patient} leaves {doctor}'s care ({reason}).",
	types.EventPatientDied:      "{patient} has died ({cause}).",
}

func output(lines ...string) types.Result {
	return types.Result{Output: lines}
}

func merge(into *types.Result, r types.Result) {
	into.Effects = append(into.Effects, r.Effects...)
	into.Events = append(into.Events, r.Events...)
	into.Output = append(into.Output, r.Output...)
	into.Lines = append(into.Lines, r.Lines...)
}

// addLines appends to both Lines and Output so the two stay in step.
func addLines(into *types.Result, lines ...types.Line) {
	for _, l := range lines {
		into.Lines = append(into.Lines, l)
		into.Output = append(into.Output, l.Text)
	}
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  " + l
	}
	return out
}
