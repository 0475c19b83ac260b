package engine

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/journal"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// testDefs builds a small campaign: one doctor, one wounded soldier, one
// healthy soldier and one casualty.
func testDefs() *state.Defs {
	return &state.Defs{
		Campaign: types.CampaignDef{
			Title:   "Test Campaign",
			Version: "1.0",
			Seed:    7,
			Options: types.Options{
				HealingWaitingPeriod: 2,
				TaskXP:               1,
				TasksPerXPAward:      25,
			},
		},
		Persons: map[string]types.PersonDef{
			"reyes": {ID: "reyes", Name: "Dr Elena Reyes", Surgery: 5, Edge: 1, SourceOrder: 0},
			"ana": {
				ID: "ana", Name: "Ana Kovac", Surgery: -1, SourceOrder: 1,
				Injuries: []types.InjuryDef{{Type: "am:broken_limb", Location: "left_arm", Time: 12}},
			},
			"bo":  {ID: "bo", Name: "Bo Lindqvist", Surgery: -1, SourceOrder: 2},
			"kit": {ID: "kit", Name: "Kit Moss", Surgery: -1, Status: types.StatusDead, SourceOrder: 3},
		},
	}
}

// fixedGenerator always produces one injury of the same kind.
type fixedGenerator struct {
	catalog *injury.Catalog
	kind    injury.Kind
	loc     body.Location
	calls   int
}

func (g *fixedGenerator) Generate(p injury.Patient, hits int, rnd dice.Source) []*injury.Injury {
	g.calls++
	inj, err := g.catalog.New(g.kind, g.loc, 1, p, rnd)
	if err != nil {
		return nil
	}
	return []*injury.Injury{inj}
}

func newTestEngine(t *testing.T, defs *state.Defs, opts ...Option) *Engine {
	t.Helper()
	e, err := New(defs, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func withCuts(defs *state.Defs) (*state.Defs, *fixedGenerator) {
	defs.Campaign.Options.UseAlternateMedicalModel = true
	return defs, &fixedGenerator{catalog: injury.NewCatalog(), kind: injury.Cut, loc: body.LeftArm}
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func person(t *testing.T, e *Engine, id string) *state.Person {
	t.Helper()
	p, ok := e.Roster.Get(id)
	if !ok {
		t.Fatalf("no person %q", id)
	}
	return p
}

func TestNew_BuildsRoster(t *testing.T) {
	e := newTestEngine(t, testDefs())

	if got := len(e.Roster.All()); got != 4 {
		t.Fatalf("roster size = %d, want 4", got)
	}
	ana := person(t, e, "ana")
	if len(ana.Injuries()) != 1 || ana.Injuries()[0].Time != 12 {
		t.Errorf("ana's injuries = %v", ana.Injuries())
	}
	if e.Options().HealingWaitingPeriod != 2 {
		t.Errorf("options = %+v", e.Options())
	}
	if _, ok := e.Generator.(*injury.Standard); !ok {
		t.Errorf("generator = %T, want *injury.Standard", e.Generator)
	}
}

func TestNew_DefaultOptions(t *testing.T) {
	defs := testDefs()
	defs.Campaign.Options = types.Options{}
	e := newTestEngine(t, defs)
	if diff := cmp.Diff(state.DefaultOptions(), e.Options()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNew_BadInjuryKey(t *testing.T) {
	defs := testDefs()
	p := defs.Persons["bo"]
	p.Injuries = []types.InjuryDef{{Type: "am:hangnail", Location: "left_hand"}}
	defs.Persons["bo"] = p

	if _, err := New(defs); err == nil {
		t.Fatal("expected error for unknown injury type")
	}
}

func TestNew_AlternateModelMissingFallsBack(t *testing.T) {
	var buf bytes.Buffer
	defs := testDefs()
	defs.Campaign.Options.UseAlternateMedicalModel = true

	e := newTestEngine(t, defs, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	if _, ok := e.Generator.(*injury.Standard); !ok {
		t.Errorf("generator = %T, want *injury.Standard", e.Generator)
	}
	if !strings.Contains(buf.String(), "alternate_medical_model_missing") {
		t.Errorf("expected a warning, got log %q", buf.String())
	}
}

func TestNew_AlternateModelRegistered(t *testing.T) {
	defs, gen := withCuts(testDefs())
	e := newTestEngine(t, defs, WithAlternateGenerator(gen))
	if e.Generator != injury.Generator(gen) {
		t.Errorf("generator = %T, want the registered one", e.Generator)
	}
}

func TestStep_EmptyInput(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("   ")
	if !outputContains(result.Output, "What now?") {
		t.Errorf("output = %v", result.Output)
	}
	if len(e.CommandLog) != 0 {
		t.Errorf("empty input should not be logged, got %v", e.CommandLog)
	}
}

func TestStep_CommandLogged(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("roster")
	e.Step("status ana")
	if diff := cmp.Diff([]string{"roster", "status ana"}, e.CommandLog); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestStep_UnknownVerb(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("dance")
	if !outputContains(result.Output, "don't know how to dance") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_Day(t *testing.T) {
	tests := []struct {
		input   string
		wantDay int
	}{
		{"day", 1},
		{"d", 1},
		{"next day", 1},
		{"day 3", 3},
		{"wait 2", 2},
		{"day 0", 0},
		{"day 999", MaxDaysPerStep},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := newTestEngine(t, testDefs())
			e.Step(tt.input)
			if e.Roster.Day != tt.wantDay {
				t.Errorf("day = %d, want %d", e.Roster.Day, tt.wantDay)
			}
		})
	}
}

func TestStep_DayHealsWorkedOnInjury(t *testing.T) {
	defs := testDefs()
	p := defs.Persons["bo"]
	p.Injuries = []types.InjuryDef{{Type: "am:bruise", Location: "chest", Time: 1, WorkedOn: true}}
	defs.Persons["bo"] = p
	e := newTestEngine(t, defs)

	result := e.Step("day")

	if got := len(person(t, e, "bo").Injuries()); got != 0 {
		t.Errorf("bo still has %d injuries", got)
	}
	if !outputContains(result.Output, "Bo Lindqvist's Bruises (chest) has healed.") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_DayDismissesRecoveredPatient(t *testing.T) {
	defs := testDefs()
	p := defs.Persons["bo"]
	p.Injuries = []types.InjuryDef{{Type: "am:bruise", Location: "chest", Time: 1, WorkedOn: true}}
	p.Doctor = "reyes"
	p.WaitDays = 5
	defs.Persons["bo"] = p
	e := newTestEngine(t, defs)

	result := e.Step("day")

	bo := person(t, e, "bo")
	if bo.DoctorPerson() != nil || bo.WaitDays() != 0 {
		t.Errorf("doctor = %v, wait = %d", bo.DoctorPerson(), bo.WaitDays())
	}
	if !outputContains(result.Output, "Bo Lindqvist leaves Dr Elena Reyes's care (recovered).") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_HandlerReplacesNarration(t *testing.T) {
	defs := testDefs()
	defs.Handlers = []types.EventHandler{
		{EventType: types.EventInjuryHealed, Say: "Back on duty: {patient}."},
	}
	p := defs.Persons["bo"]
	p.Injuries = []types.InjuryDef{{Type: "am:bruise", Location: "chest", Time: 1, WorkedOn: true}}
	defs.Persons["bo"] = p
	e := newTestEngine(t, defs)

	result := e.Step("day")

	if !outputContains(result.Output, "Back on duty: Bo Lindqvist.") {
		t.Errorf("output = %v", result.Output)
	}
	if outputContains(result.Output, "has healed") {
		t.Errorf("built-in line should be replaced, got %v", result.Output)
	}
}

func TestStep_DayLinesCarryEventType(t *testing.T) {
	defs := testDefs()
	defs.Handlers = []types.EventHandler{
		{EventType: types.EventInjuryHealed, Say: "Back on duty: {patient}."},
	}
	p := defs.Persons["bo"]
	p.Injuries = []types.InjuryDef{{Type: "am:bruise", Location: "chest", Time: 1, WorkedOn: true}}
	defs.Persons["bo"] = p
	e := newTestEngine(t, defs)

	result := e.Step("day 2")

	var texts []string
	var headings int
	for _, l := range result.Lines {
		texts = append(texts, l.Text)
		if l.Heading {
			headings++
			if l.Event.Type != "" {
				t.Errorf("heading %q has event %q", l.Text, l.Event.Type)
			}
		}
		if l.Text == "Back on duty: Bo Lindqvist." && l.Event.Type != types.EventInjuryHealed {
			t.Errorf("handler line event = %q", l.Event.Type)
		}
	}
	if headings != 2 {
		t.Errorf("headings = %d, want 2", headings)
	}
	if diff := cmp.Diff(result.Output, texts); diff != "" {
		t.Errorf("lines drift from output (-output +lines):\n%s", diff)
	}
}

func TestStep_Combat(t *testing.T) {
	defs, gen := withCuts(testDefs())
	e := newTestEngine(t, defs, WithAlternateGenerator(gen))

	result := e.Step("combat ana 2")

	want := []string{
		"Ana Kovac takes 2 hits.",
		"Ana Kovac suffers Cuts (left arm).",
	}
	if diff := cmp.Diff(want, result.Output); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times", gen.calls)
	}
	if got := len(person(t, e, "ana").Injuries()); got != 2 {
		t.Errorf("ana has %d injuries, want 2", got)
	}
	if len(result.Events) != 1 || result.Events[0].Type != types.EventInjuryAdded {
		t.Errorf("events = %v", result.Events)
	}
	if len(result.Lines) != 2 || result.Lines[0].Event.Type != "" ||
		result.Lines[1].Event.Type != types.EventInjuryAdded ||
		result.Lines[1].Event.Data["patient"] != "Ana Kovac" {
		t.Errorf("lines = %+v", result.Lines)
	}
}

func TestStep_CombatErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"combat", "Who took the hits?"},
		{"combat ana 0", "Hits must be a positive number."},
		{"combat kit 2", "Kit Moss is dead"},
		{"combat zed 2", `nobody called "zed"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := newTestEngine(t, testDefs())
			result := e.Step(tt.input)
			if !outputContains(result.Output, tt.want) {
				t.Errorf("output = %v, want %q", result.Output, tt.want)
			}
		})
	}
}

func TestStep_CombatHitsCapped(t *testing.T) {
	defs, gen := withCuts(testDefs())
	e := newTestEngine(t, defs, WithAlternateGenerator(gen))

	result := e.Step("combat bo 2000000000")
	if len(result.Output) == 0 || result.Output[0] != "Bo Lindqvist takes 100 hits." {
		t.Errorf("output = %v", result.Output)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times", gen.calls)
	}
}

func TestCombat_DirectAPI(t *testing.T) {
	defs, gen := withCuts(testDefs())
	e := newTestEngine(t, defs, WithAlternateGenerator(gen))

	if _, err := e.Combat(context.Background(), "ghost", 1); err == nil {
		t.Error("expected error for unknown person")
	}
	if _, err := e.Combat(context.Background(), "bo", 0); err == nil {
		t.Error("expected error for zero hits")
	}
	if _, err := e.Combat(context.Background(), "bo", MaxHitsPerCombat+1); err == nil {
		t.Error("expected error above MaxHitsPerCombat")
	}
	result, err := e.Combat(context.Background(), "bo", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Effects) != 1 {
		t.Errorf("effects = %v", result.Effects)
	}
}

func TestStep_Assign(t *testing.T) {
	for _, input := range []string{"assign reyes to ana", "treat ana with reyes", "assign elena to kovac"} {
		t.Run(input, func(t *testing.T) {
			e := newTestEngine(t, testDefs())
			result := e.Step(input)

			ana := person(t, e, "ana")
			if ana.DoctorPerson() == nil || ana.DoctorPerson().ID != "reyes" {
				t.Fatalf("ana's doctor = %v, output %v", ana.DoctorPerson(), result.Output)
			}
			if ana.WaitDays() != 2 {
				t.Errorf("wait = %d, want the healing waiting period", ana.WaitDays())
			}
			if !outputContains(result.Output, "Dr Elena Reyes is now treating Ana Kovac.") {
				t.Errorf("output = %v", result.Output)
			}
		})
	}
}

func TestStep_AssignErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"assign reyes", "Assign whom?"},
		{"assign reyes to bo", "does not need medical care"},
		{"assign reyes to kit", "Kit Moss is dead"},
		{"assign ana to bo", `nobody called "ana"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := newTestEngine(t, testDefs())
			result := e.Step(tt.input)
			if !outputContains(result.Output, tt.want) {
				t.Errorf("output = %v, want %q", result.Output, tt.want)
			}
			for _, p := range e.Roster.All() {
				if p.DoctorPerson() != nil {
					t.Errorf("%s was assigned a doctor", p.ID)
				}
			}
		})
	}
}

func TestStep_Release(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("assign reyes to ana")

	result := e.Step("release ana")
	if !outputContains(result.Output, "Ana Kovac is released from Dr Elena Reyes's care.") {
		t.Errorf("output = %v", result.Output)
	}
	if person(t, e, "ana").DoctorPerson() != nil {
		t.Error("doctor not cleared")
	}

	result = e.Step("release ana")
	if !outputContains(result.Output, "has no doctor") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_Preview(t *testing.T) {
	e := newTestEngine(t, testDefs())

	result := e.Step("preview ana")
	want := []string{
		"Tomorrow, for Ana Kovac:",
		"  30% chance of Ana Kovac's Broken Limb (left arm) healing more slowly without a doctor",
	}
	if diff := cmp.Diff(want, result.Output); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(result.Events) != 0 || person(t, e, "ana").Injuries()[0].Time != 12 {
		t.Error("preview changed state")
	}

	e.Step("assign reyes to ana")
	result = e.Step("preview ana")
	if !outputContains(result.Output, "Nothing is planned for Ana Kovac tomorrow.") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_Status(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("assign reyes to ana")

	result := e.Step("status ana")
	for _, want := range []string{
		"Ana Kovac (ana), active.",
		"Under the care of Dr Elena Reyes, next treatment in 2 days.",
		"Broken Limb (left arm)",
		"Penalties: gunnery +2.",
	} {
		if !outputContains(result.Output, want) {
			t.Errorf("missing %q in %v", want, result.Output)
		}
	}

	result = e.Step("status reyes")
	for _, want := range []string{"Surgery 5, Edge 1, 0 XP, 0 tasks", "Treating: Ana Kovac."} {
		if !outputContains(result.Output, want) {
			t.Errorf("missing %q in %v", want, result.Output)
		}
	}

	result = e.Step("status")
	if !outputContains(result.Output, "1 patient under care") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_RosterAndCatalog(t *testing.T) {
	e := newTestEngine(t, testDefs())

	roster := e.Step("roster")
	for _, name := range []string{"Dr Elena Reyes", "Ana Kovac", "Bo Lindqvist", "Kit Moss"} {
		if !outputContains(roster.Output, name) {
			t.Errorf("roster is missing %s: %v", name, roster.Output)
		}
	}

	catalog := e.Step("catalog")
	for _, key := range []string{"am:cut", "am:internal_bleeding", "am:severed_spine"} {
		if !outputContains(catalog.Output, key) {
			t.Errorf("catalog is missing %s", key)
		}
	}
}

func TestStep_History(t *testing.T) {
	j, err := journal.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })

	defs, gen := withCuts(testDefs())
	e := newTestEngine(t, defs, WithAlternateGenerator(gen), WithJournal(j))

	result := e.Step("history ana")
	if !outputContains(result.Output, "Nothing recorded for Ana Kovac.") {
		t.Errorf("output = %v", result.Output)
	}

	e.Step("combat ana 1")
	result = e.Step("history ana")
	if !outputContains(result.Output, "Ana Kovac suffers Cuts (left arm).") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestStep_HistoryWithoutJournal(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("history ana")
	if !outputContains(result.Output, "No journal is open.") {
		t.Errorf("output = %v", result.Output)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	commands := []string{"combat ana 3", "combat bo 4", "day 3", "assign reyes to ana", "day 10", "combat ana 2", "day 20"}

	run := func() [][]string {
		e := newTestEngine(t, testDefs())
		var out [][]string
		for _, cmd := range commands {
			out = append(out, e.Step(cmd).Output)
		}
		return out
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed gave different runs (-first +second):\n%s", diff)
	}
}

func TestEngine_RestoreRNG(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("combat bo 3")
	seed, pos := e.RNG.Seed(), e.RNG.Position()

	want := []int{e.RNG.NextInt(100), e.RNG.NextInt(100), e.RNG.NextInt(100)}

	e.RestoreRNG(seed, pos)
	got := []int{e.RNG.NextInt(100), e.RNG.NextInt(100), e.RNG.NextInt(100)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWithSeed(t *testing.T) {
	e := newTestEngine(t, testDefs(), WithSeed(99))
	if e.RNG.Seed() != 99 {
		t.Errorf("seed = %d, want 99", e.RNG.Seed())
	}
}
