package save

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/dice"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Campaign: types.CampaignDef{Title: "Test Campaign", Version: "1.0"},
		Persons: map[string]types.PersonDef{
			"reyes": {ID: "reyes", Name: "Dr Reyes", Surgery: 5, Edge: 2, SourceOrder: 0},
			"ana": {
				ID: "ana", Name: "Ana Kovac", Surgery: -1, SourceOrder: 1,
				Injuries: []types.InjuryDef{{Type: "am:broken_limb", Location: "left_arm", Time: 30}},
			},
		},
	}
}

func testRoster(t *testing.T, c *injury.Catalog) *state.Roster {
	t.Helper()
	r, err := state.NewRoster(testDefs(), c, dice.Func(func(int) int { return 20 }))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	c := injury.NewCatalog()
	r := testRoster(t, c)

	// Modify state.
	ana, _ := r.Get("ana")
	reyes, _ := r.Get("reyes")
	if err := r.Assign("reyes", "ana", 2); err != nil {
		t.Fatal(err)
	}
	limb := ana.Injuries()[0]
	limb.Time = 17
	limb.WorkedOn = true
	limb.Extended = true
	conc, _ := c.New(injury.Concussion, body.Head, 2, ana, dice.Func(func(int) int { return 20 }))
	ana.AddInjury(conc)
	reyes.SpendEdge()
	reyes.AwardXP(3)
	reyes.SetTasks(7)
	r.Day = 12

	data, err := Save(r, testDefs(), 42, 99, []string{"day", "assign reyes to ana"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("save is not valid JSON")
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.RNGSeed != 42 || sd.RNGPosition != 99 || sd.Day != 12 || sd.Campaign != "Test Campaign" {
		t.Errorf("header = %+v", sd)
	}

	fresh := testRoster(t, c)
	if err := ApplySave(fresh, c, sd); err != nil {
		t.Fatalf("ApplySave failed: %v", err)
	}

	if diff := cmp.Diff(Snapshot(r, testDefs()), Snapshot(fresh, testDefs())); diff != "" {
		t.Errorf("restored roster differs (-want +got):\n%s", diff)
	}
	restored, _ := fresh.Get("ana")
	if restored.DoctorPerson() == nil || restored.DoctorPerson().ID != "reyes" || restored.WaitDays() != 2 {
		t.Error("doctor assignment not restored")
	}
	if got := restored.Injuries()[1].Type; got != c.Type(injury.Concussion) {
		t.Error("injury type should be the shared catalog entry")
	}
	if fresh.Day != 12 {
		t.Errorf("day = %d", fresh.Day)
	}
}

func TestLoad_NilSlicesInitialized(t *testing.T) {
	sd, err := Load([]byte(`{"version":"1.0","persons":[{"id":"ana"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if sd.CommandLog == nil || sd.Persons[0].Injuries == nil {
		t.Error("slices should never be nil after load")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplySave_RejectsBadData(t *testing.T) {
	c := injury.NewCatalog()
	tests := []struct {
		name string
		sd   SaveData
	}{
		{"unknown person", SaveData{Persons: []PersonData{{ID: "ghost"}}}},
		{"unknown doctor", SaveData{Persons: []PersonData{{ID: "ana", Doctor: "house"}}}},
		{"unknown type", SaveData{Persons: []PersonData{{ID: "ana", Injuries: []InjuryData{
			{Type: "am:hangnail", Location: "left_hand", Severity: 1},
		}}}}},
		{"bad location", SaveData{Persons: []PersonData{{ID: "ana", Injuries: []InjuryData{
			{Type: "am:punctured_lung", Location: "left_hand", Severity: 1},
		}}}}},
		{"bad severity", SaveData{Persons: []PersonData{{ID: "ana", Injuries: []InjuryData{
			{Type: "am:concussion", Location: "head", Severity: 3},
		}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRoster(t, c)
			before := Snapshot(r, testDefs())
			if err := ApplySave(r, c, &tt.sd); err == nil {
				t.Fatal("expected error")
			}
			if diff := cmp.Diff(before, Snapshot(r, testDefs())); diff != "" {
				t.Errorf("failed apply changed the roster (-want +got):\n%s", diff)
			}
		})
	}
}
