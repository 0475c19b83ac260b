// Package save implements JSON serialization and deserialization of the
// roster's medical state.
package save

import (
	goccy "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/body"
	"github.com/nathoo/fieldmed/engine/injury"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// InjuryData is one open injury. Types are stored by catalog key.
type InjuryData struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Severity     int    `json:"severity"`
	OriginalTime int    `json:"original_time"`
	Time         int    `json:"time"`
	Permanent    bool   `json:"permanent,omitempty"`
	WorkedOn     bool   `json:"worked_on,omitempty"`
	Extended     bool   `json:"extended,omitempty"`
}

// PersonData is the mutable part of one roster member.
type PersonData struct {
	ID       string       `json:"id"`
	Status   types.Status `json:"status"`
	Doctor   string       `json:"doctor,omitempty"`
	WaitDays int          `json:"wait_days,omitempty"`
	Edge     int          `json:"edge"`
	Tasks    int          `json:"tasks"`
	XP       int          `json:"xp"`
	Injuries []InjuryData `json:"injuries"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string       `json:"version"`
	Campaign    string       `json:"campaign"`
	Day         int          `json:"day"`
	RNGSeed     int64        `json:"rng_seed"`
	RNGPosition int64        `json:"rng_position"`
	Persons     []PersonData `json:"persons"`
	CommandLog  []string     `json:"command_log"`
}

// Snapshot captures the roster without serializing it.
func Snapshot(r *state.Roster, defs *state.Defs) *SaveData {
	sd := &SaveData{
		Version:    defs.Campaign.Version,
		Campaign:   defs.Campaign.Title,
		Day:        r.Day,
		Persons:    []PersonData{},
		CommandLog: []string{},
	}
	for _, p := range r.All() {
		pd := PersonData{
			ID:       p.ID,
			Status:   p.Status(),
			WaitDays: p.WaitDays(),
			Edge:     p.Edge(),
			Tasks:    p.Tasks(),
			XP:       p.XP(),
			Injuries: []InjuryData{},
		}
		if doc := p.DoctorPerson(); doc != nil {
			pd.Doctor = doc.ID
		}
		for _, inj := range p.Injuries() {
			pd.Injuries = append(pd.Injuries, InjuryData{
				ID:           inj.ID,
				Type:         inj.Type.Key,
				Location:     inj.Location.Key(),
				Severity:     inj.Hits,
				OriginalTime: inj.OriginalTime,
				Time:         inj.Time,
				Permanent:    inj.Permanent,
				WorkedOn:     inj.WorkedOn,
				Extended:     inj.Extended,
			})
		}
		sd.Persons = append(sd.Persons, pd)
	}
	return sd
}

// Save serializes the roster and RNG state to JSON bytes.
func Save(r *state.Roster, defs *state.Defs, seed, position int64, commandLog []string) ([]byte, error) {
	sd := Snapshot(r, defs)
	sd.RNGSeed = seed
	sd.RNGPosition = position
	if commandLog != nil {
		sd.CommandLog = commandLog
	}
	return goccy.MarshalIndent(sd, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := goccy.Unmarshal(data, &sd); err != nil {
		return nil, errors.Wrap(err, "decoding save")
	}
	// Ensure slices are never nil after load.
	if sd.Persons == nil {
		sd.Persons = []PersonData{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	for i := range sd.Persons {
		if sd.Persons[i].Injuries == nil {
			sd.Persons[i].Injuries = []InjuryData{}
		}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a roster built from the same
// campaign. Injury types are re-linked through c. Nothing is changed when
// the save refers to unknown people, types or locations.
func ApplySave(r *state.Roster, c *injury.Catalog, sd *SaveData) error {
	type pending struct {
		person   *state.Person
		data     PersonData
		doctor   *state.Person
		injuries []*injury.Injury
	}
	var plan []pending

	for _, pd := range sd.Persons {
		p, ok := r.Get(pd.ID)
		if !ok {
			return errors.Errorf("save refers to unknown person %q", pd.ID)
		}
		next := pending{person: p, data: pd}
		if pd.Doctor != "" {
			if next.doctor, ok = r.Get(pd.Doctor); !ok {
				return errors.Errorf("person %q: unknown doctor %q", pd.ID, pd.Doctor)
			}
		}
		for _, id := range pd.Injuries {
			inj, err := restoreInjury(c, id)
			if err != nil {
				return errors.Wrapf(err, "person %q", pd.ID)
			}
			next.injuries = append(next.injuries, inj)
		}
		plan = append(plan, next)
	}

	for _, next := range plan {
		p, pd := next.person, next.data
		status := pd.Status
		if status == "" {
			status = types.StatusActive
		}
		p.SetStatus(status)
		p.SetEdge(pd.Edge)
		p.SetTasks(pd.Tasks)
		p.SetXP(pd.XP)
		p.SetInjuries(next.injuries)
		if next.doctor != nil {
			p.SetDoctor(next.doctor)
		} else {
			p.SetDoctor(nil)
		}
		p.SetWaitDays(pd.WaitDays)
	}
	r.Day = sd.Day
	return nil
}

func restoreInjury(c *injury.Catalog, d InjuryData) (*injury.Injury, error) {
	typ, ok := c.Lookup(d.Type)
	if !ok {
		return nil, errors.Errorf("unknown injury type %q", d.Type)
	}
	loc, err := body.ParseLocation(d.Location)
	if err != nil {
		return nil, err
	}
	if !typ.Allowed(loc) {
		return nil, errors.Errorf("%s cannot be located at the %s", typ.Name, loc)
	}
	sev := d.Severity
	if sev < 1 || sev > typ.MaxSeverity {
		return nil, errors.Errorf("%s severity %d outside 1..%d", typ.Name, sev, typ.MaxSeverity)
	}
	if d.Time < 0 {
		return nil, errors.Errorf("%s has negative time %d", typ.Name, d.Time)
	}
	return &injury.Injury{
		ID:           d.ID,
		Type:         typ,
		Location:     loc,
		Hits:         sev,
		OriginalTime: d.OriginalTime,
		Time:         d.Time,
		Permanent:    d.Permanent,
		WorkedOn:     d.WorkedOn,
		Extended:     d.Extended,
	}, nil
}
