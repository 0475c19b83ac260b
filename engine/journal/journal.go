// Package journal records applied medical events in a SQLite database so a
// campaign's injury history can be queried after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	goccy "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	// SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/nathoo/fieldmed/types"
)

const schema = `CREATE TABLE IF NOT EXISTS medical_event (
	id TEXT PRIMARY KEY,
	day INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	type TEXT NOT NULL,
	patient TEXT NOT NULL DEFAULT '',
	injury TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_medical_event_patient ON medical_event(patient, day);`

// Entry is one recorded event.
type Entry struct {
	ID       string
	Day      int
	Seq      int
	Type     string
	Patient  string
	Injury   string
	Location string
	Data     map[string]any
}

// Journal is a SQLite-backed event log.
type Journal struct {
	db  *sql.DB
	seq int
}

// Open opens (or creates) the journal at dsn. Use ":memory:" for a
// throwaway journal.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening journal %q", dsn)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating journal schema")
	}

	j := &Journal{db: db}
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM medical_event").Scan(&j.seq); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "reading journal sequence")
	}
	return j, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores events that happened on day. Either all of them are stored or
// none are.
// PRE: events come from a single applied batch
// POST: every event is persisted with a fresh sequence number
func (j *Journal) Record(ctx context.Context, day int, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning journal transaction")
	}
	defer tx.Rollback()

	fields := []string{"id", "day", "seq", "type", "patient", "injury", "location", "data"}
	placeholders := make([]string, len(fields))
	updates := make([]string, 0, len(fields)-1)
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" {
			updates = append(updates, f+"=excluded."+f)
		}
	}
	query := fmt.Sprintf(
		"INSERT INTO medical_event (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	seq := j.seq
	for _, ev := range events {
		data, err := goccy.Marshal(ev.Data)
		if err != nil {
			return errors.Wrapf(err, "encoding %s event", ev.Type)
		}
		seq++
		_, err = tx.ExecContext(ctx, query,
			uuid.NewString(),
			day,
			seq,
			ev.Type,
			field(ev, "patient"),
			field(ev, "injury"),
			field(ev, "location"),
			string(data),
		)
		if err != nil {
			return errors.Wrapf(err, "recording %s event", ev.Type)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing journal")
	}
	j.seq = seq
	return nil
}

// ForPerson returns the most recent events for the named patient, oldest
// first. A limit of zero or less returns everything.
func (j *Journal) ForPerson(ctx context.Context, patient string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, day, seq, type, patient, injury, location, data FROM (
			SELECT * FROM medical_event WHERE patient = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, patient, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "querying journal for %q", patient)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Count returns the number of recorded events of the given type, or of all
// types when typ is empty.
func (j *Journal) Count(ctx context.Context, typ string) (int, error) {
	var n int
	var err error
	if typ == "" {
		err = j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM medical_event").Scan(&n)
	} else {
		err = j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM medical_event WHERE type = ?", typ).Scan(&n)
	}
	return n, errors.Wrap(err, "counting journal events")
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var data string
		if err := rows.Scan(&e.ID, &e.Day, &e.Seq, &e.Type, &e.Patient, &e.Injury, &e.Location, &data); err != nil {
			return nil, errors.Wrap(err, "scanning journal row")
		}
		if err := goccy.Unmarshal([]byte(data), &e.Data); err != nil {
			return nil, errors.Wrapf(err, "decoding event %s", e.ID)
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "reading journal rows")
}

func field(ev types.Event, key string) string {
	v, ok := ev.Data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
