package manifest

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"beigebook/internal/reports"

	"github.com/google/uuid"
)

//go:embed schema.sql
var Schema string

// terminal states of a key in a scrape run
const (
	StateSkipped = "skipped"
	StateWritten = "written"
	StateMissing = "missing"
)

var ErrNoRuns = errors.New("no scrape run recorded yet")

type Entry struct {
	Key   reports.Key
	State string
	Cause string
	Bytes int
}

// Store keeps one row per key and scrape run, it is an optional companion
// to the missing ledger that can be queried after the fact.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the tables in `db` if they do not exist yet.
func Open(ctx context.Context, db *sql.DB) (Store, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: db, now: time.Now}, nil
}

type RunInfo struct {
	ID        string
	StartedAt time.Time
	StartYear int
	EndYear   int
}

// BeginRun registers a new scrape run over [startYear, endYear].
func (s Store) BeginRun(ctx context.Context, startYear, endYear int) (Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		"insert into runs(id, started_at, start_year, end_year) values (?, ?, ?, ?)",
		id, s.now().UnixNano(), startYear, endYear,
	)
	if err != nil {
		return Run{}, err
	}
	return Run{store: s, ID: id}, nil
}

func (s Store) record(ctx context.Context, runID string, entry Entry) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into outcomes(run_id, year, month, region, state, cause, bytes, recorded_at)
		values (?, ?, ?, ?, ?, ?, ?, ?)
		on conflict(run_id, year, month, region) do update set
			state = excluded.state,
			cause = excluded.cause,
			bytes = excluded.bytes,
			recorded_at = excluded.recorded_at`,
		runID,
		entry.Key.Year, entry.Key.Month, entry.Key.Region,
		entry.State, entry.Cause, entry.Bytes,
		s.now().UnixNano(),
	)
	return err
}

// LatestRun returns the most recently started run.
func (s Store) LatestRun(ctx context.Context) (RunInfo, error) {
	row := s.db.QueryRowContext(
		ctx,
		"select id, started_at, start_year, end_year from runs order by started_at desc, rowid desc limit 1",
	)
	return scanRun(row)
}

func (s Store) GetRun(ctx context.Context, id string) (RunInfo, error) {
	row := s.db.QueryRowContext(
		ctx,
		"select id, started_at, start_year, end_year from runs where id = ?",
		id,
	)
	return scanRun(row)
}

func scanRun(row *sql.Row) (RunInfo, error) {
	var info RunInfo
	var startedAt int64
	err := row.Scan(&info.ID, &startedAt, &info.StartYear, &info.EndYear)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrNoRuns
	}
	if err != nil {
		return RunInfo{}, err
	}
	info.StartedAt = time.Unix(0, startedAt)
	return info, nil
}

// Counts returns the number of keys per state in a run.
func (s Store) Counts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select state, count(*) from outcomes where run_id = ? group by state",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var state string
		var n int
		err := rows.Scan(&state, &n)
		if err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// Missing returns the entries of a run that ended up in the missing ledger,
// ordered like the keys were enumerated.
func (s Store) Missing(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select year, month, region, cause from outcomes
		where run_id = ? and state = ?
		order by year, month, rowid`,
		runID, StateMissing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry := Entry{State: StateMissing}
		err := rows.Scan(&entry.Key.Year, &entry.Key.Month, &entry.Key.Region, &entry.Cause)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Run records the entries of a single scrape run.
type Run struct {
	store Store
	ID    string
}

func (r Run) Record(ctx context.Context, entry Entry) error {
	return r.store.record(ctx, r.ID, entry)
}
