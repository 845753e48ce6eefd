package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rhartert/tradeways/sim"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    start_hub TEXT NOT NULL,
    end_hub TEXT NOT NULL,
    state TEXT NOT NULL,
    edges TEXT NOT NULL,
    distance REAL NOT NULL,
    time REAL NOT NULL,
    days INTEGER NOT NULL,
    error TEXT,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS days (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    day INTEGER NOT NULL,
    date TEXT,
    hub TEXT NOT NULL,
    edge TEXT,
    edge_offset REAL,
    day_distance REAL NOT NULL,
    day_time REAL NOT NULL,
    distance REAL NOT NULL,
    time REAL NOT NULL,
    overnight INTEGER NOT NULL,
    PRIMARY KEY (run_id, day)
);
`

// Run is a stored simulation run.
type Run struct {
	ID       int64
	Start    string
	End      string
	State    string
	Edges    []string
	Distance float64
	Time     float64
	Days     int
	Error    string
	Created  time.Time
}

// SQLiteStore persists travel logs in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens, and creates if needed, the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a result and its travel log. runErr is the error the run
// failed with, if any. It returns the id of the run.
func (s *SQLiteStore) SaveRun(ctx context.Context, res *sim.Result, runErr error) (id int64, err error) {
	edges, err := json.Marshal(res.Edges)
	if err != nil {
		return 0, fmt.Errorf("failed to encode edges: %w", err)
	}
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs (start_hub, end_hub, state, edges, distance, time, days, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Start, res.End, res.State.String(), string(edges), res.Distance, res.Time, res.Days(), errText,
		s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err = r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, d := range res.Log {
		var date, edge sql.NullString
		if !d.Date.IsZero() {
			date = sql.NullString{String: d.Date.Format(time.DateOnly), Valid: true}
		}
		if d.Edge != "" {
			edge = sql.NullString{String: d.Edge, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO days (run_id, day, date, hub, edge, edge_offset, day_distance, day_time, distance, time, overnight)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, d.Day, date, d.Hub, edge, d.Offset, d.DayDistance, d.DayTime, d.Distance, d.Time, d.Overnight)
		if err != nil {
			return 0, fmt.Errorf("failed to insert day %d: %w", d.Day, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// Runs returns the stored runs, oldest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_hub, end_hub, state, edges, distance, time, days, error, created_at
		FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r       Run
			edges   string
			errText sql.NullString
			created string
		)
		if err := rows.Scan(&r.ID, &r.Start, &r.End, &r.State, &edges, &r.Distance, &r.Time, &r.Days, &errText, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(edges), &r.Edges); err != nil {
			return nil, fmt.Errorf("failed to decode edges of run %d: %w", r.ID, err)
		}
		r.Error = errText.String
		if r.Created, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("failed to parse creation time of run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Days returns the travel log of a stored run.
func (s *SQLiteStore) Days(ctx context.Context, runID int64) ([]sim.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, date, hub, edge, edge_offset, day_distance, day_time, distance, time, overnight
		FROM days WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	days := []sim.DayRecord{}
	for rows.Next() {
		var (
			d          sim.DayRecord
			date, edge sql.NullString
		)
		if err := rows.Scan(&d.Day, &date, &d.Hub, &edge, &d.Offset, &d.DayDistance, &d.DayTime, &d.Distance, &d.Time, &d.Overnight); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		if date.Valid {
			if d.Date, err = time.Parse(time.DateOnly, date.String); err != nil {
				return nil, fmt.Errorf("failed to parse date: %w", err)
			}
		}
		d.Edge = edge.String
		days = append(days, d)
	}
	return days, rows.Err()
}
