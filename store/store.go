// Package store persists solve runs in SQLite for later inspection and
// aggregate reporting.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded solve outcome. Givens and Solution hold compact
// grid text so rows stay greppable and diffable.
type Run struct {
	ID          string        `json:"id"`
	Fingerprint string        `json:"fingerprint"`
	Layout      string        `json:"layout"`
	Status      string        `json:"status"`
	Givens      string        `json:"givens"`
	Solution    string        `json:"solution,omitempty"`
	Guesses     int           `json:"guesses"`
	Backtracks  int           `json:"backtracks"`
	Steps       int           `json:"steps"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store handles SQLite database operations for run records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the runs database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		layout TEXT NOT NULL,
		status TEXT NOT NULL,
		givens TEXT NOT NULL,
		solution TEXT,
		guesses INTEGER NOT NULL DEFAULT 0,
		backtracks INTEGER NOT NULL DEFAULT 0,
		steps INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Insert records a run. An empty ID gets a fresh UUID and a zero
// CreatedAt the current time; both are written back to the record.
func (s *Store) Insert(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, fingerprint, layout, status, givens, solution,
		 guesses, backtracks, steps, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Fingerprint, run.Layout, run.Status, run.Givens, run.Solution,
		run.Guesses, run.Backtracks, run.Steps, run.Duration.Milliseconds(), run.CreatedAt,
	)
	return err
}

const runColumns = `id, fingerprint, layout, status, givens, solution,
 guesses, backtracks, steps, duration_ms, created_at`

// Get retrieves a run by ID.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRecent returns the most recent runs, newest first.
func (s *Store) ListRecent(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

// ByFingerprint returns all runs of one puzzle instance, newest first.
func (s *Store) ByFingerprint(fp string) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs WHERE fingerprint = ?
		 ORDER BY created_at DESC, id`, fp)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Stats aggregates the recorded runs.
type Stats struct {
	Runs            int     `json:"runs"`
	Solved          int     `json:"solved"`
	Unsolvable      int     `json:"unsolvable"`
	TotalGuesses    int     `json:"total_guesses"`
	TotalBacktracks int     `json:"total_backtracks"`
	TotalSteps      int     `json:"total_steps"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
}

// Stats computes aggregate counters over every recorded run.
func (s *Store) Stats() (*Stats, error) {
	row := s.db.QueryRow(`
	SELECT COUNT(*),
	 COALESCE(SUM(status = 'solved'), 0),
	 COALESCE(SUM(status = 'unsolvable'), 0),
	 COALESCE(SUM(guesses), 0),
	 COALESCE(SUM(backtracks), 0),
	 COALESCE(SUM(steps), 0),
	 COALESCE(AVG(duration_ms), 0)
	 FROM runs`)

	var st Stats
	err := row.Scan(&st.Runs, &st.Solved, &st.Unsolvable,
		&st.TotalGuesses, &st.TotalBacktracks, &st.TotalSteps, &st.AvgDurationMs)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var solution sql.NullString
	var ms int64
	err := row.Scan(&run.ID, &run.Fingerprint, &run.Layout, &run.Status,
		&run.Givens, &solution, &run.Guesses, &run.Backtracks, &run.Steps,
		&ms, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if solution.Valid {
		run.Solution = solution.String
	}
	run.Duration = time.Duration(ms) * time.Millisecond
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
