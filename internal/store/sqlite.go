package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/eca-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS eca_runs (
	id         TEXT PRIMARY KEY,
	input      TEXT NOT NULL DEFAULT '',
	term       TEXT NOT NULL DEFAULT '',
	meta       TEXT NOT NULL,
	stats      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS eca_activities (
	run_id      TEXT NOT NULL REFERENCES eca_runs(id) ON DELETE CASCADE,
	activity_id TEXT NOT NULL,
	position    INTEGER NOT NULL,
	category    TEXT NOT NULL,
	level       TEXT NOT NULL,
	is_free     INTEGER NOT NULL DEFAULT 0,
	data        TEXT NOT NULL,
	PRIMARY KEY (run_id, activity_id)
);

CREATE INDEX IF NOT EXISTS idx_eca_runs_created_at ON eca_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_eca_runs_term ON eca_runs(term);
CREATE INDEX IF NOT EXISTS idx_eca_activities_position ON eca_activities(run_id, position);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	if err := prepareRun(run); err != nil {
		return err
	}
	meta, stats, err := encodeHeader(run)
	if err != nil {
		return err
	}
	records, err := activityRecords(run.Activities)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO eca_runs (id, input, term, meta, stats, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET input = excluded.input, term = excluded.term,
			meta = excluded.meta, stats = excluded.stats`,
		run.ID, run.Input, run.Meta.Term, string(meta), string(stats), run.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO eca_activities (run_id, activity_id, position, category, level, is_free, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, activity_id) DO UPDATE SET position = excluded.position,
			category = excluded.category, level = excluded.level,
			is_free = excluded.is_free, data = excluded.data`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare activity insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, r.ActivityID, r.Position, r.Category, r.Level, r.IsFree, string(r.Data)); err != nil {
			return eris.Wrapf(err, "sqlite: insert activity %s", r.ActivityID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit run")
}

const sqliteRunColumns = `id, input, meta, stats, created_at`

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteRunColumns+` FROM eca_runs WHERE id = ?`, runID)
	return s.loadRun(ctx, row)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteRunColumns+` FROM eca_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return s.loadRun(ctx, row)
}

func (s *SQLiteStore) loadRun(ctx context.Context, row scannable) (*model.Run, error) {
	run, err := scanRun(row)
	if err != nil || run == nil {
		return nil, err
	}
	run.Activities, err = s.ListActivities(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	var (
		where []string
		args  []any
	)
	if filter.Term != "" {
		where = append(where, "term = ?")
		args = append(args, filter.Term)
	}
	if filter.Input != "" {
		where = append(where, "input = ?")
		args = append(args, filter.Input)
	}
	if !filter.CreatedAfter.IsZero() {
		where = append(where, "created_at > ?")
		args = append(args, filter.CreatedAfter.UTC())
	}

	query := `SELECT ` + sqliteRunColumns + ` FROM eca_runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	runs := []model.Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) ListActivities(ctx context.Context, runID string) ([]model.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM eca_activities WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list activities %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	acts := []model.Activity{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan activity")
		}
		a, err := decodeActivity([]byte(data))
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, eris.Wrap(rows.Err(), "sqlite: iterate activities")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

// scanRun reads a run header. A missing row yields (nil, nil).
func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var meta, stats string

	err := row.Scan(&r.ID, &r.Input, &meta, &stats, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if err := decodeHeader(&r, []byte(meta), []byte(stats)); err != nil {
		return nil, err
	}
	return &r, nil
}
