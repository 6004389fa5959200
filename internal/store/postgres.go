package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/db"
	"github.com/sells-group/eca-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Close does not close it.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS eca_runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	input      TEXT NOT NULL DEFAULT '',
	term       TEXT NOT NULL DEFAULT '',
	meta       JSONB NOT NULL,
	stats      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS eca_activities (
	run_id      TEXT NOT NULL REFERENCES eca_runs(id) ON DELETE CASCADE,
	activity_id TEXT NOT NULL,
	position    INTEGER NOT NULL,
	category    TEXT NOT NULL,
	level       TEXT NOT NULL,
	is_free     BOOLEAN NOT NULL DEFAULT false,
	data        JSONB NOT NULL,
	PRIMARY KEY (run_id, activity_id)
);

CREATE INDEX IF NOT EXISTS idx_eca_runs_created_at ON eca_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_eca_runs_term ON eca_runs(term);
CREATE INDEX IF NOT EXISTS idx_eca_activities_position ON eca_activities(run_id, position);
CREATE INDEX IF NOT EXISTS idx_eca_activities_category ON eca_activities(category);
`

var activityUpsert = db.UpsertConfig{
	Table:        "eca_activities",
	Columns:      []string{"run_id", "activity_id", "position", "category", "level", "is_free", "data"},
	ConflictKeys: []string{"run_id", "activity_id"},
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.Run) error {
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO eca_runs (id, input, term, meta, stats, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET input = EXCLUDED.input, term = EXCLUDED.term,
			meta = EXCLUDED.meta, stats = EXCLUDED.stats`,
		run.ID, run.Input, run.Meta.Term, meta, stats, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert run %s", run.ID)
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{run.ID, r.ActivityID, r.Position, r.Category, r.Level, r.IsFree, r.Data}
	}
	if _, err := db.BulkUpsert(ctx, tx, activityUpsert, rows); err != nil {
		return eris.Wrapf(err, "postgres: save activities for run %s", run.ID)
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit run")
}

const postgresRunColumns = `id, input, meta, stats, created_at`

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresRunColumns+` FROM eca_runs WHERE id = $1`, runID)
	return s.loadRun(ctx, row)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresRunColumns+` FROM eca_runs ORDER BY created_at DESC LIMIT 1`)
	return s.loadRun(ctx, row)
}

func (s *PostgresStore) loadRun(ctx context.Context, row pgx.Row) (*model.Run, error) {
	run, err := scanPostgresRun(row)
	if err != nil || run == nil {
		return nil, err
	}
	run.Activities, err = s.ListActivities(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + postgresRunColumns + ` FROM eca_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Term != "" {
		query += fmt.Sprintf(` AND term = $%d`, argIdx)
		args = append(args, filter.Term)
		argIdx++
	}
	if filter.Input != "" {
		query += fmt.Sprintf(` AND input = $%d`, argIdx)
		args = append(args, filter.Input)
		argIdx++
	}
	if !filter.CreatedAfter.IsZero() {
		query += fmt.Sprintf(` AND created_at > $%d`, argIdx)
		args = append(args, filter.CreatedAfter)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, filter.limit())
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		r, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) ListActivities(ctx context.Context, runID string) ([]model.Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM eca_activities WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list activities %s", runID)
	}
	defer rows.Close()

	acts := []model.Activity{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan activity")
		}
		a, err := decodeActivity(data)
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, eris.Wrap(rows.Err(), "postgres: iterate activities")
}

// scanPostgresRun reads a run header. A missing row yields (nil, nil).
func scanPostgresRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var meta, stats []byte

	err := row.Scan(&r.ID, &r.Input, &meta, &stats, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan run")
	}
	if err := decodeHeader(&r, meta, stats); err != nil {
		return nil, err
	}
	return &r, nil
}
