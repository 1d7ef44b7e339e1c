package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS photostudio_runs (
	id          UUID PRIMARY KEY,
	mode        TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	files       TEXT[] NOT NULL DEFAULT '{}',
	outputs     TEXT[] NOT NULL DEFAULT '{}',
	error       TEXT NOT NULL DEFAULT ''
)`

// PostgresStore keeps the ledger in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and creates the runs table
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Record(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO photostudio_runs (id, mode, started_at, finished_at, files, outputs, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Mode, run.StartedAt, run.FinishedAt, nonNil(run.Files), nonNil(run.Outputs), run.Error)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, mode, started_at, finished_at, files, outputs, error
		FROM photostudio_runs ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Mode, &run.StartedAt, &run.FinishedAt, &run.Files, &run.Outputs, &run.Error)
	return run, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
