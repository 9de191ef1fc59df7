package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the Postgres-backed record sheet, selected when a DSN
// is configured. Run history is recorded alongside the records.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		row_num BIGSERIAL PRIMARY KEY,
		c1 TEXT NOT NULL DEFAULT '',
		c2 TEXT NOT NULL DEFAULT '',
		c3 TEXT NOT NULL DEFAULT '',
		c4 TEXT NOT NULL DEFAULT '',
		c5 TEXT NOT NULL DEFAULT '',
		c6 TEXT NOT NULL DEFAULT '',
		c7 TEXT NOT NULL DEFAULT '',
		c8 TEXT NOT NULL DEFAULT '',
		c9 TEXT NOT NULL DEFAULT '',
		c10 TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS scrape_runs (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		status TEXT NOT NULL,
		links_found INT NOT NULL DEFAULT 0,
		records_new INT NOT NULL DEFAULT 0,
		records_patched INT NOT NULL DEFAULT 0,
		errors_count INT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_records_name ON records(c2);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON scrape_runs(source, started_at);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// =============================================================================
// TabularStore
// =============================================================================

func (s *PostgresStore) ReadColumn(ctx context.Context, col int) ([]string, error) {
	if err := validCol(col); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT c%d FROM records ORDER BY row_num`, col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *PostgresStore) AppendRow(ctx context.Context, row []string) error {
	if len(row) != ColumnCount {
		return fmt.Errorf("row has %d cells, want %d", len(row), ColumnCount)
	}

	args := make([]interface{}, ColumnCount)
	for i, v := range row {
		args[i] = v
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO records (c1, c2, c3, c4, c5, c6, c7, c8, c9, c10)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, args...)
	return err
}

func (s *PostgresStore) UpdateCell(ctx context.Context, rowNum, col int, value string) error {
	if err := validCol(col); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE records SET c%d = $1
		WHERE row_num = (SELECT row_num FROM records ORDER BY row_num LIMIT 1 OFFSET $2)`, col),
		value, rowNum-1)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("row %d not found", rowNum)
	}
	return nil
}

// =============================================================================
// Run history
// =============================================================================

// RunRecord mirrors one orchestrator run in the Postgres store.
type RunRecord struct {
	ID             uuid.UUID
	Source         string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string
	LinksFound     int
	RecordsNew     int
	RecordsPatched int
	ErrorsCount    int
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *RunRecord) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scrape_runs (id, source, started_at, status)
		VALUES ($1, $2, $3, $4)`,
		run.ID, run.Source, run.StartedAt, run.Status)
	return err
}

func (s *PostgresStore) FinishRun(ctx context.Context, run *RunRecord) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE scrape_runs
		SET finished_at = $2, status = $3, links_found = $4, records_new = $5, records_patched = $6, errors_count = $7
		WHERE id = $1`,
		run.ID, run.FinishedAt, run.Status, run.LinksFound, run.RecordsNew, run.RecordsPatched, run.ErrorsCount)
	return err
}
