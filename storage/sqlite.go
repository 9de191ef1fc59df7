package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"bukken_watcher/models"
)

// SQLiteStore is the default record sheet plus the operational tables
// (runs, logs, site stats, commands).
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		row_num INTEGER PRIMARY KEY AUTOINCREMENT,
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
		id INTEGER PRIMARY KEY,
		site_id TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		links_found INTEGER,
		records_new INTEGER,
		records_patched INTEGER,
		records_skipped INTEGER,
		errors_count INTEGER
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		site_id TEXT
	);

	CREATE TABLE IF NOT EXISTS site_stats (
		site_id TEXT PRIMARY KEY,
		last_run_at DATETIME,
		last_run_status TEXT,
		total_records INTEGER,
		total_runs INTEGER
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_records_name ON records(c2);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON scrape_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON scrape_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TabularStore
// =============================================================================

func (s *SQLiteStore) ReadColumn(ctx context.Context, col int) ([]string, error) {
	if err := validCol(col); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
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

func (s *SQLiteStore) AppendRow(ctx context.Context, row []string) error {
	if len(row) != ColumnCount {
		return fmt.Errorf("row has %d cells, want %d", len(row), ColumnCount)
	}

	args := make([]interface{}, ColumnCount)
	for i, v := range row {
		args[i] = v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (c1, c2, c3, c4, c5, c6, c7, c8, c9, c10)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return err
}

func (s *SQLiteStore) UpdateCell(ctx context.Context, rowNum, col int, value string) error {
	if err := validCol(col); err != nil {
		return err
	}

	// rowNum counts data rows from 1; rows are never deleted, but an
	// offset lookup stays correct even if rowids ever go sparse.
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE records SET c%d = ?
		WHERE row_num = (SELECT row_num FROM records ORDER BY row_num LIMIT 1 OFFSET ?)`, col),
		value, rowNum-1)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("row %d not found", rowNum)
	}
	return nil
}

// =============================================================================
// Runs & logs
// =============================================================================

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scrape_runs (site_id, started_at, status, links_found, records_new, records_patched, records_skipped, errors_count)
		VALUES (?, ?, ?, 0, 0, 0, 0, 0)`,
		run.SiteID, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs
		SET finished_at = ?, status = ?, links_found = ?, records_new = ?, records_patched = ?, records_skipped = ?, errors_count = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.LinksFound, run.RecordsNew, run.RecordsPatched, run.RecordsSkipped, run.ErrorsCount, run.ID)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, siteID string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message, site_id)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, siteID)
	return err
}

func (s *SQLiteStore) UpdateSiteStats(siteID string) error {
	_, err := s.db.Exec(`
		INSERT INTO site_stats (site_id, last_run_at, last_run_status, total_records, total_runs)
		VALUES (
			?,
			(SELECT started_at FROM scrape_runs WHERE site_id = ?1 ORDER BY started_at DESC LIMIT 1),
			(SELECT status FROM scrape_runs WHERE site_id = ?1 ORDER BY started_at DESC LIMIT 1),
			(SELECT COUNT(*) FROM records),
			(SELECT COUNT(*) FROM scrape_runs WHERE site_id = ?1)
		)
		ON CONFLICT(site_id) DO UPDATE SET
			last_run_at = excluded.last_run_at,
			last_run_status = excluded.last_run_status,
			total_records = excluded.total_records,
			total_runs = excluded.total_runs`,
		siteID)
	return err
}

// GetSiteStats returns the rolled-up stats row for one site, or nil if
// the site has never run.
func (s *SQLiteStore) GetSiteStats(siteID string) (*models.SiteStats, error) {
	stats := &models.SiteStats{}
	err := s.db.QueryRow(`
		SELECT site_id, last_run_at, last_run_status, total_records, total_runs
		FROM site_stats WHERE site_id = ?`, siteID).
		Scan(&stats.SiteID, &stats.LastRunAt, &stats.LastRunStatus, &stats.TotalRecords, &stats.TotalRuns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// =============================================================================
// Commands
// =============================================================================

func (s *SQLiteStore) GetPendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, COALESCE(params, '{}'), created_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var c models.Command
		var params string
		if err := rows.Scan(&c.ID, &c.Command, &params, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Params = json.RawMessage(params)
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) ParseCommandParams(cmd *models.Command) (*models.CommandParams, error) {
	params := &models.CommandParams{}
	if len(cmd.Params) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(cmd.Params, params); err != nil {
		return nil, fmt.Errorf("parse command params: %w", err)
	}
	return params, nil
}
