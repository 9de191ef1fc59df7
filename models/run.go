package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type ScrapeRun struct {
	ID             int64      `json:"id" db:"id"`
	SiteID         string     `json:"site_id" db:"site_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	LinksFound     int        `json:"links_found" db:"links_found"`
	RecordsNew     int        `json:"records_new" db:"records_new"`
	RecordsPatched int        `json:"records_patched" db:"records_patched"`
	RecordsSkipped int        `json:"records_skipped" db:"records_skipped"`
	ErrorsCount    int        `json:"errors_count" db:"errors_count"`
}

type SiteStats struct {
	SiteID        string     `json:"site_id" db:"site_id"`
	LastRunAt     *time.Time `json:"last_run_at" db:"last_run_at"`
	LastRunStatus string     `json:"last_run_status" db:"last_run_status"`
	TotalRecords  int        `json:"total_records" db:"total_records"`
	TotalRuns     int        `json:"total_runs" db:"total_runs"`
}
