package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunRecord is one pipeline run's registry entry.
type RunRecord struct {
	RunID        string      `json:"run_id"`
	BusinessName string      `json:"business_name"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
	Passed       bool        `json:"passed"`
	OverallScore float64     `json:"overall_score"`
	Summary      interface{} `json:"summary"`
}

// RunRepo records pipeline runs for operational history. One row per run,
// keyed by run id.
type RunRepo struct{}

// NewRunRepo creates a repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// Save persists one run record as a JSONB blob.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS etl_runs (
//   run_id TEXT PRIMARY KEY,
//   business_name TEXT,
//   run_json JSONB,
//   finished_at TIMESTAMPTZ
// );
func (r *RunRepo) Save(ctx context.Context, record *RunRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	query := `
		INSERT INTO etl_runs (run_id, business_name, run_json, finished_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id)
		DO UPDATE SET
			business_name = EXCLUDED.business_name,
			run_json = EXCLUDED.run_json,
			finished_at = EXCLUDED.finished_at;
	`

	if _, err := pool.Exec(ctx, query, record.RunID, record.BusinessName, jsonData, record.FinishedAt); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves one run record by id.
func (r *RunRepo) Load(ctx context.Context, runID string) (*RunRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT run_json FROM etl_runs WHERE run_id = $1`, runID).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no run found for id %s", runID)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// Recent lists the most recent runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]*RunRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx,
		`SELECT run_json FROM etl_runs ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		var record RunRecord
		if err := json.Unmarshal(jsonData, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
