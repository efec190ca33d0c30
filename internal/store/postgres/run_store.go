package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// RunStore persists scrape run records in the scrape_runs table.
type RunStore struct {
	client *Client
}

// NewRunStore creates a RunStore backed by the given client.
func NewRunStore(client *Client) *RunStore {
	return &RunStore{client: client}
}

// Record inserts a run record.
func (s *RunStore) Record(ctx context.Context, run domain.RunRecord) error {
	detail, err := json.Marshal(run.Detail)
	if err != nil {
		return fmt.Errorf("postgres: marshal run detail: %w", err)
	}

	const query = `
		INSERT INTO scrape_runs (
			id, run_date, status, races_total, races_in_progress,
			races_finished, fetch_errors, unknown_bet_types, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.client.pool.Exec(ctx, query,
		run.ID,
		run.Date,
		string(run.Status),
		run.RacesTotal,
		run.RacesInProgress,
		run.RacesFinished,
		run.FetchErrors,
		run.UnknownBetTypes,
		detail,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert scrape run: %w", err)
	}
	return nil
}

// ListByDate returns all runs recorded for the given race day, newest first.
func (s *RunStore) ListByDate(ctx context.Context, date time.Time) ([]domain.RunRecord, error) {
	const query = `
		SELECT id, run_date, status, races_total, races_in_progress,
		       races_finished, fetch_errors, unknown_bet_types, detail, created_at
		FROM scrape_runs
		WHERE run_date = $1
		ORDER BY created_at DESC`

	rows, err := s.client.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("postgres: query runs by date: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListRecent returns the most recent runs across all dates.
func (s *RunStore) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, run_date, status, races_total, races_in_progress,
		       races_finished, fetch_errors, unknown_bet_types, detail, created_at
		FROM scrape_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.client.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRuns(rows pgxRows) ([]domain.RunRecord, error) {
	var runs []domain.RunRecord
	for rows.Next() {
		var (
			run    domain.RunRecord
			status string
			detail []byte
		)
		err := rows.Scan(
			&run.ID,
			&run.Date,
			&status,
			&run.RacesTotal,
			&run.RacesInProgress,
			&run.RacesFinished,
			&run.FetchErrors,
			&run.UnknownBetTypes,
			&detail,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan scrape run: %w", err)
		}
		run.Status = domain.RunStatus(status)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &run.Detail); err != nil {
				return nil, fmt.Errorf("postgres: unmarshal run detail: %w", err)
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate scrape runs: %w", err)
	}
	return runs, nil
}

var _ domain.RunStore = (*RunStore)(nil)
