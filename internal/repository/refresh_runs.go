package repository

import (
	"context"
	"time"

	"github.com/shiftwatch/dashboard/backend/internal/domain"
)

// EnsureSchema creates the telemetry table on startup when it does not exist
// yet. The service owns no other tables.
func (r *Repository) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS refresh_runs (
			id BIGSERIAL PRIMARY KEY,
			method TEXT NOT NULL,
			shift_count INT NOT NULL DEFAULT 0,
			page_count INT NOT NULL DEFAULT 0,
			partial BOOLEAN NOT NULL DEFAULT FALSE,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			succeeded BOOLEAN NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query)
	return err
}

func (r *Repository) InsertRefreshRun(run *domain.RefreshRun) error {
	query := `
		INSERT INTO refresh_runs (method, shift_count, page_count, partial, duration_ms, succeeded, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{run.Method, run.ShiftCount, run.PageCount, run.Partial, run.DurationMS, run.Succeeded, run.Detail}
	dst := []any{&run.ID, &run.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRecentRefreshRuns(limit int) ([]*domain.RefreshRun, error) {
	query := `
		SELECT id, method, shift_count, page_count, partial, duration_ms, succeeded, detail, created_at
		FROM refresh_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.RefreshRun{}
	for rows.Next() {
		run := &domain.RefreshRun{}
		dst := []any{&run.ID, &run.Method, &run.ShiftCount, &run.PageCount, &run.Partial, &run.DurationMS, &run.Succeeded, &run.Detail, &run.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
