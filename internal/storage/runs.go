package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/calebhart/enrichflow/internal/credits"
	"github.com/calebhart/enrichflow/internal/model"
)

// SaveRun records a finished workflow execution and returns its id.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run model.Run) (int64, error) {
	if run.JobID == "" {
		return 0, fmt.Errorf("run job id cannot be empty")
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			job_id, name, source_hash, status,
			total_records, valid_records, duplicate_records, invalid_records,
			credits_used, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.JobID, run.Name, run.SourceHash, run.Status,
		run.TotalRecords, run.ValidRecords, run.DuplicateRecords, run.InvalidRecords,
		run.CreditsUsed, run.Duration.Milliseconds(), createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit means
// all runs.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := `
		SELECT id, job_id, name, source_hash, status,
			total_records, valid_records, duplicate_records, invalid_records,
			credits_used, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var durationMs int64
		if err := rows.Scan(
			&run.ID, &run.JobID, &run.Name, &run.SourceHash, &run.Status,
			&run.TotalRecords, &run.ValidRecords, &run.DuplicateRecords, &run.InvalidRecords,
			&run.CreditsUsed, &durationMs, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetCredits returns the stored credit balance, seeding the default account
// on first use.
func (s *SQLiteStorage) GetCredits(ctx context.Context) (model.CreditBalance, error) {
	var balance model.CreditBalance
	err := s.db.QueryRowContext(ctx, `
		SELECT balance, used_today, used_this_month, plan_limit, renewal_date
		FROM credits WHERE id = 1`).Scan(
		&balance.Balance, &balance.UsedToday, &balance.UsedThisMonth,
		&balance.PlanLimit, &balance.RenewalDate)
	if errors.Is(err, sql.ErrNoRows) {
		balance = credits.DefaultBalance()
		if err := s.SetCredits(ctx, balance); err != nil {
			return model.CreditBalance{}, err
		}
		return balance, nil
	}
	if err != nil {
		return model.CreditBalance{}, fmt.Errorf("failed to query credits: %w", err)
	}
	return balance, nil
}

// SetCredits overwrites the stored credit balance.
func (s *SQLiteStorage) SetCredits(ctx context.Context, balance model.CreditBalance) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credits (id, balance, used_today, used_this_month, plan_limit, renewal_date)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			balance = excluded.balance,
			used_today = excluded.used_today,
			used_this_month = excluded.used_this_month,
			plan_limit = excluded.plan_limit,
			renewal_date = excluded.renewal_date`,
		balance.Balance, balance.UsedToday, balance.UsedThisMonth,
		balance.PlanLimit, balance.RenewalDate)
	if err != nil {
		return fmt.Errorf("failed to store credits: %w", err)
	}
	return nil
}
