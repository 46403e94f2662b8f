package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/budgetline/internal/domain/forecast"
	"github.com/rpggio/budgetline/internal/repository"
)

// ForecastRepository implements forecast.Repository for SQLite
type ForecastRepository struct {
	db *DB
}

// NewForecastRepository creates a new ForecastRepository
func NewForecastRepository(db *DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// Create appends a snapshot. A duplicate (project, version) pair is a conflict.
func (r *ForecastRepository) Create(ctx context.Context, snapshot *forecast.Snapshot) error {
	query := `
		INSERT INTO forecast_snapshots (
			id, project_id, version, cost_to_date, burn_rate, remaining_budget,
			projected_total, manual_override, insight, ai_summary, created_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.ProjectID,
		snapshot.Version,
		snapshot.CostToDate,
		snapshot.BurnRate,
		snapshot.RemainingBudget,
		snapshot.ProjectedTotal,
		snapshot.ManualOverride,
		snapshot.Insight,
		snapshot.AISummary,
		formatTimestamp(snapshot.CreatedAt),
		snapshot.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

// List returns a project's snapshots newest first. limit <= 0 returns all.
func (r *ForecastRepository) List(ctx context.Context, projectID string, limit int) ([]forecast.Snapshot, error) {
	query := `
		SELECT
			id, project_id, version, cost_to_date, burn_rate, remaining_budget,
			projected_total, manual_override, insight, ai_summary, created_at, created_by
		FROM forecast_snapshots
		WHERE project_id = ?
		ORDER BY created_at DESC, version DESC
	`
	args := []any{projectID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []forecast.Snapshot{}
	for rows.Next() {
		var (
			s         forecast.Snapshot
			override  sql.NullFloat64
			aiSummary sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&s.ID,
			&s.ProjectID,
			&s.Version,
			&s.CostToDate,
			&s.BurnRate,
			&s.RemainingBudget,
			&s.ProjectedTotal,
			&override,
			&s.Insight,
			&aiSummary,
			&createdAt,
			&s.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if override.Valid {
			s.ManualOverride = &override.Float64
		}
		if aiSummary.Valid {
			s.AISummary = &aiSummary.String
		}
		if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}
