package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/budgetline/internal/domain/cost"
	"github.com/rpggio/budgetline/internal/repository"
)

// CostRepository implements cost.Repository for SQLite
type CostRepository struct {
	db *DB
}

// NewCostRepository creates a new CostRepository
func NewCostRepository(db *DB) *CostRepository {
	return &CostRepository{db: db}
}

const costColumns = `
	id, project_id, amount, category, vendor, description,
	date, deduction_type, created_at, updated_at, created_by
`

// Create inserts a cost
func (r *CostRepository) Create(ctx context.Context, c *cost.Cost) error {
	query := `INSERT INTO costs (` + costColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.Amount,
		c.Category,
		c.Vendor,
		c.Description,
		formatDate(c.Date),
		c.DeductionType,
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
		c.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create cost: %w", err)
	}
	return nil
}

// Get retrieves a cost by ID
func (r *CostRepository) Get(ctx context.Context, id string) (*cost.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM costs WHERE id = ?`

	c, err := scanCost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cost: %w", err)
	}
	return c, nil
}

// Update overwrites a cost's editable fields
func (r *CostRepository) Update(ctx context.Context, c *cost.Cost) error {
	query := `
		UPDATE costs SET
			amount = ?, category = ?, vendor = ?, description = ?,
			date = ?, deduction_type = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Amount,
		c.Category,
		c.Vendor,
		c.Description,
		formatDate(c.Date),
		c.DeductionType,
		formatTimestamp(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cost: %w", err)
	}
	return requireAffected(result)
}

// Delete hard-deletes a cost
func (r *CostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM costs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cost: %w", err)
	}
	return requireAffected(result)
}

// List returns a project's costs, newest economic date first
func (r *CostRepository) List(ctx context.Context, projectID string) ([]cost.Cost, error) {
	query := `SELECT ` + costColumns + ` FROM costs WHERE project_id = ? ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list costs: %w", err)
	}
	defer rows.Close()

	costs := []cost.Cost{}
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost: %w", err)
		}
		costs = append(costs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost rows: %w", err)
	}
	return costs, nil
}

func scanCost(row rowScanner) (*cost.Cost, error) {
	var (
		c                    cost.Cost
		date                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&c.ID,
		&c.ProjectID,
		&c.Amount,
		&c.Category,
		&c.Vendor,
		&c.Description,
		&date,
		&c.DeductionType,
		&createdAt,
		&updatedAt,
		&c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if c.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &c, nil
}
