package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/budgetline/internal/domain/changeorder"
	"github.com/rpggio/budgetline/internal/repository"
)

// ChangeOrderRepository implements changeorder.Repository for SQLite
type ChangeOrderRepository struct {
	db *DB
}

// NewChangeOrderRepository creates a new ChangeOrderRepository
func NewChangeOrderRepository(db *DB) *ChangeOrderRepository {
	return &ChangeOrderRepository{db: db}
}

const changeOrderColumns = `
	id, project_id, type, amount, description, status,
	approved_by, approved_at, created_at, updated_at, created_by
`

// Create inserts a change order
func (r *ChangeOrderRepository) Create(ctx context.Context, order *changeorder.ChangeOrder) error {
	query := `INSERT INTO change_orders (` + changeOrderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.ProjectID,
		order.Type,
		order.Amount,
		order.Description,
		order.Status,
		order.ApprovedBy,
		nullableTimestamp(order.ApprovedAt),
		formatTimestamp(order.CreatedAt),
		formatTimestamp(order.UpdatedAt),
		order.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create change order: %w", err)
	}
	return nil
}

// Get retrieves a change order by ID
func (r *ChangeOrderRepository) Get(ctx context.Context, id string) (*changeorder.ChangeOrder, error) {
	query := `SELECT ` + changeOrderColumns + ` FROM change_orders WHERE id = ?`

	order, err := scanChangeOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get change order: %w", err)
	}
	return order, nil
}

// List returns a project's change orders, newest first
func (r *ChangeOrderRepository) List(ctx context.Context, projectID string) ([]changeorder.ChangeOrder, error) {
	query := `SELECT ` + changeOrderColumns + ` FROM change_orders WHERE project_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}
	defer rows.Close()

	orders := []changeorder.ChangeOrder{}
	for rows.Next() {
		order, err := scanChangeOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating change order rows: %w", err)
	}
	return orders, nil
}

// UpdateStatus persists a decision only if the stored status still matches
// expected. A decided order is never overwritten.
func (r *ChangeOrderRepository) UpdateStatus(ctx context.Context, order *changeorder.ChangeOrder, expected changeorder.Status) error {
	query := `
		UPDATE change_orders
		SET status = ?, approved_by = ?, approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		order.Status,
		order.ApprovedBy,
		nullableTimestamp(order.ApprovedAt),
		formatTimestamp(order.UpdatedAt),
		order.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update change order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM change_orders WHERE id = ?`, order.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check change order: %w", err)
	}
	return repository.ErrConflict
}

func scanChangeOrder(row rowScanner) (*changeorder.ChangeOrder, error) {
	var (
		order                changeorder.ChangeOrder
		approvedBy           sql.NullString
		approvedAt           sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&order.ID,
		&order.ProjectID,
		&order.Type,
		&order.Amount,
		&order.Description,
		&order.Status,
		&approvedBy,
		&approvedAt,
		&createdAt,
		&updatedAt,
		&order.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		order.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		if order.ApprovedAt, err = scanOptionalTimestamp(&approvedAt.String); err != nil {
			return nil, fmt.Errorf("parse approved_at: %w", err)
		}
	}
	if order.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if order.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &order, nil
}
