package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/rpggio/budgetline/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an audit entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.AuditLogEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_log (project_id, action, user_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ProjectID,
		entry.Action,
		entry.UserID,
		string(encoded),
		formatTimestamp(createdAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt
	entry.Metadata = metadata

	return nil
}

// List returns audit entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.AuditLogEntry, error) {
	query := `
		SELECT id, project_id, action, user_id, metadata, created_at
		FROM audit_log
		WHERE project_id = ?
	`

	args := []any{opts.ProjectID}
	conditions := []string{}

	if opts.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, *opts.Action)
	}
	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.AuditLogEntry{}
	for rows.Next() {
		var (
			entry     activity.AuditLogEntry
			metadata  string
			createdAt string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&entry.Action,
			&entry.UserID,
			&metadata,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode audit metadata: %w", err)
		}
		if entry.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
