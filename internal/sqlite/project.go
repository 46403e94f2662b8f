package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/rpggio/budgetline/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, owner_id, name, description, status,
	baseline_budget, overhead_percent, overhead_amount, currency,
	start_date, end_date, baseline_locked_at, created_at, updated_at
`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.OwnerID,
		proj.Name,
		proj.Description,
		proj.Status,
		proj.BaselineBudget,
		proj.OverheadPercent,
		proj.OverheadAmount,
		proj.Currency,
		formatDate(proj.StartDate),
		nullableDate(proj.EndDate),
		nullableTimestamp(proj.BaselineLockedAt),
		formatTimestamp(proj.CreatedAt),
		formatTimestamp(proj.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID along with its collaborators and invites
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.loadMembership(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// Update writes the project's own columns. Membership is changed through the
// collaborator and invite methods.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects SET
			name = ?, description = ?, status = ?,
			baseline_budget = ?, overhead_percent = ?, overhead_amount = ?, currency = ?,
			start_date = ?, end_date = ?, baseline_locked_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Description,
		proj.Status,
		proj.BaselineBudget,
		proj.OverheadPercent,
		proj.OverheadAmount,
		proj.Currency,
		formatDate(proj.StartDate),
		nullableDate(proj.EndDate),
		nullableTimestamp(proj.BaselineLockedAt),
		formatTimestamp(proj.UpdatedAt),
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(result)
}

// SetStatus changes only the lifecycle status and updated_at.
func (r *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTimestamp(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set project status: %w", err)
	}
	return requireAffected(result)
}

// LockBaseline stamps baseline_locked_at unless it is already set.
func (r *ProjectRepository) LockBaseline(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET baseline_locked_at = COALESCE(baseline_locked_at, ?), updated_at = ? WHERE id = ?`,
		formatTimestamp(at), formatTimestamp(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to lock baseline: %w", err)
	}
	return requireAffected(result)
}

// Touch bumps updated_at.
func (r *ProjectRepository) Touch(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`,
		formatTimestamp(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a project. Costs, change orders, snapshots, audit entries
// and membership rows cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

// ListByOwner returns projects owned by ownerID, most recently updated first
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = ? ORDER BY updated_at DESC`
	return r.list(ctx, query, ownerID)
}

// ListByCollaborator returns projects shared with userID
func (r *ProjectRepository) ListByCollaborator(ctx context.Context, userID string) ([]project.Project, error) {
	query := `
		SELECT ` + projectColumns + ` FROM projects
		WHERE id IN (SELECT project_id FROM project_collaborators WHERE user_id = ?)
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListByInvite returns projects with a pending invitation for email
func (r *ProjectRepository) ListByInvite(ctx context.Context, email string) ([]project.Project, error) {
	query := `
		SELECT ` + projectColumns + ` FROM projects
		WHERE id IN (SELECT project_id FROM project_invites WHERE email = ?)
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, email)
}

// AddCollaborator grants userID access to a project. Adding twice is a no-op.
func (r *ProjectRepository) AddCollaborator(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_collaborators (project_id, user_id, added_at) VALUES (?, ?, ?)`,
		projectID, userID, formatTimestamp(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to add collaborator: %w", err)
	}
	return nil
}

// RemoveCollaborator revokes userID's access
func (r *ProjectRepository) RemoveCollaborator(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_collaborators WHERE project_id = ? AND user_id = ?`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	return nil
}

// AddInvite records a pending invitation. Inviting twice is a no-op.
func (r *ProjectRepository) AddInvite(ctx context.Context, projectID, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_invites (project_id, email, invited_at) VALUES (?, ?, ?)`,
		projectID, email, formatTimestamp(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to add invite: %w", err)
	}
	return nil
}

// RemoveInvite deletes a pending invitation
func (r *ProjectRepository) RemoveInvite(ctx context.Context, projectID, email string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_invites WHERE project_id = ? AND email = ?`,
		projectID, email,
	)
	if err != nil {
		return fmt.Errorf("failed to remove invite: %w", err)
	}
	return nil
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	rows.Close()

	// Membership is loaded after the cursor is released; the pool holds one connection.
	for i := range projects {
		if err := r.loadMembership(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *ProjectRepository) loadMembership(ctx context.Context, proj *project.Project) error {
	collaborators, err := r.selectStrings(ctx,
		`SELECT user_id FROM project_collaborators WHERE project_id = ? ORDER BY added_at`, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to load collaborators: %w", err)
	}
	invites, err := r.selectStrings(ctx,
		`SELECT email FROM project_invites WHERE project_id = ? ORDER BY invited_at`, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to load invites: %w", err)
	}
	proj.CollaboratorIDs = collaborators
	proj.PendingInvites = invites
	return nil
}

func (r *ProjectRepository) selectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		proj                 project.Project
		startDate            string
		endDate, lockedAt    sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&proj.ID,
		&proj.OwnerID,
		&proj.Name,
		&proj.Description,
		&proj.Status,
		&proj.BaselineBudget,
		&proj.OverheadPercent,
		&proj.OverheadAmount,
		&proj.Currency,
		&startDate,
		&endDate,
		&lockedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if proj.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	if endDate.Valid {
		end, err := parseDate(endDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse end_date: %w", err)
		}
		proj.EndDate = &end
	}
	if lockedAt.Valid {
		if proj.BaselineLockedAt, err = scanOptionalTimestamp(&lockedAt.String); err != nil {
			return nil, fmt.Errorf("parse baseline_locked_at: %w", err)
		}
	}
	if proj.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if proj.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &proj, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
