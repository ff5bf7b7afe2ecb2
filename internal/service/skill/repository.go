package skill

import (
	"context"
	"database/sql"
	"fmt"

	"skillswap/pkg/db"
)

// UniqueNameConstraint backs the global name-uniqueness invariant.
const UniqueNameConstraint = "skills_name_key"

type Repository interface {
	Create(ctx context.Context, skill *Skill) error
	GetByID(ctx context.Context, skillID int64) (*Skill, error)
	GetApprovedByID(ctx context.Context, skillID int64) (*Skill, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, skill *Skill) error
	SetStatus(ctx context.Context, skillID int64, status Status, rejectionReason string) error
	Delete(ctx context.Context, skillID int64) error
	ListApproved(ctx context.Context, category, search string) ([]*Skill, error)
	ListPending(ctx context.Context) ([]*Skill, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

const skillColumns = `id, name, description, category, status, rejection_reason, created_by, created_at, updated_at`

// Create inserts a new skill.
func (r *repository) Create(ctx context.Context, skill *Skill) error {
	query := `
		INSERT INTO skills (id, name, description, category, status, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0))
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		skill.ID,
		skill.Name,
		skill.Description,
		skill.Category,
		skill.Status,
		skill.CreatedBy,
	).Scan(&skill.CreatedAt, &skill.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}

	return nil
}

// GetByID retrieves a skill by ID in any status.
func (r *repository) GetByID(ctx context.Context, skillID int64) (*Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, skillID))
}

// GetApprovedByID retrieves an approved skill, the only kind visible publicly.
func (r *repository) GetApprovedByID(ctx context.Context, skillID int64) (*Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = $1 AND status = 'approved'`
	return r.scanOne(r.db.QueryRowContext(ctx, query, skillID))
}

func (r *repository) scanOne(row *sql.Row) (*Skill, error) {
	var skill Skill
	var description, category, reason sql.NullString
	var createdBy sql.NullInt64

	err := row.Scan(
		&skill.ID,
		&skill.Name,
		&description,
		&category,
		&skill.Status,
		&reason,
		&createdBy,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query skill: %w", err)
	}

	skill.Description = description.String
	skill.Category = category.String
	skill.RejectionReason = reason.String
	skill.CreatedBy = createdBy.Int64
	return &skill, nil
}

// ExistsByName checks for a skill with the exact name in any status.
func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM skills WHERE name = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check skill name: %w", err)
	}

	return exists, nil
}

// Update persists the editable fields together with the moderation state.
func (r *repository) Update(ctx context.Context, skill *Skill) error {
	query := `
		UPDATE skills
		SET name = $2, description = $3, category = $4, status = $5,
		    rejection_reason = NULLIF($6, ''), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		skill.ID,
		skill.Name,
		skill.Description,
		skill.Category,
		skill.Status,
		skill.RejectionReason,
	)

	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrSkillNotFound
	}

	return nil
}

// SetStatus applies a moderation decision.
func (r *repository) SetStatus(ctx context.Context, skillID int64, status Status, rejectionReason string) error {
	query := `
		UPDATE skills
		SET status = $2, rejection_reason = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, skillID, status, rejectionReason)
	if err != nil {
		return fmt.Errorf("update skill status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrSkillNotFound
	}

	return nil
}

// Delete removes a skill.
func (r *repository) Delete(ctx context.Context, skillID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, skillID)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrSkillNotFound
	}

	return nil
}

// ListApproved retrieves approved skills ordered by name, optionally
// filtered by exact category and a case-insensitive name search.
func (r *repository) ListApproved(ctx context.Context, category, search string) ([]*Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE status = 'approved'`
	args := []interface{}{}
	argIdx := 1

	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}

	if search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}

	query += " ORDER BY name ASC"

	return r.listQuery(ctx, query, args...)
}

// ListPending retrieves the moderation queue, newest first.
func (r *repository) ListPending(ctx context.Context) ([]*Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE status = 'pending' ORDER BY created_at DESC`
	return r.listQuery(ctx, query)
}

func (r *repository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*Skill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*Skill, 0)
	for rows.Next() {
		var skill Skill
		var description, category, reason sql.NullString
		var createdBy sql.NullInt64

		err := rows.Scan(
			&skill.ID,
			&skill.Name,
			&description,
			&category,
			&skill.Status,
			&reason,
			&createdBy,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}

		skill.Description = description.String
		skill.Category = category.String
		skill.RejectionReason = reason.String
		skill.CreatedBy = createdBy.Int64
		skills = append(skills, &skill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}

	return skills, nil
}

// ListCategories retrieves the distinct categories of approved skills.
func (r *repository) ListCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM skills
		WHERE status = 'approved' AND category IS NOT NULL AND category != ''
		ORDER BY category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}
