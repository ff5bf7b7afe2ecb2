package user

import (
	"context"
	"database/sql"
	"fmt"

	"skillswap/pkg/db"

	"github.com/lib/pq"
)

// UniqueEmailConstraint backs the email uniqueness invariant.
const UniqueEmailConstraint = "users_email_key"

const (
	skillKindOffered = "offered"
	skillKindWanted  = "wanted"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetPublicByID(ctx context.Context, userID int64) (*User, error)
	IsActive(ctx context.Context, userID int64) (bool, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetBanned(ctx context.Context, userID int64, banned bool, reason string) error
	ListPublic(ctx context.Context, skill, search string) ([]*User, error)
	ListAll(ctx context.Context, search string) ([]*User, error)
	ListSkillNames(ctx context.Context) ([]string, error)

	// Transaction helper
	WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

const userColumns = `id, name, email, password_hash, location, availability,
       is_public, is_banned, ban_reason, created_at, updated_at`

// Create inserts the user row and its skill sets in one transaction.
func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO users (id, name, email, password_hash, location, availability, is_public)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRowContext(ctx, query,
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Location,
			user.Availability,
			user.IsPublic,
		).Scan(&user.CreatedAt, &user.UpdatedAt)

		if err != nil {
			if db.IsUniqueViolation(err, UniqueEmailConstraint) {
				return ErrUserExists
			}
			return fmt.Errorf("insert user: %w", err)
		}

		return r.replaceSkills(ctx, tx, user)
	})
}

func (r *repository) replaceSkills(ctx context.Context, tx *sql.Tx, user *User) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_skills WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("clear user skills: %w", err)
	}

	query := `
		INSERT INTO user_skills (user_id, kind, name)
		SELECT $1, $2, unnest($3::text[])
		ON CONFLICT DO NOTHING
	`

	if len(user.SkillsOffered) > 0 {
		if _, err := tx.ExecContext(ctx, query, user.ID, skillKindOffered, pq.Array(user.SkillsOffered)); err != nil {
			return fmt.Errorf("insert offered skills: %w", err)
		}
	}
	if len(user.SkillsWanted) > 0 {
		if _, err := tx.ExecContext(ctx, query, user.ID, skillKindWanted, pq.Array(user.SkillsWanted)); err != nil {
			return fmt.Errorf("insert wanted skills: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, userID)
}

// GetByEmail retrieves a user by email.
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetPublicByID retrieves a user only if the profile is public and not banned.
func (r *repository) GetPublicByID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_public AND NOT is_banned`
	return r.getOne(ctx, query, userID)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}

	if err := r.loadSkills(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var location, banReason sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&location,
		&user.Availability,
		&user.IsPublic,
		&user.IsBanned,
		&banReason,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.Location = location.String
	user.BanReason = banReason.String
	return &user, nil
}

func (r *repository) loadSkills(ctx context.Context, user *User) error {
	query := `SELECT kind, name FROM user_skills WHERE user_id = $1 ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("query user skills: %w", err)
	}
	defer rows.Close()

	user.SkillsOffered = make([]string, 0)
	user.SkillsWanted = make([]string, 0)

	for rows.Next() {
		var kind, name string
		if err := rows.Scan(&kind, &name); err != nil {
			return fmt.Errorf("scan user skill: %w", err)
		}
		switch kind {
		case skillKindOffered:
			user.SkillsOffered = append(user.SkillsOffered, name)
		case skillKindWanted:
			user.SkillsWanted = append(user.SkillsWanted, name)
		}
	}

	return rows.Err()
}

// IsActive reports whether the user exists and is not banned.
func (r *repository) IsActive(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND NOT is_banned)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}

	return exists, nil
}

// Update persists profile fields and replaces both skill sets in one transaction.
func (r *repository) Update(ctx context.Context, user *User) error {
	return r.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE users
			SET name = $2, email = $3, location = $4, availability = $5,
			    is_public = $6, updated_at = NOW()
			WHERE id = $1
		`

		result, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Name,
			user.Email,
			user.Location,
			user.Availability,
			user.IsPublic,
		)

		if err != nil {
			if db.IsUniqueViolation(err, UniqueEmailConstraint) {
				return ErrUserExists
			}
			return fmt.Errorf("update user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrUserNotFound
		}

		return r.replaceSkills(ctx, tx, user)
	})
}

// UpdatePassword replaces the stored credential hash.
func (r *repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetBanned applies or lifts a ban.
func (r *repository) SetBanned(ctx context.Context, userID int64, banned bool, reason string) error {
	query := `UPDATE users SET is_banned = $2, ban_reason = NULLIF($3, ''), updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, banned, reason)
	if err != nil {
		return fmt.Errorf("update ban state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListPublic retrieves public, non-banned users, optionally filtered by a
// skill they offer or want, and by a name search.
func (r *repository) ListPublic(ctx context.Context, skill, search string) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_public AND NOT is_banned`
	args := []interface{}{}
	argIdx := 1

	if skill != "" {
		query += fmt.Sprintf(" AND EXISTS(SELECT 1 FROM user_skills us WHERE us.user_id = users.id AND us.name = $%d)", argIdx)
		args = append(args, skill)
		argIdx++
	}

	if search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	return r.listQuery(ctx, query, args...)
}

// ListAll retrieves every account, banned included, for administration.
// The search filter matches name or email.
func (r *repository) ListAll(ctx context.Context, search string) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	return r.listQuery(ctx, query, args...)
}

func (r *repository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		var user User
		var location, banReason sql.NullString

		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&location,
			&user.Availability,
			&user.IsPublic,
			&user.IsBanned,
			&banReason,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		user.Location = location.String
		user.BanReason = banReason.String
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	for _, user := range users {
		if err := r.loadSkills(ctx, user); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// ListSkillNames retrieves the distinct skill names across public,
// non-banned profiles.
func (r *repository) ListSkillNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT us.name
		FROM user_skills us
		JOIN users u ON u.id = us.user_id
		WHERE u.is_public AND NOT u.is_banned
		ORDER BY us.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query skill names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan skill name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skill names: %w", err)
	}

	return names, nil
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}
