package swap

import (
	"context"
	"database/sql"
	"fmt"

	"skillswap/pkg/db"
)

// UniquePendingConstraint is the partial unique index backing the duplicate
// guard at the storage level.
const UniquePendingConstraint = "uniq_pending_swap_request"

type Repository interface {
	Create(ctx context.Context, tx *sql.Tx, request *SwapRequest) error
	GetByID(ctx context.Context, requestID int64) (*SwapRequest, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*SwapRequest, error)
	// UpdateStatus moves a request out of pending. The status predicate is
	// re-checked at write time; it returns false when the row was no longer
	// pending.
	UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, target Status, acceptanceMessage string) (bool, error)
	Delete(ctx context.Context, requestID int64) error
	ExistsPending(ctx context.Context, tx *sql.Tx, requesterID, receiverID int64, skillOffered, skillWanted string) (bool, error)
	ListByRequester(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error)
	ListByReceiver(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error)
	ListAll(ctx context.Context, status Status) ([]*SwapRequest, error)

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

const requestColumns = `id, requester_id, receiver_id, skill_offered, skill_wanted,
       message, acceptance_message, status, created_at, updated_at`

// Create inserts a new swap request inside the caller's transaction.
func (r *repository) Create(ctx context.Context, tx *sql.Tx, request *SwapRequest) error {
	query := `
		INSERT INTO swap_requests (id, requester_id, receiver_id, skill_offered, skill_wanted, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRowContext(ctx, query,
		request.ID,
		request.RequesterID,
		request.ReceiverID,
		request.SkillOffered,
		request.SkillWanted,
		request.Message,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}

	return nil
}

// GetByID retrieves a swap request by ID.
func (r *repository) GetByID(ctx context.Context, requestID int64) (*SwapRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM swap_requests WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, requestID))
}

// GetByIDForUpdate retrieves a swap request with a row-level lock so the
// status read and the subsequent write happen against the same version.
func (r *repository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*SwapRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM swap_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(tx.QueryRowContext(ctx, query, requestID))
}

func (r *repository) scanOne(row *sql.Row) (*SwapRequest, error) {
	var request SwapRequest
	var message, acceptance sql.NullString

	err := row.Scan(
		&request.ID,
		&request.RequesterID,
		&request.ReceiverID,
		&request.SkillOffered,
		&request.SkillWanted,
		&message,
		&acceptance,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query swap request: %w", err)
	}

	request.Message = message.String
	request.AcceptanceMessage = acceptance.String
	return &request, nil
}

// UpdateStatus resolves a pending request.
func (r *repository) UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, target Status, acceptanceMessage string) (bool, error) {
	query := `
		UPDATE swap_requests
		SET status = $2, acceptance_message = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := tx.ExecContext(ctx, query, requestID, target, acceptanceMessage)
	if err != nil {
		return false, fmt.Errorf("update swap request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Delete removes a swap request.
func (r *repository) Delete(ctx context.Context, requestID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM swap_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// ExistsPending checks for an open request with the identical tuple.
func (r *repository) ExistsPending(ctx context.Context, tx *sql.Tx, requesterID, receiverID int64, skillOffered, skillWanted string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM swap_requests
			WHERE requester_id = $1 AND receiver_id = $2
			  AND skill_offered = $3 AND skill_wanted = $4
			  AND status = 'pending'
		)
	`

	var exists bool
	err := tx.QueryRowContext(ctx, query, requesterID, receiverID, skillOffered, skillWanted).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}

	return exists, nil
}

// ListByRequester retrieves requests sent by a user, newest first.
func (r *repository) ListByRequester(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error) {
	return r.list(ctx, `requester_id = $1`, userID, status)
}

// ListByReceiver retrieves requests received by a user, newest first.
func (r *repository) ListByReceiver(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error) {
	return r.list(ctx, `receiver_id = $1`, userID, status)
}

func (r *repository) list(ctx context.Context, predicate string, userID int64, status Status) ([]*SwapRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM swap_requests WHERE ` + predicate
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query swap requests: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListAll retrieves every request, optionally filtered by status.
func (r *repository) ListAll(ctx context.Context, status Status) ([]*SwapRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM swap_requests`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query swap requests: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *repository) scanMany(rows *sql.Rows) ([]*SwapRequest, error) {
	requests := make([]*SwapRequest, 0)
	for rows.Next() {
		var request SwapRequest
		var message, acceptance sql.NullString

		err := rows.Scan(
			&request.ID,
			&request.RequesterID,
			&request.ReceiverID,
			&request.SkillOffered,
			&request.SkillWanted,
			&message,
			&acceptance,
			&request.Status,
			&request.CreatedAt,
			&request.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}

		request.Message = message.String
		request.AcceptanceMessage = acceptance.String
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap requests: %w", err)
	}

	return requests, nil
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}
