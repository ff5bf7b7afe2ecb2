package admin

import (
	"context"
	"fmt"

	"skillswap/pkg/db"
)

type Repository interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// PlatformStats aggregates entity counts by status in a single round trip
// per table.
func (r *repository) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats

	usersQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE NOT is_banned),
		       COUNT(*) FILTER (WHERE is_banned)
		FROM users
	`
	err := r.db.QueryRowContext(ctx, usersQuery).Scan(
		&stats.Users.Total,
		&stats.Users.Active,
		&stats.Users.Banned,
	)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	skillsQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'rejected')
		FROM skills
	`
	err = r.db.QueryRowContext(ctx, skillsQuery).Scan(
		&stats.Skills.Total,
		&stats.Skills.Approved,
		&stats.Skills.Pending,
		&stats.Skills.Rejected,
	)
	if err != nil {
		return nil, fmt.Errorf("count skills: %w", err)
	}

	requestsQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'accepted'),
		       COUNT(*) FILTER (WHERE status = 'rejected'),
		       COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM swap_requests
	`
	err = r.db.QueryRowContext(ctx, requestsQuery).Scan(
		&stats.Requests.Total,
		&stats.Requests.Pending,
		&stats.Requests.Accepted,
		&stats.Requests.Rejected,
		&stats.Requests.Cancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("count swap requests: %w", err)
	}

	return &stats, nil
}
