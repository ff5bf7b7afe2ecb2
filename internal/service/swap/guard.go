package swap

import (
	"context"
	"database/sql"
)

// DuplicateGuard refuses creation when an identical pending request already
// exists between the same pair of users. The check runs inside the creation
// transaction; the partial unique index on swap_requests is the backstop for
// two creations racing past the read.
type DuplicateGuard interface {
	Check(ctx context.Context, tx *sql.Tx, requesterID, receiverID int64, skillOffered, skillWanted string) error
}

type repoGuard struct {
	repo Repository
}

func NewDuplicateGuard(repo Repository) DuplicateGuard {
	return &repoGuard{
		repo: repo,
	}
}

func (g *repoGuard) Check(ctx context.Context, tx *sql.Tx, requesterID, receiverID int64, skillOffered, skillWanted string) error {
	exists, err := g.repo.ExistsPending(ctx, tx, requesterID, receiverID, skillOffered, skillWanted)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateRequest
	}
	return nil
}
