package swap

import (
	"context"
	"database/sql"
	"fmt"

	"skillswap/internal/policy"
	"skillswap/internal/sanitize"
	"skillswap/pkg/db"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
)

// UserFinder is the slice of the user store the lifecycle needs: whether a
// receiver exists and is not banned.
type UserFinder interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo   Repository
	guard  DuplicateGuard
	users  UserFinder
	node   *snowflake.Node
	logger logger.Logger
}

func NewService(repo Repository, guard DuplicateGuard, users UserFinder, node *snowflake.Node, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		users:  users,
		node:   node,
		logger: logger,
	}
}

// Create proposes a new swap request. The duplicate check and the insert run
// in one serializable transaction so two identical proposals cannot both
// land; the partial unique index catches anything that still slips through.
func (s *Service) Create(ctx context.Context, requesterID int64, req CreateRequest) (*SwapRequest, error) {
	skillOffered := sanitize.String(req.SkillOffered, maxSkillLen)
	skillWanted := sanitize.String(req.SkillWanted, maxSkillLen)

	if skillOffered == "" || skillWanted == "" {
		return nil, ErrSkillsRequired
	}

	if requesterID == req.ReceiverID {
		return nil, ErrSelfRequest
	}

	request := &SwapRequest{
		ID:           s.node.Generate().Int64(),
		RequesterID:  requesterID,
		ReceiverID:   req.ReceiverID,
		SkillOffered: skillOffered,
		SkillWanted:  skillWanted,
		Message:      sanitize.String(req.Message, maxMessageLen),
		Status:       StatusPending,
	}

	err := s.repo.WithTransaction(ctx, sql.LevelSerializable, func(ctx context.Context, tx *sql.Tx) error {
		active, err := s.users.IsActive(ctx, req.ReceiverID)
		if err != nil {
			return fmt.Errorf("check receiver: %w", err)
		}
		if !active {
			return ErrReceiverNotFound
		}

		if err := s.guard.Check(ctx, tx, requesterID, req.ReceiverID, skillOffered, skillWanted); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, tx, request); err != nil {
			if db.IsUniqueViolation(err, UniquePendingConstraint) {
				return ErrDuplicateRequest
			}
			return err
		}

		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "failed to create swap request",
			logger.Field{Key: "requester_id", Value: requesterID},
			logger.Field{Key: "receiver_id", Value: req.ReceiverID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	requestsCreated.Inc()
	s.logger.Info(ctx, "swap request created",
		logger.Field{Key: "request_id", Value: request.ID},
		logger.Field{Key: "requester_id", Value: requesterID},
		logger.Field{Key: "receiver_id", Value: req.ReceiverID},
	)

	return request, nil
}

// actionForTarget maps a target status to the authorization action that
// guards it: accept/reject belong to the receiver, cancel to the requester.
func actionForTarget(target Status) (policy.Action, error) {
	switch target {
	case StatusAccepted:
		return policy.ActionAcceptRequest, nil
	case StatusRejected:
		return policy.ActionRejectRequest, nil
	case StatusCancelled:
		return policy.ActionCancelRequest, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Transition resolves a pending request. The status is read under a row lock
// and re-checked at write time, so two concurrent resolutions cannot both
// succeed. Authorization failures are reported even when the request is
// already resolved; state failures carry the current status.
func (s *Service) Transition(ctx context.Context, requestID, actorID int64, target Status, acceptanceMessage string) (*SwapRequest, error) {
	action, err := actionForTarget(target)
	if err != nil {
		return nil, err
	}

	message := ""
	if target == StatusAccepted || target == StatusRejected {
		message = sanitize.String(acceptanceMessage, maxMessageLen)
	}

	var request *SwapRequest
	err = s.repo.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		subject := policy.Subject{
			RequesterID: current.RequesterID,
			ReceiverID:  current.ReceiverID,
		}
		if err := policy.Authorize(actorID, action, subject); err != nil {
			return err
		}

		if current.Status != StatusPending {
			return fmt.Errorf("%w (status: %s)", ErrNotPending, current.Status)
		}

		updated, err := s.repo.UpdateStatus(ctx, tx, requestID, target, message)
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("%w (status: %s)", ErrNotPending, current.Status)
		}

		current.Status = target
		current.AcceptanceMessage = message
		request = current
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "failed to transition swap request",
			logger.Field{Key: "request_id", Value: requestID},
			logger.Field{Key: "actor_id", Value: actorID},
			logger.Field{Key: "target", Value: string(target)},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	requestTransitions.WithLabelValues(string(target)).Inc()
	s.logger.Info(ctx, "swap request resolved",
		logger.Field{Key: "request_id", Value: requestID},
		logger.Field{Key: "status", Value: string(target)},
	)

	return request, nil
}

// Get retrieves a request visible only to its requester or receiver.
func (s *Service) Get(ctx context.Context, requestID, actorID int64) (*SwapRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{
		RequesterID: request.RequesterID,
		ReceiverID:  request.ReceiverID,
	}
	if err := policy.Authorize(actorID, policy.ActionViewRequest, subject); err != nil {
		return nil, err
	}

	return request, nil
}

// Delete removes a request. Only the requester may delete, in any status.
func (s *Service) Delete(ctx context.Context, requestID, actorID int64) error {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	subject := policy.Subject{
		RequesterID: request.RequesterID,
		ReceiverID:  request.ReceiverID,
	}
	if err := policy.Authorize(actorID, policy.ActionDeleteRequest, subject); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, requestID); err != nil {
		s.logger.Error(ctx, "failed to delete swap request",
			logger.Field{Key: "request_id", Value: requestID},
			logger.Field{Key: "error", Value: err},
		)
		return err
	}

	s.logger.Info(ctx, "swap request deleted", logger.Field{Key: "request_id", Value: requestID})
	return nil
}

// ListSent retrieves requests the user sent, optionally filtered by status.
func (s *Service) ListSent(ctx context.Context, userID int64, statusFilter string) ([]*SwapRequest, error) {
	status, err := parseFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, userID, status)
}

// ListReceived retrieves requests the user received, optionally filtered by status.
func (s *Service) ListReceived(ctx context.Context, userID int64, statusFilter string) ([]*SwapRequest, error) {
	status, err := parseFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByReceiver(ctx, userID, status)
}

// ListAll retrieves every request, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, statusFilter string) ([]*SwapRequest, error) {
	status, err := parseFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, status)
}

func parseFilter(statusFilter string) (Status, error) {
	if statusFilter == "" {
		return "", nil
	}
	status := Status(statusFilter)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
