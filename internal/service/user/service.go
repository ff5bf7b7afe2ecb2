package user

import (
	"context"
	"strings"

	"skillswap/internal/policy"
	"skillswap/internal/sanitize"
	"skillswap/pkg/logger"
)

type Service struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetPublic retrieves a public, non-banned user profile.
func (s *Service) GetPublic(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Browse lists public, non-banned users with optional skill and name filters.
func (s *Service) Browse(ctx context.Context, filter BrowseFilter) ([]*User, error) {
	skill := sanitize.String(filter.Skill, maxSkillLen)
	search := sanitize.String(filter.Search, maxNameLen)

	users, err := s.repo.ListPublic(ctx, skill, search)
	if err != nil {
		s.logger.Error(ctx, "failed to browse users", logger.Field{Key: "error", Value: err})
		return nil, err
	}

	public := make([]*User, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return public, nil
}

// ListAll retrieves every account for administration, banned included and
// emails visible. The search filter matches name or email.
func (s *Service) ListAll(ctx context.Context, actorID int64, search string) ([]*User, error) {
	if err := policy.Authorize(actorID, policy.ActionListUsers, policy.Subject{}); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, sanitize.String(search, maxNameLen))
}

// SkillNames retrieves the distinct skill names offered or wanted across
// public profiles.
func (s *Service) SkillNames(ctx context.Context) ([]string, error) {
	return s.repo.ListSkillNames(ctx)
}

// GetProfile retrieves the caller's own profile, email included.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the provided fields to the caller's profile. Skill
// sets are replaced wholesale when present.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := sanitize.String(req.Name, maxNameLen); name != "" {
		user.Name = name
	}
	if email := sanitize.String(req.Email, 120); email != "" {
		user.Email = strings.ToLower(email)
	}
	if req.Location != nil {
		user.Location = sanitize.String(*req.Location, maxLocationLen)
	}
	if availability := sanitize.String(req.Availability, maxAvailabilityLen); availability != "" {
		user.Availability = availability
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}
	if req.SkillsOffered != nil {
		user.SkillsOffered = sanitize.Strings(req.SkillsOffered, maxSkillLen)
	}
	if req.SkillsWanted != nil {
		user.SkillsWanted = sanitize.Strings(req.SkillsWanted, maxSkillLen)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "failed to update profile",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.logger.Info(ctx, "profile updated", logger.Field{Key: "user_id", Value: userID})
	return user, nil
}

// Ban marks a user as banned with a mandatory reason.
func (s *Service) Ban(ctx context.Context, userID, moderatorID int64, reason string) (*User, error) {
	if err := policy.Authorize(moderatorID, policy.ActionBanUser, policy.Subject{}); err != nil {
		return nil, err
	}

	reason = sanitize.String(reason, maxBanReasonLen)
	if reason == "" {
		return nil, ErrBanReasonRequired
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetBanned(ctx, userID, true, reason); err != nil {
		return nil, err
	}

	user.IsBanned = true
	user.BanReason = reason

	s.logger.Info(ctx, "user banned",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "moderator_id", Value: moderatorID},
	)

	return user, nil
}

// Unban lifts a ban and clears the stored reason.
func (s *Service) Unban(ctx context.Context, userID, moderatorID int64) (*User, error) {
	if err := policy.Authorize(moderatorID, policy.ActionBanUser, policy.Subject{}); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetBanned(ctx, userID, false, ""); err != nil {
		return nil, err
	}

	user.IsBanned = false
	user.BanReason = ""

	s.logger.Info(ctx, "user unbanned",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "moderator_id", Value: moderatorID},
	)

	return user, nil
}
