package skill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillswap/internal/policy"
	"skillswap/internal/sanitize"
	"skillswap/pkg/cache"
	"skillswap/pkg/db"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
)

const (
	categoriesCacheKey = "skills:categories"
	categoriesCacheTTL = 10 * time.Minute
)

type Service struct {
	repo   Repository
	cache  cache.Cache
	node   *snowflake.Node
	logger logger.Logger
}

func NewService(repo Repository, cache cache.Cache, node *snowflake.Node, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		node:   node,
		logger: logger,
	}
}

// Propose creates a new skill in pending state, awaiting moderation.
// The name must be globally unique across all statuses.
func (s *Service) Propose(ctx context.Context, creatorID int64, req CreateSkillRequest) (*Skill, error) {
	name := sanitize.String(req.Name, maxNameLen)
	if name == "" {
		return nil, ErrNameRequired
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSkillExists
	}

	skill := &Skill{
		ID:          s.node.Generate().Int64(),
		Name:        name,
		Description: sanitize.String(req.Description, maxDescriptionLen),
		Category:    sanitize.String(req.Category, maxCategoryLen),
		Status:      StatusPending,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Create(ctx, skill); err != nil {
		if db.IsUniqueViolation(err, UniqueNameConstraint) {
			return nil, ErrSkillExists
		}
		s.logger.Error(ctx, "failed to create skill",
			logger.Field{Key: "name", Value: name},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.invalidateCategories(ctx)
	s.logger.Info(ctx, "skill proposed",
		logger.Field{Key: "skill_id", Value: skill.ID},
		logger.Field{Key: "name", Value: skill.Name},
	)

	return skill, nil
}

// Edit updates a skill's content. Only the creator may edit, and any change
// sends the skill back to pending with the rejection reason cleared: edited
// content must be re-reviewed.
func (s *Service) Edit(ctx context.Context, skillID, actorID int64, req UpdateSkillRequest) (*Skill, error) {
	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{CreatedBy: skill.CreatedBy}
	if err := policy.Authorize(actorID, policy.ActionEditSkill, subject); err != nil {
		return nil, err
	}

	if name := sanitize.String(req.Name, maxNameLen); name != "" {
		skill.Name = name
	}
	if req.Description != nil {
		skill.Description = sanitize.String(*req.Description, maxDescriptionLen)
	}
	if req.Category != nil {
		skill.Category = sanitize.String(*req.Category, maxCategoryLen)
	}

	skill.Status = StatusPending
	skill.RejectionReason = ""

	if err := s.repo.Update(ctx, skill); err != nil {
		if db.IsUniqueViolation(err, UniqueNameConstraint) {
			return nil, ErrSkillExists
		}
		s.logger.Error(ctx, "failed to update skill",
			logger.Field{Key: "skill_id", Value: skillID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.invalidateCategories(ctx)
	s.logger.Info(ctx, "skill updated, pending re-review", logger.Field{Key: "skill_id", Value: skillID})

	return skill, nil
}

// Approve makes a skill visible in public listings and clears any prior
// rejection reason.
func (s *Service) Approve(ctx context.Context, skillID, moderatorID int64) (*Skill, error) {
	if err := policy.Authorize(moderatorID, policy.ActionModerateSkill, policy.Subject{}); err != nil {
		return nil, err
	}

	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetStatus(ctx, skillID, StatusApproved, ""); err != nil {
		return nil, err
	}

	skill.Status = StatusApproved
	skill.RejectionReason = ""

	s.invalidateCategories(ctx)
	s.logger.Info(ctx, "skill approved",
		logger.Field{Key: "skill_id", Value: skillID},
		logger.Field{Key: "moderator_id", Value: moderatorID},
	)

	return skill, nil
}

// Reject refuses a skill. The reason is mandatory and stored with the skill.
func (s *Service) Reject(ctx context.Context, skillID, moderatorID int64, reason string) (*Skill, error) {
	if err := policy.Authorize(moderatorID, policy.ActionModerateSkill, policy.Subject{}); err != nil {
		return nil, err
	}

	reason = sanitize.String(reason, maxReasonLen)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetStatus(ctx, skillID, StatusRejected, reason); err != nil {
		return nil, err
	}

	skill.Status = StatusRejected
	skill.RejectionReason = reason

	s.invalidateCategories(ctx)
	s.logger.Info(ctx, "skill rejected",
		logger.Field{Key: "skill_id", Value: skillID},
		logger.Field{Key: "moderator_id", Value: moderatorID},
	)

	return skill, nil
}

// Delete removes a skill. Only the creator may delete.
func (s *Service) Delete(ctx context.Context, skillID, actorID int64) error {
	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}

	subject := policy.Subject{CreatedBy: skill.CreatedBy}
	if err := policy.Authorize(actorID, policy.ActionDeleteSkill, subject); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, skillID); err != nil {
		return err
	}

	s.invalidateCategories(ctx)
	s.logger.Info(ctx, "skill deleted", logger.Field{Key: "skill_id", Value: skillID})
	return nil
}

// ListApproved retrieves approved skills ordered by name, with optional
// category and search filters.
func (s *Service) ListApproved(ctx context.Context, filter ListFilter) ([]*Skill, error) {
	category := sanitize.String(filter.Category, maxCategoryLen)
	search := sanitize.String(filter.Search, maxNameLen)
	return s.repo.ListApproved(ctx, category, search)
}

// GetApproved retrieves a single approved skill.
func (s *Service) GetApproved(ctx context.Context, skillID int64) (*Skill, error) {
	return s.repo.GetApprovedByID(ctx, skillID)
}

// ListPending retrieves the moderation queue.
func (s *Service) ListPending(ctx context.Context, moderatorID int64) ([]*Skill, error) {
	if err := policy.Authorize(moderatorID, policy.ActionModerateSkill, policy.Subject{}); err != nil {
		return nil, err
	}
	return s.repo.ListPending(ctx)
}

// Categories retrieves the distinct categories of approved skills, served
// from cache when possible.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	if cached, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
		var categories []string
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn(ctx, "category cache read failed", logger.Field{Key: "error", Value: err})
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, string(encoded), categoriesCacheTTL); err != nil {
			s.logger.Warn(ctx, "category cache write failed", logger.Field{Key: "error", Value: err})
		}
	}

	return categories, nil
}

func (s *Service) invalidateCategories(ctx context.Context) {
	if err := s.cache.Del(ctx, categoriesCacheKey); err != nil {
		s.logger.Warn(ctx, "category cache invalidation failed",
			logger.Field{Key: "key", Value: categoriesCacheKey},
			logger.Field{Key: "error", Value: fmt.Sprintf("%v", err)},
		)
	}
}
