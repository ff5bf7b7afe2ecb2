package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skillswap/cfg"
	"skillswap/internal/sanitize"
	"skillswap/internal/service/user"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultAvailability = "Weekdays"

type Service struct {
	users  user.Repository
	jwtCfg cfg.JWTConfig
	node   *snowflake.Node
	logger logger.Logger
}

func NewService(users user.Repository, jwtCfg cfg.JWTConfig, node *snowflake.Node, logger logger.Logger) *Service {
	return &Service{
		users:  users,
		jwtCfg: jwtCfg,
		node:   node,
		logger: logger,
	}
}

// Register creates a new account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	availability := sanitize.String(req.Availability, 50)
	if availability == "" {
		availability = defaultAvailability
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &user.User{
		ID:            s.node.Generate().Int64(),
		Name:          sanitize.String(req.Name, 100),
		Email:         normalizeEmail(req.Email),
		PasswordHash:  string(hash),
		Location:      sanitize.String(req.Location, 100),
		Availability:  availability,
		IsPublic:      true,
		SkillsOffered: sanitize.Strings(req.SkillsOffered, 100),
		SkillsWanted:  sanitize.Strings(req.SkillsWanted, 100),
	}

	if err := s.users.Create(ctx, account); err != nil {
		s.logger.Error(ctx, "failed to register user",
			logger.Field{Key: "email", Value: account.Email},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", logger.Field{Key: "user_id", Value: account.ID})
	return &TokenResponse{Token: token, User: account}, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	account, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if account.IsBanned {
		return nil, ErrAccountBanned
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", logger.Field{Key: "user_id", Value: account.ID})
	return &TokenResponse{Token: token, User: account}, nil
}

// ChangePassword replaces the stored credential after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", logger.Field{Key: "user_id", Value: userID})
	return nil
}

// Emails are stored and looked up lowercase so login is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(sanitize.String(email, 120))
}

func (s *Service) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses a bearer token and returns the user ID it carries.
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
