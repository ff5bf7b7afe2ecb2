package auth

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"skillswap/cfg"
	"skillswap/internal/service/user"
	"skillswap/pkg/db"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[int64]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, account *user.User) error {
	for _, existing := range f.users {
		if existing.Email == account.Email {
			return user.ErrUserExists
		}
	}
	f.users[account.ID] = account
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	account, ok := f.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, account := range f.users {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetPublicByID(ctx context.Context, userID int64) (*user.User, error) {
	account, err := f.GetByID(ctx, userID)
	if err != nil || !account.IsPublic || account.IsBanned {
		return nil, user.ErrUserNotFound
	}
	return account, nil
}

func (f *fakeUserRepo) IsActive(ctx context.Context, userID int64) (bool, error) {
	account, ok := f.users[userID]
	return ok && !account.IsBanned, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, account *user.User) error {
	if _, ok := f.users[account.ID]; !ok {
		return user.ErrUserNotFound
	}
	copied := *account
	f.users[account.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	account, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetBanned(ctx context.Context, userID int64, banned bool, reason string) error {
	account, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	account.IsBanned = banned
	account.BanReason = reason
	return nil
}

func (f *fakeUserRepo) ListPublic(ctx context.Context, skill, search string) ([]*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListAll(ctx context.Context, search string) ([]*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListSkillNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeUserRepo) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return fn(ctx, nil)
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := newFakeUserRepo()
	jwtCfg := cfg.JWTConfig{Secret: "test-secret", TTL: time.Hour}
	return NewService(repo, jwtCfg, node, logger.NewLogger("test")), repo
}

func register(t *testing.T, service *Service) *TokenResponse {
	t.Helper()
	resp, err := service.Register(context.Background(), RegisterRequest{
		Name:          "Marc",
		Email:         "marc@example.com",
		Password:      "hunter22",
		SkillsOffered: []string{"Python"},
		SkillsWanted:  []string{"Guitar"},
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	service, repo := newTestService(t)

	resp := register(t, service)

	assert.NotEmpty(t, resp.Token)
	assert.NotZero(t, resp.User.ID)
	assert.True(t, resp.User.IsPublic)
	assert.Equal(t, "Weekdays", resp.User.Availability)

	stored, err := repo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
}

func TestRegisterNormalizesInput(t *testing.T) {
	service, repo := newTestService(t)

	longName := strings.Repeat("x", 150)
	resp, err := service.Register(context.Background(), RegisterRequest{
		Name:          "Marc",
		Email:         "  Marc@Example.COM  ",
		Password:      "hunter22",
		SkillsOffered: []string{"  Python  ", "Python", "   ", longName},
		SkillsWanted:  []string{" Guitar "},
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "marc@example.com", stored.Email)
	assert.Equal(t, []string{"Python", strings.Repeat("x", 100)}, stored.SkillsOffered)
	assert.Equal(t, []string{"Guitar"}, stored.SkillsWanted)

	// Login is case-insensitive on the address.
	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "MARC@example.com",
		Password: "hunter22",
	})
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service)

	_, err := service.Register(context.Background(), RegisterRequest{
		Name:          "Other",
		Email:         "marc@example.com",
		Password:      "hunter22",
		SkillsOffered: []string{"Welding"},
		SkillsWanted:  []string{"Python"},
	})
	assert.ErrorIs(t, err, user.ErrUserExists)
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "marc@example.com",
		Password: "hunter22",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	userID, err := service.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newTestService(t)
	register(t, service)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "marc@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBanned(t *testing.T) {
	service, repo := newTestService(t)
	resp := register(t, service)

	require.NoError(t, repo.SetBanned(context.Background(), resp.User.ID, true, "spam"))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "marc@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, ErrAccountBanned)
}

func TestChangePassword(t *testing.T) {
	service, _ := newTestService(t)
	resp := register(t, service)

	err := service.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpass99",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = service.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "hunter22",
		NewPassword:     "newpass99",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "marc@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "marc@example.com",
		Password: "newpass99",
	})
	assert.NoError(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	service, _ := newTestService(t)
	resp := register(t, service)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	other := NewService(newFakeUserRepo(), cfg.JWTConfig{Secret: "other-secret", TTL: time.Hour}, node, logger.NewLogger("test"))

	_, err = other.VerifyToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
