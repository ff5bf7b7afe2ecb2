package swap

import (
	"context"
	"database/sql"
	"testing"

	"skillswap/internal/policy"
	"skillswap/pkg/db"
	"skillswap/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRepo struct {
	requests map[int64]*SwapRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: make(map[int64]*SwapRequest)}
}

func (f *fakeRepo) Create(ctx context.Context, tx *sql.Tx, request *SwapRequest) error {
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, requestID int64) (*SwapRequest, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, requestID int64) (*SwapRequest, error) {
	return f.GetByID(ctx, requestID)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, requestID int64, target Status, acceptanceMessage string) (bool, error) {
	request, ok := f.requests[requestID]
	if !ok || request.Status != StatusPending {
		return false, nil
	}
	request.Status = target
	request.AcceptanceMessage = acceptanceMessage
	return true, nil
}

func (f *fakeRepo) Delete(ctx context.Context, requestID int64) error {
	if _, ok := f.requests[requestID]; !ok {
		return ErrRequestNotFound
	}
	delete(f.requests, requestID)
	return nil
}

func (f *fakeRepo) ExistsPending(ctx context.Context, tx *sql.Tx, requesterID, receiverID int64, skillOffered, skillWanted string) (bool, error) {
	for _, request := range f.requests {
		if request.RequesterID == requesterID && request.ReceiverID == receiverID &&
			request.SkillOffered == skillOffered && request.SkillWanted == skillWanted &&
			request.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListByRequester(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error) {
	return f.filter(func(r *SwapRequest) bool { return r.RequesterID == userID }, status), nil
}

func (f *fakeRepo) ListByReceiver(ctx context.Context, userID int64, status Status) ([]*SwapRequest, error) {
	return f.filter(func(r *SwapRequest) bool { return r.ReceiverID == userID }, status), nil
}

func (f *fakeRepo) ListAll(ctx context.Context, status Status) ([]*SwapRequest, error) {
	return f.filter(func(r *SwapRequest) bool { return true }, status), nil
}

func (f *fakeRepo) filter(keep func(*SwapRequest) bool, status Status) []*SwapRequest {
	out := make([]*SwapRequest, 0)
	for _, request := range f.requests {
		if keep(request) && (status == "" || request.Status == status) {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out
}

func (f *fakeRepo) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return fn(ctx, nil)
}

type fakeUsers struct {
	active map[int64]bool
}

func (f *fakeUsers) IsActive(ctx context.Context, userID int64) (bool, error) {
	return f.active[userID], nil
}

const (
	alice = int64(1)
	bob   = int64(2)
	carol = int64(3)
)

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := newFakeRepo()
	users := &fakeUsers{active: map[int64]bool{alice: true, bob: true, carol: true}}
	service := NewService(repo, NewDuplicateGuard(repo), users, node, logger.NewLogger("test"))
	return service, repo
}

func createPending(t *testing.T, service *Service) *SwapRequest {
	t.Helper()
	request, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   bob,
		SkillOffered: "Python",
		SkillWanted:  "Guitar",
		Message:      "want to trade?",
	})
	require.NoError(t, err)
	return request
}

// --- tests ---

func TestCreate(t *testing.T) {
	service, _ := newTestService(t)

	request := createPending(t, service)

	assert.Equal(t, StatusPending, request.Status)
	assert.Equal(t, alice, request.RequesterID)
	assert.Equal(t, bob, request.ReceiverID)
	assert.Equal(t, "Python", request.SkillOffered)
	assert.NotZero(t, request.ID)
}

func TestCreateTrimsInput(t *testing.T) {
	service, _ := newTestService(t)

	request, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   bob,
		SkillOffered: "  Python  ",
		SkillWanted:  " Guitar ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Python", request.SkillOffered)
	assert.Equal(t, "Guitar", request.SkillWanted)
}

func TestCreateDuplicate(t *testing.T) {
	service, _ := newTestService(t)
	createPending(t, service)

	_, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   bob,
		SkillOffered: "Python",
		SkillWanted:  "Guitar",
	})

	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestCreateDuplicateAfterResolution(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Transition(context.Background(), request.ID, bob, StatusRejected, "")
	require.NoError(t, err)

	// The pair is free again once the first request is resolved.
	_, err = service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   bob,
		SkillOffered: "Python",
		SkillWanted:  "Guitar",
	})
	assert.NoError(t, err)
}

func TestCreateSelfRequest(t *testing.T) {
	service, repo := newTestService(t)

	_, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   alice,
		SkillOffered: "Python",
		SkillWanted:  "Guitar",
	})

	assert.ErrorIs(t, err, ErrSelfRequest)
	assert.Empty(t, repo.requests)
}

func TestCreateEmptySkills(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   bob,
		SkillOffered: "   ",
		SkillWanted:  "Guitar",
	})

	assert.ErrorIs(t, err, ErrSkillsRequired)
}

func TestCreateReceiverMissingOrBanned(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), alice, CreateRequest{
		ReceiverID:   99,
		SkillOffered: "Python",
		SkillWanted:  "Guitar",
	})

	assert.ErrorIs(t, err, ErrReceiverNotFound)
}

func TestTransitionAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		actor   int64
		target  Status
		wantErr error
	}{
		{"receiver accepts", bob, StatusAccepted, nil},
		{"receiver rejects", bob, StatusRejected, nil},
		{"requester cancels", alice, StatusCancelled, nil},
		{"requester accepts", alice, StatusAccepted, policy.ErrForbidden},
		{"requester rejects", alice, StatusRejected, policy.ErrForbidden},
		{"receiver cancels", bob, StatusCancelled, policy.ErrForbidden},
		{"outsider accepts", carol, StatusAccepted, policy.ErrForbidden},
		{"outsider cancels", carol, StatusCancelled, policy.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(t)
			request := createPending(t, service)

			updated, err := service.Transition(context.Background(), request.ID, tt.actor, tt.target, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, updated.Status)
		})
	}
}

func TestTransitionInvalidTarget(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Transition(context.Background(), request.ID, bob, StatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.Transition(context.Background(), request.ID, bob, Status("done"), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionAttachesAcceptanceMessage(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	updated, err := service.Transition(context.Background(), request.ID, bob, StatusAccepted, "  Sure, let's do it  ")

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)
	assert.Equal(t, "Sure, let's do it", updated.AcceptanceMessage)
}

func TestTransitionIgnoresMessageOnCancel(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	updated, err := service.Transition(context.Background(), request.ID, alice, StatusCancelled, "never mind")

	require.NoError(t, err)
	assert.Empty(t, updated.AcceptanceMessage)
}

func TestTransitionTerminal(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Transition(context.Background(), request.ID, bob, StatusAccepted, "yes")
	require.NoError(t, err)

	// No transition leaves a terminal state, whatever the actor tries.
	_, err = service.Transition(context.Background(), request.ID, bob, StatusRejected, "")
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = service.Transition(context.Background(), request.ID, alice, StatusCancelled, "")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestTransitionForbiddenBeatsResolved(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Transition(context.Background(), request.ID, bob, StatusRejected, "")
	require.NoError(t, err)

	// An outsider gets a permission error even on a resolved request.
	_, err = service.Transition(context.Background(), request.ID, carol, StatusAccepted, "")
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestTransitionNotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Transition(context.Background(), 42, bob, StatusAccepted, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestGetVisibility(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Get(context.Background(), request.ID, alice)
	assert.NoError(t, err)

	_, err = service.Get(context.Background(), request.ID, bob)
	assert.NoError(t, err)

	_, err = service.Get(context.Background(), request.ID, carol)
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestDeleteOnlyRequester(t *testing.T) {
	service, repo := newTestService(t)
	request := createPending(t, service)

	err := service.Delete(context.Background(), request.ID, bob)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	err = service.Delete(context.Background(), request.ID, alice)
	require.NoError(t, err)
	assert.Empty(t, repo.requests)
}

func TestDeleteResolvedRequest(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Transition(context.Background(), request.ID, bob, StatusAccepted, "")
	require.NoError(t, err)

	// Deletion is allowed in any status, requester only.
	err = service.Delete(context.Background(), request.ID, alice)
	assert.NoError(t, err)
}

func TestListFilters(t *testing.T) {
	service, _ := newTestService(t)
	request := createPending(t, service)

	_, err := service.Create(context.Background(), bob, CreateRequest{
		ReceiverID:   alice,
		SkillOffered: "Guitar",
		SkillWanted:  "Python",
	})
	require.NoError(t, err)

	sent, err := service.ListSent(context.Background(), alice, "")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
	assert.Equal(t, request.ID, sent[0].ID)

	received, err := service.ListReceived(context.Background(), alice, "pending")
	require.NoError(t, err)
	assert.Len(t, received, 1)

	_, err = service.ListSent(context.Background(), alice, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	all, err := service.ListAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("done").Terminal())
}
