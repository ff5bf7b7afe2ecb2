package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	subject := Subject{RequesterID: 1, ReceiverID: 2, CreatedBy: 3}

	tests := []struct {
		name    string
		actorID int64
		action  Action
		allowed bool
	}{
		{"requester views", 1, ActionViewRequest, true},
		{"receiver views", 2, ActionViewRequest, true},
		{"outsider views", 9, ActionViewRequest, false},

		{"receiver accepts", 2, ActionAcceptRequest, true},
		{"requester accepts", 1, ActionAcceptRequest, false},
		{"receiver rejects", 2, ActionRejectRequest, true},
		{"requester rejects", 1, ActionRejectRequest, false},

		{"requester cancels", 1, ActionCancelRequest, true},
		{"receiver cancels", 2, ActionCancelRequest, false},
		{"requester deletes", 1, ActionDeleteRequest, true},
		{"receiver deletes", 2, ActionDeleteRequest, false},

		{"creator edits skill", 3, ActionEditSkill, true},
		{"other edits skill", 1, ActionEditSkill, false},
		{"creator deletes skill", 3, ActionDeleteSkill, true},
		{"other deletes skill", 1, ActionDeleteSkill, false},

		{"anyone moderates", 9, ActionModerateSkill, true},
		{"anyone bans", 9, ActionBanUser, true},
		{"anyone lists users", 9, ActionListUsers, true},

		{"unknown action", 1, Action("request.archive"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actorID, tt.action, subject)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestAuthorizeOrphanedSkill(t *testing.T) {
	// A skill with no recorded creator cannot be edited or deleted by anyone.
	orphan := Subject{CreatedBy: 0}

	assert.ErrorIs(t, Authorize(5, ActionEditSkill, orphan), ErrForbidden)
	assert.ErrorIs(t, Authorize(5, ActionDeleteSkill, orphan), ErrForbidden)
}
