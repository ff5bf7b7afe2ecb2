// Package policy is the single authorization decision point for all
// workflows. Every decision today reduces to an identity-equality check
// against one of the subject's ownership attributes; moderation and admin
// actions are granted to any authenticated actor. Keeping the decisions
// behind one function means a real role system can replace the equality
// checks later without touching the workflows.
package policy

import "errors"

// ErrForbidden is returned when the actor may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Action names an operation subject to authorization.
type Action string

const (
	ActionViewRequest   Action = "request.view"
	ActionAcceptRequest Action = "request.accept"
	ActionRejectRequest Action = "request.reject"
	ActionCancelRequest Action = "request.cancel"
	ActionDeleteRequest Action = "request.delete"

	ActionEditSkill     Action = "skill.edit"
	ActionDeleteSkill   Action = "skill.delete"
	ActionModerateSkill Action = "skill.moderate"

	ActionBanUser   Action = "user.ban"
	ActionListUsers Action = "user.list"
)

// Subject carries the ownership attributes of the entity being acted on.
// A zero ID means the attribute is absent (e.g. an orphaned skill).
type Subject struct {
	RequesterID int64
	ReceiverID  int64
	CreatedBy   int64
}

// Authorize decides whether actorID may perform action on subject.
// actorID must be an authenticated identity; it is never zero.
func Authorize(actorID int64, action Action, subject Subject) error {
	switch action {
	case ActionViewRequest:
		if actorID == subject.RequesterID || actorID == subject.ReceiverID {
			return nil
		}
	case ActionAcceptRequest, ActionRejectRequest:
		if actorID == subject.ReceiverID {
			return nil
		}
	case ActionCancelRequest, ActionDeleteRequest:
		if actorID == subject.RequesterID {
			return nil
		}
	case ActionEditSkill, ActionDeleteSkill:
		if subject.CreatedBy != 0 && actorID == subject.CreatedBy {
			return nil
		}
	case ActionModerateSkill, ActionBanUser, ActionListUsers:
		// No role attribute exists yet: any authenticated actor qualifies.
		return nil
	}
	return ErrForbidden
}
