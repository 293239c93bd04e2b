package fridge

import (
	"errors"

	"fridge-app-go/internal/kv"
)

var (
	ErrNoCurrentUser        = errors.New("no current user")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
	ErrAlreadyMember        = errors.New("already a member")
	ErrNotAMember           = errors.New("not a member")
	ErrOwnerCannotLeave     = errors.New("owner cannot leave")
	ErrFridgeNotFound       = errors.New("refrigerator not found")
	ErrRelationNotFound     = errors.New("relation not found")
	ErrRelationExists       = errors.New("relation already exists")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidUser          = errors.New("invalid user")
	ErrCodeGenerationFailed = errors.New("invite code generation failed")

	ErrStoreIO = kv.ErrStoreIO
)

// Code returns a stable snake_case name for err, used for metric labels.
func Code(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoCurrentUser):
		return "no_current_user"
	case errors.Is(err, ErrInvalidInviteCode):
		return "invalid_invite_code"
	case errors.Is(err, ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, ErrNotAMember):
		return "not_a_member"
	case errors.Is(err, ErrOwnerCannotLeave):
		return "owner_cannot_leave"
	case errors.Is(err, ErrFridgeNotFound):
		return "fridge_not_found"
	case errors.Is(err, ErrRelationNotFound):
		return "relation_not_found"
	case errors.Is(err, ErrRelationExists):
		return "relation_exists"
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidUser):
		return "invalid_request"
	case errors.Is(err, ErrCodeGenerationFailed):
		return "code_generation_failed"
	case errors.Is(err, ErrStoreIO):
		return "store_io"
	default:
		return "internal"
	}
}
