package fridge

import "time"

// Document keys in the kv store.
const (
	KeyRefrigerators     = "refrigerators"
	KeyRefrigeratorUsers = "refrigerator_users"
	KeyUserProfiles      = "user_profiles"
	KeyCurrentUser       = "current_user"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Status string

const (
	StatusActive Status = "active"
	StatusLeft   Status = "left"
)

// IsActive treats an unset status as active; older documents carry no status.
func (s Status) IsActive() bool {
	return s == StatusActive || s == ""
}

type User struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

type Refrigerator struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int       `json:"ownerId"`
	InviteCode  string    `json:"inviteCode"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	MemberCount int       `json:"memberCount"`
}

// RefrigeratorUser links a user to a refrigerator. Rows are never deleted;
// leaving and rejoining flip Status.
type RefrigeratorUser struct {
	RelationID     int       `json:"relationId"`
	RefrigeratorID int       `json:"refrigeratorId"`
	InviterID      int       `json:"inviterId"`
	InviteeID      int       `json:"inviteeId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Status         Status    `json:"status,omitempty"`
}

type UserFridge struct {
	Fridge   Refrigerator `json:"fridge"`
	Role     string       `json:"role"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// Resolution is one active relation of a user: either resolved to its
// refrigerator or orphaned because the refrigerator no longer exists.
type Resolution struct {
	RelationID int
	Fridge     *UserFridge
}

func (r Resolution) Orphaned() bool {
	return r.Fridge == nil
}

type Member struct {
	User       User      `json:"user"`
	Role       string    `json:"role"`
	JoinedAt   time.Time `json:"joinedAt"`
	RelationID int       `json:"relationId"`
}

func roleFor(fridge Refrigerator, userID int) string {
	if fridge.OwnerID == userID {
		return RoleOwner
	}
	return RoleMember
}
