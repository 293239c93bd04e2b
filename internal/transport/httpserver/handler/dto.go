package handler

import (
	"time"

	fridgedomain "fridge-app-go/internal/domain/fridge"
)

type userResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type fridgeResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int       `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type userFridgeResponse struct {
	fridgeResponse
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type memberResponse struct {
	User     userResponse `json:"user"`
	Role     string       `json:"role"`
	JoinedAt time.Time    `json:"joined_at"`
}

func toUserResponse(user fridgedomain.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
}

func toFridgeResponse(fridge fridgedomain.Refrigerator) fridgeResponse {
	return fridgeResponse{
		ID:          fridge.ID,
		Name:        fridge.Name,
		Description: fridge.Description,
		OwnerID:     fridge.OwnerID,
		InviteCode:  fridge.InviteCode,
		MemberCount: fridge.MemberCount,
		CreatedAt:   fridge.CreatedAt,
		UpdatedAt:   fridge.UpdatedAt,
	}
}
