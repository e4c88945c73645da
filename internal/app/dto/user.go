package dto

import (
	"time"

	domainuser "stuverse/internal/domain/user"
)

type UserProfile struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	University string    `json:"university"`
	Bio        string    `json:"bio,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func MapUserProfile(u *domainuser.User) UserProfile {
	return UserProfile{
		ID:         string(u.ID),
		Name:       u.Name,
		Email:      u.Email,
		University: u.University,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func NewAuthResponse(u *domainuser.User, token string) AuthResponse {
	return AuthResponse{User: MapUserProfile(u), Token: token}
}
