package response

import (
	"time"

	"sports-prediction/internal/data/entity"
)

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

// UserSummary is the identity view returned by login and session checks.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActivated bool   `json:"isActivated"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActivated bool      `json:"isActivated"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SessionCheckResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *UserSummary `json:"user,omitempty"`
}

// Helper converters
func UserToSummary(user *entity.User) UserSummary {
	return UserSummary{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		IsActivated: user.IsActivated,
	}
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		IsActivated: user.IsActivated,
		CreatedAt:   user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	return AuthResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      UserToSummary(user),
	}
}
