package dto

import "github.com/spec-kit/workforce-client/internal/domain"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User         domain.UserRecord    `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken,omitempty"`
	Subscription *domain.Subscription `json:"subscription,omitempty"`
}

// RefreshResponse is returned by the refresh endpoint.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// MeResponse is returned by the "who am I" endpoint.
type MeResponse struct {
	User         domain.UserRecord    `json:"user"`
	Subscription *domain.Subscription `json:"subscription,omitempty"`
}
