package dto

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is an email/password sign-in attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "Bearer"
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthClaims are the JWT claims this service issues and validates.
type AuthClaims struct {
	UserID    string `json:"uid"`
	IsAdmin   bool   `json:"adm"`
	TokenType string `json:"typ"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// UserProfileResponse is the signed-in user's own profile.
type UserProfileResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	IsAdmin           bool   `json:"is_admin"`
}
