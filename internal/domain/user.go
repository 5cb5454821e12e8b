package domain

import (
	"net/mail"
	"strings"
	"time"
)

// User is an account record. PasswordHash never leaves the backend.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SteamID      *string   `json:"steam_id,omitempty"`
	XboxID       *string   `json:"xbox_id,omitempty"`
	PSNID        *string   `json:"psn_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlatformID returns the linked identifier for the given platform, if any
func (u *User) PlatformID(p Platform) (string, bool) {
	var id *string
	switch p {
	case PlatformSteam:
		id = u.SteamID
	case PlatformXbox:
		id = u.XboxID
	case PlatformPSN:
		id = u.PSNID
	}
	if id == nil || *id == "" {
		return "", false
	}
	return *id, true
}

// PublicUser is the account shape returned by the API
type PublicUser struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	SteamID  *string         `json:"steam_id"`
	XboxID   *string         `json:"xbox_id"`
	PSNID    *string         `json:"psn_id"`
	Stats    *AggregateStats `json:"stats,omitempty"`
}

// Public strips the credential fields from a user record
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		SteamID:  u.SteamID,
		XboxID:   u.XboxID,
		PSNID:    u.PSNID,
	}
}

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload before any database work
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if len(r.Username) < 3 || len(r.Username) > 50 {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrInvalidInput
	}
	if len(r.Password) < 8 {
		return ErrInvalidInput
	}
	return nil
}

// LoginRequest accepts either username or email in Login
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse is the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LinkPlatformsRequest updates the per-platform identifiers on an account.
// Omitted fields are left untouched; an explicit empty string unlinks.
type LinkPlatformsRequest struct {
	SteamID *string `json:"steam_id,omitempty"`
	XboxID  *string `json:"xbox_id,omitempty"`
	PSNID   *string `json:"psn_id,omitempty"`
}
