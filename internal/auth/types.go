package auth

import (
	"codeberg.org/olkkari/server/internal/identity"
	"github.com/golang-jwt/jwt/v5"
)

// gin context keys set by the middlewares
const (
	ContextUserID       = "user_id"
	ContextUserEmail    = "user_email"
	ContextUserMetadata = "user_metadata"
	ContextAccessToken  = "access_token"
	ContextResolution   = "resolution"
)

// audience the identity provider stamps on user access tokens
const Audience = "authenticated"

// represents the identity provider's access token claims. the user id is the
// subject; user_metadata is user-writable and only an optimistic hint.
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// returns the subject
func (c *Claims) UserID() string {
	return c.Subject
}

// the identity.User these claims describe
func (c *Claims) User() *identity.User {
	return &identity.User{
		ID:       c.Subject,
		Email:    c.Email,
		Metadata: c.UserMetadata,
	}
}
