package supabase

import (
	"fmt"
	"net/http"
	"time"

	"codeberg.org/olkkari/server/internal/identity"
)

// talks to the GoTrue auth API of a Supabase project
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// error body returned by GoTrue
type APIError struct {
	StatusCode       int    `json:"-"`
	Code             string `json:"error_code,omitempty"`
	ErrorName        string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Msg              string `json:"msg,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.ErrorDescription
	}
	if msg == "" {
		msg = e.ErrorName
	}

	return fmt.Sprintf("auth request failed with status %d: %s", e.StatusCode, msg)
}

// invalid credentials and expired tokens
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// token endpoint response
type sessionResponse struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	ExpiresAt    int64          `json:"expires_at"`
	RefreshToken string         `json:"refresh_token"`
	User         *identity.User `json:"user"`
}

func (r *sessionResponse) session(now time.Time) *identity.Session {
	expires := now.Add(time.Duration(r.ExpiresIn) * time.Second)
	if r.ExpiresAt > 0 {
		expires = time.Unix(r.ExpiresAt, 0)
	}

	return &identity.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expires,
		User:         r.User,
	}
}

// fields a user may change on their own record
type UserUpdate struct {
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
