package identity

import (
	"context"
	"errors"
	"time"
)

// role carried in user metadata and on the profile row
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// which pass last wrote the access flags of a resolution
type Source string

const (
	SourceOptimistic    Source = "optimistic"
	SourceAuthoritative Source = "authoritative"
)

// returned by a ProfileFetcher when the user has no profile row yet
var ErrProfileNotFound = errors.New("profile not found")

// authorization subset of the user metadata claim bag
type Claims struct {
	Role               Role   `json:"role,omitempty"`
	IsApproved         bool   `json:"is_approved"`
	OnboardingComplete bool   `json:"onboarding_complete"`
	FullName           string `json:"full_name,omitempty"`
}

// user record as issued by the identity provider
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// credential bundle issued by the identity provider. a session without a
// user is treated as signed out.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// server-of-record identity row from the profiles table
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	Role          Role      `json:"role"`
	IsApproved    bool      `json:"is_approved"`
	LoyaltyPoints *int      `json:"loyalty_points,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// result of resolving a user. Optimistic is always populated, Authoritative
// only after a successful profile lookup.
type Resolution struct {
	Optimistic    Claims   `json:"optimistic"`
	Authoritative *Profile `json:"authoritative,omitempty"`
	Source        Source   `json:"source"`
	Err           error    `json:"-"`

	// set for a nil user; every access flag reads false
	signedOut bool
}

// access flags a gate decision is made on
type Access struct {
	Member   bool `json:"is_member"`
	Admin    bool `json:"is_admin"`
	Approved bool `json:"is_approved"`
}

// loads the profile row for a user id
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (*Profile, error)
}

// adapts a plain function to ProfileFetcher
type ProfileFetcherFunc func(ctx context.Context, userID string) (*Profile, error)

func (f ProfileFetcherFunc) FetchProfile(ctx context.Context, userID string) (*Profile, error) {
	return f(ctx, userID)
}
