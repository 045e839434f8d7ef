package auth

import (
	"context"

	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/supabase"
	"codeberg.org/olkkari/server/olkkari/profiles"
)

// identity provider operations used by the auth routes
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	SignInWithMagicLink(ctx context.Context, email, redirectURL string) error
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
	UpdateUser(ctx context.Context, accessToken string, update supabase.UserUpdate) (*identity.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

type ProfileStore interface {
	identity.ProfileFetcher
	Upsert(ctx context.Context, req profiles.UpsertProfileRequest) (*identity.Profile, error)
}

type Deps struct {
	Provider     Provider
	Profiles     ProfileStore
	Resolver     *identity.Resolver
	MagicLinkURL string
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// first-run details. Metadata may carry extra profile hints; role and
// approval keys are dropped.
type OnboardingRequest struct {
	FullName string         `json:"full_name" binding:"required,max=120"`
	Password string         `json:"password" binding:"omitempty,min=8,max=72"`
	Metadata map[string]any `json:"metadata"`
}

// session plus the resolved access flags
type SessionResponse struct {
	Session *identity.Session `json:"session"`
	Access  identity.Access   `json:"access"`
	Source  identity.Source   `json:"source"`
}

type MeResponse struct {
	User    *identity.User    `json:"user"`
	Profile *identity.Profile `json:"profile"`
	Claims  identity.Claims   `json:"claims"`
	Access  identity.Access   `json:"access"`
	Source  identity.Source   `json:"source"`
}

type OnboardingResponse struct {
	User    *identity.User    `json:"user"`
	Profile *identity.Profile `json:"profile"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
