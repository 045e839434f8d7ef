package profiles

import (
	"context"

	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/olkkari/profiles"
)

type Store interface {
	FindByID(ctx context.Context, userID string) (*identity.Profile, error)
	Upsert(ctx context.Context, req profiles.UpsertProfileRequest) (*identity.Profile, error)
}

// profile plus the application state shown on the profile screen
type ProfileResponse struct {
	Profile *identity.Profile `json:"profile"`
	Access  identity.Access   `json:"access"`
	Status  string            `json:"status"`
}

// membership states
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusHost     = "host"
)
