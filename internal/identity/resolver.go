package identity

import (
	"context"
	"errors"
	"fmt"
)

// resolves users into access flags: claims first, profile row second
type Resolver struct {
	profiles ProfileFetcher
}

// creates a resolver backed by the given profile source
func NewResolver(profiles ProfileFetcher) *Resolver {
	return &Resolver{profiles: profiles}
}

// computes the claims-only resolution. no I/O.
func Optimistic(u *User) Resolution {
	if u == nil {
		return Resolution{Source: SourceOptimistic, signedOut: true}
	}

	return Resolution{
		Optimistic: u.Claims(),
		Source:     SourceOptimistic,
	}
}

// runs the profile lookup for userID. on success the profile replaces the
// optimistic flags; on any failure prior is returned unchanged with Err set.
func (r *Resolver) Authoritative(ctx context.Context, userID string, prior Resolution) Resolution {
	if r == nil || r.profiles == nil {
		prior.Err = fmt.Errorf("no profile source configured")
		return prior
	}

	profile, err := r.profiles.FetchProfile(ctx, userID)
	if err != nil {
		prior.Err = fmt.Errorf("failed to fetch profile %s: %w", userID, err)
		return prior
	}

	if profile == nil {
		prior.Err = fmt.Errorf("failed to fetch profile %s: %w", userID, ErrProfileNotFound)
		return prior
	}

	return Resolution{
		Optimistic:    prior.Optimistic,
		Authoritative: profile,
		Source:        SourceAuthoritative,
	}
}

// runs both passes in order
func (r *Resolver) Resolve(ctx context.Context, u *User) Resolution {
	if u == nil {
		return Optimistic(nil)
	}

	return r.Authoritative(ctx, u.ID, Optimistic(u))
}

// reports the admin flag of whichever pass last wrote the resolution
func (res Resolution) IsAdmin() bool {
	if res.Source == SourceAuthoritative && res.Authoritative != nil {
		return res.Authoritative.Role == RoleAdmin
	}

	return res.Optimistic.Role == RoleAdmin
}

// reports the approval flag of whichever pass last wrote the resolution.
// optimistically an admin role implies approval.
func (res Resolution) IsApproved() bool {
	if res.Source == SourceAuthoritative && res.Authoritative != nil {
		return res.Authoritative.IsApproved
	}

	return res.Optimistic.Role == RoleAdmin || res.Optimistic.IsApproved
}

// reports whether the flags were confirmed against the profile row
func (res Resolution) IsAuthoritative() bool {
	return res.Source == SourceAuthoritative && res.Authoritative != nil
}

// access flags for the resolved user. a nil user has none.
func (res Resolution) Access() Access {
	if res.signedOut {
		return Access{}
	}

	return Access{
		Member:   true,
		Admin:    res.IsAdmin(),
		Approved: res.IsApproved(),
	}
}

// reports whether the authoritative pass failed because the profile row
// does not exist yet
func (res Resolution) ProfileMissing() bool {
	return errors.Is(res.Err, ErrProfileNotFound)
}
