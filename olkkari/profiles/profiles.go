package profiles

import (
	"context"
	"errors"

	"codeberg.org/olkkari/server/internal/identity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 200

// creates a new profile repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// finds a profile by user id
func (r *Repository) FindByID(ctx context.Context, userID string) (*identity.Profile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, queryFindByID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrProfileNotFound
	}

	return profile, err
}

// implements identity.ProfileFetcher
func (r *Repository) FetchProfile(ctx context.Context, userID string) (*identity.Profile, error) {
	return r.FindByID(ctx, userID)
}

// creates the profile row on first onboarding or updates the user-editable
// fields of an existing one
func (r *Repository) Upsert(ctx context.Context, req UpsertProfileRequest) (*identity.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, queryUpsert, req.ID, req.Email, req.FullName, req.AvatarURL))
}

// marks a member as approved
func (r *Repository) Approve(ctx context.Context, userID string) (*identity.Profile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, queryApprove, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrProfileNotFound
	}

	return profile, err
}

// lists members waiting for approval, oldest first
func (r *Repository) ListPending(ctx context.Context) ([]identity.Profile, error) {
	return r.list(ctx, queryListPending, defaultListLimit)
}

// lists all profiles, newest first
func (r *Repository) ListAll(ctx context.Context) ([]identity.Profile, error) {
	return r.list(ctx, queryListAll, defaultListLimit)
}

func (r *Repository) list(ctx context.Context, query string, limit int) ([]identity.Profile, error) {
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []identity.Profile{}

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func scanProfile(row pgx.Row) (*identity.Profile, error) {
	var (
		profile identity.Profile
		role    string
	)

	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.AvatarURL,
		&role,
		&profile.IsApproved,
		&profile.LoyaltyPoints,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Role = identity.ParseRole(role)

	return &profile, nil
}
