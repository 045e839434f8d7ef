package profiles

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles profile database operations
type Repository struct {
	db *pgxpool.Pool
}

// fields a user may set on their own profile. role and approval are
// admin-only and never come from here.
type UpsertProfileRequest struct {
	ID        string `json:"-"`
	Email     string `json:"-"`
	FullName  string `json:"full_name" binding:"max=120"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}
