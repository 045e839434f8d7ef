package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new catalog repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// lists menu items, optionally filtered by subcategory
func (r *Repository) ListMenu(ctx context.Context, subcategory string) ([]MenuItem, error) {
	return list[MenuItem](ctx, r.db, queryListMenu, subcategory)
}

func (r *Repository) ListWines(ctx context.Context) ([]Wine, error) {
	return list[Wine](ctx, r.db, queryListWines)
}

func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	return list[Event](ctx, r.db, queryListEvents)
}

// lists chefs and hosts available for hire
func (r *Repository) ListStaff(ctx context.Context) ([]StaffMember, error) {
	return list[StaffMember](ctx, r.db, queryListStaff)
}

func (r *Repository) ListArt(ctx context.Context) ([]ArtPiece, error) {
	return list[ArtPiece](ctx, r.db, queryListArt)
}

func list[T any](ctx context.Context, db *pgxpool.Pool, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[T])
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}
