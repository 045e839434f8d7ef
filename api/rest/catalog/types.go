package catalog

import (
	"context"

	"codeberg.org/olkkari/server/olkkari/catalog"
)

type Reader interface {
	ListMenu(ctx context.Context, subcategory string) ([]catalog.MenuItem, error)
	ListWines(ctx context.Context) ([]catalog.Wine, error)
	ListEvents(ctx context.Context) ([]catalog.Event, error)
	ListStaff(ctx context.Context) ([]catalog.StaffMember, error)
	ListArt(ctx context.Context) ([]catalog.ArtPiece, error)
}

type MenuResponse struct {
	Items []catalog.MenuItem `json:"items"`
}

type WinesResponse struct {
	Wines []catalog.Wine `json:"wines"`
}

type EventsResponse struct {
	Events []catalog.Event `json:"events"`
}

type StaffResponse struct {
	Staff []catalog.StaffMember `json:"staff"`
}

type ArtResponse struct {
	Pieces []catalog.ArtPiece `json:"pieces"`
}
