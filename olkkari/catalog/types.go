package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles read access to the house catalog tables
type Repository struct {
	db *pgxpool.Pool
}

// field order matches the select lists in queries.go

type MenuItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Tags         []string `json:"tags"`
	IsChefChoice bool     `json:"is_chef_choice"`
}

type Wine struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Year        string `json:"year,omitempty"`
	Region      string `json:"region,omitempty"`
	Type        string `json:"type,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Type        string `json:"type"`
	IsTonight   bool   `json:"is_tonight"`
}

// chef or host available for private hire
type StaffMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Rate        string `json:"rate"`
	Badge       string `json:"badge,omitempty"`
}

type ArtPiece struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Medium string `json:"medium"`
	Price  string `json:"price"`
	Image  string `json:"image"`
}
