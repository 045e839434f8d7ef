package bookings

import (
	"time"

	"codeberg.org/olkkari/server/internal/receipts"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles booking database operations
type Repository struct {
	db *pgxpool.Pool
}

// booking lifecycle states
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// represents a table reservation or chef hire
type Booking struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	CustomerName    string                `json:"customer_name"`
	Email           string                `json:"email"`
	Guests          int                   `json:"guests"`
	Date            string                `json:"date"`
	Time            string                `json:"time"`
	SpecialRequests string                `json:"special_requests"`
	Status          string                `json:"status"`
	ReceiptURL      *string               `json:"receipt_url"`
	ReceiptData     *receipts.ReceiptData `json:"receipt_data"`
	CreatedAt       time.Time             `json:"created_at"`
}

// contains data for creating a booking
type CreateBookingRequest struct {
	CustomerName    string `json:"customer_name" binding:"required,max=120"`
	Email           string `json:"email" binding:"required,email"`
	Guests          int    `json:"guests" binding:"required,min=1,max=24"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	Time            string `json:"time" binding:"required,datetime=15:04"`
	SpecialRequests string `json:"special_requests" binding:"max=1000"`
}

// contains data for a host changing a booking's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// body of the receipt extraction call
type ExtractReceiptRequest struct {
	ReceiptURL string `json:"receipt_url" binding:"required,url"`
}
