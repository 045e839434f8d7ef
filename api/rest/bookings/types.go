package bookings

import (
	"context"

	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/mailer"
	"codeberg.org/olkkari/server/internal/receipts"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/api/rest/pagination"
)

type Store interface {
	Create(ctx context.Context, userID string, req bookings.CreateBookingRequest) (*bookings.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*bookings.Booking, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]bookings.Booking, error)
}

type Receipts interface {
	Upload(ctx context.Context, userID, bookingID string, image []byte, contentType string) (string, error)
	Extract(ctx context.Context, receiptURL, bookingID string) (*receipts.ReceiptData, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to string, b mailer.BookingConfirmation) error
}

// host live feed
type Events interface {
	Publish(msgType string, payload any)
}

type Deps struct {
	Store    Store
	Receipts Receipts
	Notifier Notifier // optional
	Events   Events   // optional
	Resolver *identity.Resolver
}

type BookingsListResponse struct {
	Bookings   []bookings.Booking `json:"bookings"`
	Pagination pagination.Meta    `json:"pagination"`
}

type UploadReceiptResponse struct {
	ReceiptURL string `json:"receipt_url"`
}

type ExtractReceiptResponse struct {
	ReceiptData *receipts.ReceiptData `json:"receipt_data"`
}

// form field holding the image on multipart uploads
const receiptFormField = "receipt"
