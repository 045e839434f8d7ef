package bookings

import (
	"context"
	"errors"

	"codeberg.org/olkkari/server/internal/receipts"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// shared with the receipt pipeline so callers can match either
var ErrBookingNotFound = receipts.ErrBookingNotFound

// creates a new booking repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts a pending booking for userID
func (r *Repository) Create(ctx context.Context, userID string, req CreateBookingRequest) (*Booking, error) {
	return scanBooking(r.db.QueryRow(
		ctx,
		queryCreate,
		userID,
		req.CustomerName,
		req.Email,
		req.Guests,
		req.Date,
		req.Time,
		req.SpecialRequests,
	))
}

// finds a booking by id
func (r *Repository) GetByID(ctx context.Context, bookingID string) (*Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, queryGetByID, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}

	return booking, err
}

// lists a user's bookings, latest first
func (r *Repository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]Booking, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// lists every booking, latest first
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]Booking, error) {
	rows, err := r.db.Query(ctx, queryListAll, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// sets the booking status
func (r *Repository) UpdateStatus(ctx context.Context, bookingID, status string) (*Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, queryUpdateStatus, bookingID, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}

	return booking, err
}

// implements receipts.BookingStore
func (r *Repository) GetReceipt(ctx context.Context, bookingID string) (*receipts.BookingReceipt, error) {
	var rec receipts.BookingReceipt

	err := r.db.QueryRow(ctx, queryGetReceipt, bookingID).Scan(
		&rec.BookingID,
		&rec.UserID,
		&rec.ReceiptURL,
		&rec.HasData,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// implements receipts.BookingStore
func (r *Repository) SetReceiptURL(ctx context.Context, bookingID, receiptURL string) error {
	tag, err := r.db.Exec(ctx, querySetReceiptURL, bookingID, receiptURL)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// implements receipts.BookingStore
func (r *Repository) SetReceiptData(ctx context.Context, bookingID, receiptURL string, data *receipts.ReceiptData) error {
	tag, err := r.db.Exec(ctx, querySetReceiptData, bookingID, receiptURL, data)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return receipts.ErrReceiptMismatch
	}

	return nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()

	bookings := []Booking{}

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var booking Booking

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CustomerName,
		&booking.Email,
		&booking.Guests,
		&booking.Date,
		&booking.Time,
		&booking.SpecialRequests,
		&booking.Status,
		&booking.ReceiptURL,
		&booking.ReceiptData,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}
