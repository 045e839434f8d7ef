package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument    = errors.New("receipt url and booking id are required")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrReceiptMismatch    = errors.New("receipt url does not match the booking")
	ErrExtractionInFlight = errors.New("receipt extraction already running for this booking")
)

// structured record extracted from a receipt image
type ReceiptData struct {
	Vendor   string     `json:"vendor"`
	Date     string     `json:"date,omitempty"`
	Items    []LineItem `json:"items"`
	Tax      Amount     `json:"tax"`
	Total    Amount     `json:"total"`
	Currency string     `json:"currency"`
}

type LineItem struct {
	Name     string `json:"name"`
	Quantity Amount `json:"quantity"`
	Price    Amount `json:"price"`
}

// receipt columns of a booking row
type BookingReceipt struct {
	BookingID  string
	UserID     string
	ReceiptURL string
	HasData    bool
}

// why an upload failed
type UploadErrorKind string

const (
	UploadInvalidContent UploadErrorKind = "invalid_content_type"
	UploadTooLarge       UploadErrorKind = "too_large"
	UploadStorage        UploadErrorKind = "storage"
	UploadPersist        UploadErrorKind = "persist"
)

// returned by Upload; the booking row is left unmodified
type UploadError struct {
	Kind UploadErrorKind
	Err  error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("receipt upload failed: %s", e.Kind)
	}

	return fmt.Sprintf("receipt upload failed (%s): %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// why an extraction failed
type ExtractionErrorKind string

const (
	KindFetchImage         ExtractionErrorKind = "fetch_image"
	KindServiceUnavailable ExtractionErrorKind = "service_unavailable"
	KindMalformedResponse  ExtractionErrorKind = "malformed_response"
	KindPersist            ExtractionErrorKind = "persist"
)

// returned by Extract; receipt_data and receipt_url are left unmodified
type ExtractionError struct {
	Kind ExtractionErrorKind
	Err  error
	// raw model output, set for malformed responses
	Raw string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("receipt extraction failed (%s): %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// stores receipt images
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
}

// reads and writes the receipt columns of bookings
type BookingStore interface {
	GetReceipt(ctx context.Context, bookingID string) (*BookingReceipt, error)
	// sets receipt_url and clears any receipt_data from a previous image
	SetReceiptURL(ctx context.Context, bookingID, receiptURL string) error
	// sets receipt_data only while receipt_url still equals receiptURL
	SetReceiptData(ctx context.Context, bookingID, receiptURL string, data *ReceiptData) error
}

// downloads a stored receipt image
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// turns an image into the model's raw text answer
type Extractor interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (string, error)
}

// per-key mutual exclusion with expiry
type LockStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}
