package receipts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/olkkari/server/internal/logger"
)

const (
	DefaultMaxImageBytes = 10 << 20
	DefaultLockTTL       = 2 * time.Minute

	lockKeyPrefix = "receipts:extract:"
)

// allowed image types and the extension stored with them
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// collaborators of the pipeline
type Dependencies struct {
	Objects   ObjectStore
	Bookings  BookingStore
	Images    ImageFetcher
	Extractor Extractor
	Locks     LockStore
}

// attaches receipt images to bookings and extracts structured data from
// them. upload and extraction are separate so extraction can be retried
// without re-uploading.
type Pipeline struct {
	objects   ObjectStore
	bookings  BookingStore
	images    ImageFetcher
	extractor Extractor
	locks     LockStore

	maxBytes int
	lockTTL  time.Duration
	now      func() time.Time
}

// creates a pipeline. a nil lock store falls back to an in-process one.
func NewPipeline(deps Dependencies) *Pipeline {
	locks := deps.Locks
	if locks == nil {
		locks = NewMemoryLockStore()
	}

	return &Pipeline{
		objects:   deps.Objects,
		bookings:  deps.Bookings,
		images:    deps.Images,
		extractor: deps.Extractor,
		locks:     locks,
		maxBytes:  DefaultMaxImageBytes,
		lockTTL:   DefaultLockTTL,
		now:       time.Now,
	}
}

// stores image for a booking owned by userID and records its public url
// on the booking. returns *UploadError on storage failures.
func (p *Pipeline) Upload(ctx context.Context, userID, bookingID string, image []byte, contentType string) (string, error) {
	if userID == "" || bookingID == "" {
		return "", ErrInvalidArgument
	}

	contentType = normalizeContentType(contentType, image)

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", &UploadError{
			Kind: UploadInvalidContent,
			Err:  fmt.Errorf("unsupported content type %q", contentType),
		}
	}

	if len(image) == 0 {
		return "", &UploadError{Kind: UploadInvalidContent, Err: errors.New("empty image")}
	}

	if len(image) > p.maxBytes {
		return "", &UploadError{
			Kind: UploadTooLarge,
			Err:  fmt.Errorf("image is %d bytes, limit is %d", len(image), p.maxBytes),
		}
	}

	booking, err := p.bookings.GetReceipt(ctx, bookingID)
	if err != nil {
		return "", err
	}

	if booking.UserID != userID {
		return "", ErrBookingNotFound
	}

	key := ObjectKey(userID, bookingID, p.now(), ext)

	if err := p.objects.Put(ctx, key, image, contentType); err != nil {
		return "", &UploadError{Kind: UploadStorage, Err: err}
	}

	url := p.objects.PublicURL(key)

	if err := p.bookings.SetReceiptURL(ctx, bookingID, url); err != nil {
		return "", &UploadError{Kind: UploadPersist, Err: err}
	}

	logger.Info("receipt uploaded",
		"booking_id", bookingID,
		"user_id", userID,
		"bytes", len(image),
	)

	return url, nil
}

// runs the document extraction for the booking's stored receipt and saves
// the result. at most one extraction runs per booking at a time.
func (p *Pipeline) Extract(ctx context.Context, receiptURL, bookingID string) (*ReceiptData, error) {
	if strings.TrimSpace(receiptURL) == "" || strings.TrimSpace(bookingID) == "" {
		return nil, ErrInvalidArgument
	}

	booking, err := p.bookings.GetReceipt(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ReceiptURL == "" || booking.ReceiptURL != receiptURL {
		return nil, ErrReceiptMismatch
	}

	lockKey := lockKeyPrefix + bookingID

	token, ok, err := p.locks.Acquire(ctx, lockKey, p.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire extraction lock: %w", err)
	}

	if !ok {
		return nil, ErrExtractionInFlight
	}

	defer func() {
		// release on a fresh context so a cancelled request still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := p.locks.Release(releaseCtx, lockKey, token); err != nil {
			logger.WarnErr(err, "failed to release extraction lock", "booking_id", bookingID)
		}
	}()

	image, contentType, err := p.images.Fetch(ctx, receiptURL)
	if err != nil {
		return nil, &ExtractionError{Kind: KindFetchImage, Err: err}
	}

	contentType = normalizeContentType(contentType, image)

	raw, err := p.extractor.ExtractReceipt(ctx, image, contentType)
	if err != nil {
		return nil, &ExtractionError{Kind: KindServiceUnavailable, Err: err}
	}

	data, err := ParseReceipt(raw)
	if err != nil {
		return nil, &ExtractionError{Kind: KindMalformedResponse, Err: err, Raw: truncate(raw, 2048)}
	}

	if err := p.bookings.SetReceiptData(ctx, bookingID, receiptURL, data); err != nil {
		return nil, &ExtractionError{Kind: KindPersist, Err: err}
	}

	logger.Info("receipt extracted",
		"booking_id", bookingID,
		"vendor", data.Vendor,
		"items", len(data.Items),
	)

	return data, nil
}

// object key for a receipt inside the receipts bucket:
// {userID}/{bookingID}-{unixMillis}{ext}
func ObjectKey(userID, bookingID string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%s-%d%s", userID, bookingID, at.UnixMilli(), ext)
}

func normalizeContentType(contentType string, body []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	if ct == "image/jpg" {
		ct = "image/jpeg"
	}

	if (ct == "" || ct == "application/octet-stream") && len(body) > 0 {
		ct = http.DetectContentType(body)
	}

	return ct
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
