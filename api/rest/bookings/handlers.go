package bookings

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/olkkari/server/api/rest/pagination"
	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/internal/mailer"
	"codeberg.org/olkkari/server/internal/receipts"
	ws "codeberg.org/olkkari/server/internal/websocket"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateBooking godoc
// @Summary Request a table
// @Description Creates a pending booking and emails a confirmation to the guest
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body bookings.CreateBookingRequest true "Booking details"
// @Success 201 {object} bookings.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/bookings [post]
// @Security BearerAuth
func CreateBooking(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req bookings.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		req.CustomerName = strings.TrimSpace(req.CustomerName)
		if req.CustomerName == "" {
			errors.BadRequest(c, "customer name is required", nil)
			return
		}

		booking, err := deps.Store.Create(c.Request.Context(), userID, req)
		if err != nil {
			errors.InternalError(c, "failed to create booking", err)
			return
		}

		if deps.Notifier != nil {
			confirm(deps.Notifier, booking)
		}

		if deps.Events != nil {
			deps.Events.Publish(ws.TypeBookingCreated, ws.BookingCreatedPayload{
				BookingID:    booking.ID,
				CustomerName: booking.CustomerName,
				Guests:       booking.Guests,
				Date:         booking.Date,
				Time:         booking.Time,
			})
		}

		c.JSON(http.StatusCreated, booking)
	}
}

// ListBookings godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} BookingsListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/bookings [get]
// @Security BearerAuth
func ListBookings(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		params := pagination.FromQuery(c, defaultPageSize, maxPageSize)

		list, err := deps.Store.ListForUser(c.Request.Context(), userID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list bookings", err)
			return
		}

		if list == nil {
			list = []bookings.Booking{}
		}

		c.JSON(http.StatusOK, BookingsListResponse{
			Bookings:   list,
			Pagination: pagination.NewMeta(params, len(list)),
		})
	}
}

// GetBooking godoc
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} bookings.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/bookings/{id} [get]
// @Security BearerAuth
func GetBooking(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, ok := ownedBooking(c, deps.Store)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}

// UploadReceipt godoc
// @Summary Attach a receipt image
// @Description Stores the image and records its URL on the booking. Accepts a multipart "receipt" field or a raw image body. Any previous extraction is cleared.
// @Tags bookings
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Booking ID"
// @Param receipt formData file true "Receipt image (jpeg, png, webp, heic)"
// @Success 201 {object} UploadReceiptResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/bookings/{id}/receipt [post]
// @Security BearerAuth
func UploadReceipt(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		bookingID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		image, contentType, err := readImage(c)
		if err != nil {
			errors.BadRequest(c, "receipt image is required", err)
			return
		}

		url, err := deps.Receipts.Upload(c.Request.Context(), userID, bookingID, image, contentType)
		if err != nil {
			uploadError(c, err)
			return
		}

		c.JSON(http.StatusCreated, UploadReceiptResponse{ReceiptURL: url})
	}
}

// ExtractReceipt godoc
// @Summary Extract receipt data
// @Description Reads the booking's stored receipt image and saves the extracted vendor, items and totals. Can be retried after a failure.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookings.ExtractReceiptRequest true "Stored receipt URL"
// @Success 200 {object} ExtractReceiptResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/bookings/{id}/receipt/extract [post]
// @Security BearerAuth
func ExtractReceipt(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookings.ExtractReceiptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		booking, ok := ownedBooking(c, deps.Store)
		if !ok {
			return
		}

		data, err := deps.Receipts.Extract(c.Request.Context(), req.ReceiptURL, booking.ID)
		if err != nil {
			extractionError(c, err)
			return
		}

		if deps.Events != nil {
			deps.Events.Publish(ws.TypeReceiptExtracted, ws.ReceiptExtractedPayload{
				BookingID: booking.ID,
				Vendor:    data.Vendor,
				Total:     float64(data.Total),
				Currency:  data.Currency,
			})
		}

		c.JSON(http.StatusOK, ExtractReceiptResponse{ReceiptData: data})
	}
}

// loads the :id booking if the caller owns it or is a host. writes the
// error response otherwise.
func ownedBooking(c *gin.Context, store Store) (*bookings.Booking, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return nil, false
	}

	bookingID, ok := errors.ValidatePathUUID(c, "id")
	if !ok {
		return nil, false
	}

	booking, err := store.GetByID(c.Request.Context(), bookingID)
	if stderrors.Is(err, bookings.ErrBookingNotFound) {
		errors.NotFound(c, "booking")
		return nil, false
	}

	if err != nil {
		errors.InternalError(c, "failed to load booking", err)
		return nil, false
	}

	if booking.UserID != userID {
		res, _ := auth.GetResolution(c)
		if !res.IsAdmin() {
			errors.NotFound(c, "booking")
			return nil, false
		}
	}

	return booking, true
}

func readImage(c *gin.Context) ([]byte, string, error) {
	limit := int64(receipts.DefaultMaxImageBytes) + 1

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile(receiptFormField)
		if err != nil {
			return nil, "", err
		}

		f, err := header.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close() //nolint:errcheck

		body, err := io.ReadAll(io.LimitReader(f, limit))
		if err != nil {
			return nil, "", err
		}

		return body, header.Header.Get("Content-Type"), nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(c.Request.Body, limit)); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), c.ContentType(), nil
}

func uploadError(c *gin.Context, err error) {
	var uploadErr *receipts.UploadError

	switch {
	case stderrors.Is(err, receipts.ErrBookingNotFound):
		errors.NotFound(c, "booking")
	case stderrors.Is(err, receipts.ErrInvalidArgument):
		errors.BadRequest(c, err.Error(), nil)
	case stderrors.As(err, &uploadErr):
		switch uploadErr.Kind {
		case receipts.UploadInvalidContent:
			c.JSON(http.StatusBadRequest, errors.ErrorResponse{
				Error:   errors.CodeReceiptUpload,
				Message: "receipt must be a jpeg, png, webp or heic image",
				Details: string(uploadErr.Kind),
			})
		case receipts.UploadTooLarge:
			c.JSON(http.StatusRequestEntityTooLarge, errors.ErrorResponse{
				Error:   errors.CodeReceiptUpload,
				Message: "receipt image is too large",
				Details: string(uploadErr.Kind),
			})
		case receipts.UploadStorage:
			errors.ServiceUnavailable(c, errors.CodeReceiptUpload, "could not store the receipt image", err)
		default:
			errors.InternalError(c, "failed to save the receipt", err)
		}
	default:
		errors.InternalError(c, "failed to upload receipt", err)
	}
}

func extractionError(c *gin.Context, err error) {
	var extractErr *receipts.ExtractionError

	switch {
	case stderrors.Is(err, receipts.ErrBookingNotFound):
		errors.NotFound(c, "booking")
	case stderrors.Is(err, receipts.ErrInvalidArgument):
		errors.BadRequest(c, err.Error(), nil)
	case stderrors.Is(err, receipts.ErrReceiptMismatch):
		errors.Conflict(c, "receipt url does not match the booking's current receipt")
	case stderrors.Is(err, receipts.ErrExtractionInFlight):
		errors.Conflict(c, "receipt is already being processed")
	case stderrors.As(err, &extractErr):
		switch extractErr.Kind {
		case receipts.KindMalformedResponse:
			logger.Warn("unreadable receipt extraction", "raw", extractErr.Raw)
			errors.Unprocessable(c, errors.CodeReceiptExtraction, "the receipt could not be read, please try again", err)
		case receipts.KindFetchImage, receipts.KindServiceUnavailable:
			errors.ServiceUnavailable(c, errors.CodeReceiptExtraction, "receipt processing is unavailable right now", err)
		default:
			errors.InternalError(c, "failed to save receipt data", err)
		}
	default:
		errors.InternalError(c, "failed to extract receipt", err)
	}
}

// best effort; runs detached from the request
func confirm(n Notifier, b *bookings.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := n.SendBookingConfirmation(ctx, b.Email, mailer.BookingConfirmation{
			CustomerName:    b.CustomerName,
			Date:            b.Date,
			Time:            b.Time,
			Guests:          b.Guests,
			SpecialRequests: b.SpecialRequests,
		})
		if err != nil {
			logger.WarnErr(err, "failed to send booking confirmation", "booking_id", b.ID)
		}
	}()
}
