package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/mailer"
	"codeberg.org/olkkari/server/internal/receipts"
	ws "codeberg.org/olkkari/server/internal/websocket"
	"codeberg.org/olkkari/server/olkkari/bookings"
)

const (
	bookingID = "5f0c7a3e-2b1d-4c8e-9f3a-1d2e3f4a5b6c"
	ownerID   = "u1"
)

type mockStore struct {
	CreateFunc      func(ctx context.Context, userID string, req bookings.CreateBookingRequest) (*bookings.Booking, error)
	GetByIDFunc     func(ctx context.Context, id string) (*bookings.Booking, error)
	ListForUserFunc func(ctx context.Context, userID string, limit, offset int) ([]bookings.Booking, error)
}

func (m *mockStore) Create(ctx context.Context, userID string, req bookings.CreateBookingRequest) (*bookings.Booking, error) {
	return m.CreateFunc(ctx, userID, req)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*bookings.Booking, error) {
	if m.GetByIDFunc == nil {
		return &bookings.Booking{ID: id, UserID: ownerID}, nil
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]bookings.Booking, error) {
	return m.ListForUserFunc(ctx, userID, limit, offset)
}

type mockReceipts struct {
	UploadFunc  func(ctx context.Context, userID, bookingID string, image []byte, contentType string) (string, error)
	ExtractFunc func(ctx context.Context, receiptURL, bookingID string) (*receipts.ReceiptData, error)
}

func (m *mockReceipts) Upload(ctx context.Context, userID, bookingID string, image []byte, contentType string) (string, error) {
	return m.UploadFunc(ctx, userID, bookingID, image, contentType)
}

func (m *mockReceipts) Extract(ctx context.Context, receiptURL, bookingID string) (*receipts.ReceiptData, error) {
	return m.ExtractFunc(ctx, receiptURL, bookingID)
}

type notifierFunc func(ctx context.Context, to string, b mailer.BookingConfirmation) error

func (f notifierFunc) SendBookingConfirmation(ctx context.Context, to string, b mailer.BookingConfirmation) error {
	return f(ctx, to, b)
}

type mockEvents struct {
	types    []string
	payloads []any
}

func (m *mockEvents) Publish(msgType string, payload any) {
	m.types = append(m.types, msgType)
	m.payloads = append(m.payloads, payload)
}

func approvedProfile(role identity.Role) identity.ProfileFetcherFunc {
	return func(ctx context.Context, userID string) (*identity.Profile, error) {
		return &identity.Profile{ID: userID, Role: role, IsApproved: role == identity.RoleMember}, nil
	}
}

func setup(t *testing.T, deps Deps, userID string) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "bookings-test-secret")

	if deps.Resolver == nil {
		deps.Resolver = identity.NewResolver(approvedProfile(identity.RoleMember))
	}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), deps, nil)

	token, err := auth.GenerateJWT(userID, "aino@example.com", nil)
	require.NoError(t, err)

	return r, token
}

func do(r *gin.Engine, token, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateBooking_SendsConfirmation(t *testing.T) {
	sent := make(chan mailer.BookingConfirmation, 1)

	store := &mockStore{
		CreateFunc: func(ctx context.Context, userID string, req bookings.CreateBookingRequest) (*bookings.Booking, error) {
			assert.Equal(t, ownerID, userID)
			return &bookings.Booking{
				ID: bookingID, UserID: userID, CustomerName: req.CustomerName, Email: req.Email,
				Guests: req.Guests, Date: req.Date, Time: req.Time, Status: bookings.StatusPending,
			}, nil
		},
	}
	notifier := notifierFunc(func(ctx context.Context, to string, b mailer.BookingConfirmation) error {
		assert.Equal(t, "aino@example.com", to)
		sent <- b
		return nil
	})

	events := &mockEvents{}
	r, token := setup(t, Deps{Store: store, Notifier: notifier, Events: events}, ownerID)

	body := `{"customer_name":" Aino ","email":"aino@example.com","guests":4,"date":"2026-11-20","time":"19:30"}`
	w := do(r, token, http.MethodPost, "/api/v1/bookings", "application/json", []byte(body))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{ws.TypeBookingCreated}, events.types)
	assert.Equal(t, ws.BookingCreatedPayload{
		BookingID: bookingID, CustomerName: "Aino", Guests: 4, Date: "2026-11-20", Time: "19:30",
	}, events.payloads[0])

	select {
	case b := <-sent:
		assert.Equal(t, "Aino", b.CustomerName)
		assert.Equal(t, 4, b.Guests)
	case <-time.After(time.Second):
		t.Fatal("confirmation was not sent")
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	store := &mockStore{
		CreateFunc: func(ctx context.Context, userID string, req bookings.CreateBookingRequest) (*bookings.Booking, error) {
			t.Fatal("store must not be called for invalid input")
			return nil, nil
		},
	}
	r, token := setup(t, Deps{Store: store}, ownerID)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"customer_name":"Aino","guests":2,"date":"2026-11-20","time":"19:30"}`},
		{"blank name", `{"customer_name":"   ","email":"aino@example.com","guests":2,"date":"2026-11-20","time":"19:30"}`},
		{"bad date", `{"customer_name":"Aino","email":"aino@example.com","guests":2,"date":"20.11.2026","time":"19:30"}`},
		{"zero guests", `{"customer_name":"Aino","email":"aino@example.com","guests":0,"date":"2026-11-20","time":"19:30"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, token, http.MethodPost, "/api/v1/bookings", "application/json", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBookings_RequireApproval(t *testing.T) {
	pending := identity.ProfileFetcherFunc(func(ctx context.Context, userID string) (*identity.Profile, error) {
		return &identity.Profile{ID: userID, Role: identity.RoleMember}, nil
	})

	store := &mockStore{
		ListForUserFunc: func(ctx context.Context, userID string, limit, offset int) ([]bookings.Booking, error) {
			t.Fatal("store must not be called for pending members")
			return nil, nil
		},
	}
	r, token := setup(t, Deps{Store: store, Resolver: identity.NewResolver(pending)}, ownerID)

	w := do(r, token, http.MethodGet, "/api/v1/bookings", "", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "approval_pending", errorCode(t, w))
}

func TestListBookings_Pagination(t *testing.T) {
	store := &mockStore{
		ListForUserFunc: func(ctx context.Context, userID string, limit, offset int) ([]bookings.Booking, error) {
			assert.Equal(t, 2, limit)
			assert.Equal(t, 4, offset)
			return []bookings.Booking{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	r, token := setup(t, Deps{Store: store}, ownerID)

	w := do(r, token, http.MethodGet, "/api/v1/bookings?limit=2&offset=4", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp BookingsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 2)
	assert.True(t, resp.Pagination.HasMore)
}

func TestGetBooking_Ownership(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		role     identity.Role
		expected int
	}{
		{"owner", ownerID, identity.RoleMember, http.StatusOK},
		{"other member", "u2", identity.RoleMember, http.StatusNotFound},
		{"host", "u3", identity.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Deps{
				Store:    &mockStore{},
				Resolver: identity.NewResolver(approvedProfile(tt.role)),
			}
			r, token := setup(t, deps, tt.caller)

			w := do(r, token, http.MethodGet, "/api/v1/bookings/"+bookingID, "", nil)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestGetBooking_InvalidIDIsNotFound(t *testing.T) {
	r, token := setup(t, Deps{Store: &mockStore{}}, ownerID)

	w := do(r, token, http.MethodGet, "/api/v1/bookings/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadReceipt_Multipart(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0}

	rec := &mockReceipts{
		UploadFunc: func(ctx context.Context, userID, id string, got []byte, contentType string) (string, error) {
			assert.Equal(t, ownerID, userID)
			assert.Equal(t, bookingID, id)
			assert.Equal(t, image, got)
			assert.Equal(t, "image/jpeg", contentType)
			return "https://cdn.example.com/receipts/u1/x.jpg", nil
		},
	}
	r, token := setup(t, Deps{Store: &mockStore{}, Receipts: rec}, ownerID)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="receipt"; filename="r.jpg"`}
	header["Content-Type"] = []string{"image/jpeg"}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt", mw.FormDataContentType(), body.Bytes())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp UploadReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn.example.com/receipts/u1/x.jpg", resp.ReceiptURL)
}

func TestUploadReceipt_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"booking missing", fmt.Errorf("upload: %w", receipts.ErrBookingNotFound), http.StatusNotFound},
		{"wrong content type", &receipts.UploadError{Kind: receipts.UploadInvalidContent}, http.StatusBadRequest},
		{"too large", &receipts.UploadError{Kind: receipts.UploadTooLarge}, http.StatusRequestEntityTooLarge},
		{"storage down", &receipts.UploadError{Kind: receipts.UploadStorage, Err: errors.New("503")}, http.StatusBadGateway},
		{"persist failed", &receipts.UploadError{Kind: receipts.UploadPersist, Err: errors.New("conn reset")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockReceipts{
				UploadFunc: func(ctx context.Context, userID, id string, image []byte, contentType string) (string, error) {
					return "", tt.err
				},
			}
			r, token := setup(t, Deps{Store: &mockStore{}, Receipts: rec}, ownerID)

			w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt", "image/png", []byte("png"))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestExtractReceipt(t *testing.T) {
	const url = "https://cdn.example.com/receipts/u1/x.jpg"

	rec := &mockReceipts{
		ExtractFunc: func(ctx context.Context, receiptURL, id string) (*receipts.ReceiptData, error) {
			assert.Equal(t, url, receiptURL)
			assert.Equal(t, bookingID, id)
			return &receipts.ReceiptData{Vendor: "Olkkari", Total: 42.5, Currency: "EUR"}, nil
		},
	}
	events := &mockEvents{}
	r, token := setup(t, Deps{Store: &mockStore{}, Receipts: rec, Events: events}, ownerID)

	w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt/extract", "application/json",
		[]byte(`{"receipt_url":"`+url+`"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{ws.ReceiptExtractedPayload{BookingID: bookingID, Vendor: "Olkkari", Total: 42.5, Currency: "EUR"}}, events.payloads)

	var resp ExtractReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ReceiptData)
	assert.Equal(t, "Olkkari", resp.ReceiptData.Vendor)
}

func TestExtractReceipt_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		code     string
	}{
		{"mismatch", receipts.ErrReceiptMismatch, http.StatusConflict, "conflict"},
		{"in flight", receipts.ErrExtractionInFlight, http.StatusConflict, "conflict"},
		{"fetch failed", &receipts.ExtractionError{Kind: receipts.KindFetchImage, Err: errors.New("404")}, http.StatusBadGateway, "receipt_extraction_failed"},
		{"model down", &receipts.ExtractionError{Kind: receipts.KindServiceUnavailable, Err: errors.New("timeout")}, http.StatusBadGateway, "receipt_extraction_failed"},
		{"garbled output", &receipts.ExtractionError{Kind: receipts.KindMalformedResponse, Err: errors.New("bad json"), Raw: "not json"}, http.StatusUnprocessableEntity, "receipt_extraction_failed"},
		{"persist failed", &receipts.ExtractionError{Kind: receipts.KindPersist, Err: errors.New("conn reset")}, http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockReceipts{
				ExtractFunc: func(ctx context.Context, receiptURL, id string) (*receipts.ReceiptData, error) {
					return nil, tt.err
				},
			}
			r, token := setup(t, Deps{Store: &mockStore{}, Receipts: rec}, ownerID)

			w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt/extract", "application/json",
				[]byte(`{"receipt_url":"https://cdn.example.com/r.jpg"}`))
			assert.Equal(t, tt.expected, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestExtractReceipt_NotOwner(t *testing.T) {
	rec := &mockReceipts{
		ExtractFunc: func(ctx context.Context, receiptURL, id string) (*receipts.ReceiptData, error) {
			t.Fatal("extraction must not run for another member's booking")
			return nil, nil
		},
	}
	r, token := setup(t, Deps{Store: &mockStore{}, Receipts: rec}, "u2")

	w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt/extract", "application/json",
		[]byte(`{"receipt_url":"https://cdn.example.com/r.jpg"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractReceipt_RequiresURL(t *testing.T) {
	r, token := setup(t, Deps{Store: &mockStore{}, Receipts: &mockReceipts{}}, ownerID)

	w := do(r, token, http.MethodPost, "/api/v1/bookings/"+bookingID+"/receipt/extract", "application/json",
		[]byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
