package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/olkkari/catalog"
)

const requestTimeout = 60 * time.Second

// error body returned by the API
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// talks to the olkkari REST API. token returns the current access token,
// or "" for anonymous calls.
type Client struct {
	endpoint   string
	httpClient *http.Client
	token      func() string
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		token:      func() string { return "" },
	}
}

// sets where the access token comes from
func (c *Client) UseToken(token func() string) {
	c.token = token
}

type sessionResponse struct {
	Session *identity.Session `json:"session"`
}

type profileResponse struct {
	Profile *identity.Profile `json:"profile"`
	Access  identity.Access   `json:"access"`
	Status  string            `json:"status"`
}

type chatRequest struct {
	Message        string        `json:"message"`
	History        []llm.Message `json:"history,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
	Model          string `json:"model"`
	ContextItems   int    `json:"context_items"`
}

type bookingsResponse struct {
	Bookings []bookings.Booking `json:"bookings"`
}

type membersResponse struct {
	Members []identity.Profile `json:"members"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	var resp sessionResponse
	body := map[string]string{"email": email, "password": password}

	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", body, &resp); err != nil {
		return nil, err
	}

	return resp.Session, nil
}

func (c *Client) SendMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/magic-link", "", map[string]string{"email": email}, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	var resp sessionResponse
	body := map[string]string{"refresh_token": refreshToken}

	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", "", body, &resp); err != nil {
		return nil, err
	}

	return resp.Session, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", accessToken, nil, nil)
}

// implements identity.ProfileFetcher against GET /profile. the server
// answers for the token's user, so userID only guards against a token
// that changed underneath us.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*identity.Profile, error) {
	var resp profileResponse

	err := c.do(ctx, http.MethodGet, "/api/v1/profile", c.token(), nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, identity.ErrProfileNotFound
	}

	if err != nil {
		return nil, err
	}

	if resp.Profile == nil {
		return nil, identity.ErrProfileNotFound
	}

	if resp.Profile.ID != userID {
		return nil, fmt.Errorf("profile belongs to %s, expected %s", resp.Profile.ID, userID)
	}

	return resp.Profile, nil
}

func (c *Client) Menu(ctx context.Context) ([]catalog.MenuItem, error) {
	var resp struct {
		Items []catalog.MenuItem `json:"items"`
	}

	err := c.do(ctx, http.MethodGet, "/api/v1/menu", "", nil, &resp)
	return resp.Items, err
}

func (c *Client) Events(ctx context.Context) ([]catalog.Event, error) {
	var resp struct {
		Events []catalog.Event `json:"events"`
	}

	err := c.do(ctx, http.MethodGet, "/api/v1/events", "", nil, &resp)
	return resp.Events, err
}

func (c *Client) Wines(ctx context.Context) ([]catalog.Wine, error) {
	var resp struct {
		Wines []catalog.Wine `json:"wines"`
	}

	err := c.do(ctx, http.MethodGet, "/api/v1/wines", "", nil, &resp)
	return resp.Wines, err
}

func (c *Client) Chat(ctx context.Context, req chatRequest) (*chatResponse, error) {
	var resp chatResponse

	if err := c.do(ctx, http.MethodPost, "/api/v1/concierge/chat", c.token(), req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Bookings(ctx context.Context) ([]bookings.Booking, error) {
	var resp bookingsResponse

	err := c.do(ctx, http.MethodGet, "/api/v1/bookings", c.token(), nil, &resp)
	return resp.Bookings, err
}

func (c *Client) CreateBooking(ctx context.Context, req bookings.CreateBookingRequest) (*bookings.Booking, error) {
	var b bookings.Booking

	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", c.token(), req, &b); err != nil {
		return nil, err
	}

	return &b, nil
}

func (c *Client) PendingMembers(ctx context.Context) ([]identity.Profile, error) {
	var resp membersResponse

	err := c.do(ctx, http.MethodGet, "/api/v1/admin/members?status=pending", c.token(), nil, &resp)
	return resp.Members, err
}

func (c *Client) ApproveMember(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/members/"+url.PathEscape(userID)+"/approve", c.token(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
