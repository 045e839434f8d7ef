package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/olkkari/server/internal/identity"
)

func New(projectURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.token(ctx, "password", body)
}

// sends a one-time sign-in link; new addresses get an account
func (c *Client) SignInWithMagicLink(ctx context.Context, email, redirectURL string) error {
	path := "/otp"
	if redirectURL != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectURL)
	}

	body := map[string]any{"email": email, "create_user": true}

	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.token(ctx, "refresh_token", body)
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	var user identity.User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// updates the signed-in user. metadata keys are merged by the provider.
func (c *Client) UpdateUser(ctx context.Context, accessToken string, update UserUpdate) (*identity.User, error) {
	var user identity.User
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, update, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// revokes the refresh tokens of the session
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) token(ctx context.Context, grantType string, body any) (*identity.Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type="+grantType, "", body, &resp); err != nil {
		return nil, err
	}

	return resp.session(time.Now()), nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Msg = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
