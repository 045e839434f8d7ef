package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const oneSignalBaseURL = "https://api.onesignal.com"

type OneSignalSender struct {
	appID    string
	apiKey   string
	fromName string
	baseURL  string
	client   *http.Client
}

type oneSignalRequest struct {
	AppID         string   `json:"app_id"`
	EmailSubject  string   `json:"email_subject"`
	EmailBody     string   `json:"email_body"`
	EmailFromName string   `json:"email_from_name"`
	EmailTo       []string `json:"email_to"`
	Name          string   `json:"name"`
}

type oneSignalResponse struct {
	ID     string `json:"id"`
	Errors any    `json:"errors"`
}

func NewOneSignalSender(appID, apiKey, fromName string) *OneSignalSender {
	return &OneSignalSender{
		appID:    appID,
		apiKey:   apiKey,
		fromName: fromName,
		baseURL:  oneSignalBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *OneSignalSender) Name() string {
	return "onesignal"
}

func (s *OneSignalSender) Send(ctx context.Context, email Email) error {
	name := email.Name
	if name == "" {
		name = "Member Email"
	}

	payload, err := json.Marshal(oneSignalRequest{
		AppID:         s.appID,
		EmailSubject:  email.Subject,
		EmailBody:     email.HTMLBody,
		EmailFromName: s.fromName,
		EmailTo:       []string{email.To},
		Name:          name,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/notifications?c=email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Key "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Provider: s.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	// onesignal reports some rejections with a 200 and an errors field
	var result oneSignalResponse
	if err := json.Unmarshal(body, &result); err == nil && result.Errors != nil {
		return &APIError{Provider: s.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}
