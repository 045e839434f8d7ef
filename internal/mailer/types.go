package mailer

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoRecipient = errors.New("recipient is required")

// one outgoing message. HTMLBody is required; TextBody is optional.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string

	// internal label for providers that track campaigns
	Name string
}

// delivers a single email
type Sender interface {
	Send(ctx context.Context, email Email) error
	Name() string
}

// non-2xx answer from an email API
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
