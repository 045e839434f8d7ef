package admin

import (
	"context"

	"codeberg.org/olkkari/server/api/rest/pagination"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/sitesync"
	"codeberg.org/olkkari/server/olkkari/bookings"
)

type BookingStore interface {
	ListAll(ctx context.Context, limit, offset int) ([]bookings.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, status string) (*bookings.Booking, error)
}

type MemberStore interface {
	ListPending(ctx context.Context) ([]identity.Profile, error)
	ListAll(ctx context.Context) ([]identity.Profile, error)
	Approve(ctx context.Context, userID string) (*identity.Profile, error)
}

type Mailer interface {
	SendApproval(ctx context.Context, to, fullName string) error
	SendBranded(ctx context.Context, to, subject, htmlBody, name string) error
	Provider() string
}

type SiteSyncer interface {
	Sync(ctx context.Context, url string, dryRun bool) (*sitesync.Result, error)
}

// host live feed
type Events interface {
	Publish(msgType string, payload any)
}

type Deps struct {
	Bookings BookingStore
	Members  MemberStore
	Mailer   Mailer
	Syncer   SiteSyncer
	Events   Events // optional
	Resolver *identity.Resolver
	SiteURL  string
}

type BookingsResponse struct {
	Bookings   []bookings.Booking `json:"bookings"`
	Pagination pagination.Meta    `json:"pagination"`
}

type MembersResponse struct {
	Members []identity.Profile `json:"members"`
}

type ApproveResponse struct {
	Profile  *identity.Profile `json:"profile"`
	Notified bool              `json:"notified"`
}

type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	HTML    string `json:"html" binding:"required,max=50000"`
	Name    string `json:"name" binding:"max=100"`
}

type SendEmailResponse struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider"`
}

type SyncWebsiteRequest struct {
	URL    string `json:"url" binding:"omitempty,url"`
	DryRun bool   `json:"dry_run"`
}
