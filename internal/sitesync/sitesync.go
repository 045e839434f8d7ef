package sitesync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeberg.org/olkkari/server/internal/logger"
)

const (
	DefaultURL = "https://ravinteliolkkari.fi/"

	CategorySummary = "Website Auto-Summary"
	CategoryTitle   = "Website Title"
	CategoryContact = "Contact Info (Auto)"

	maxPageBytes = 5 << 20
)

// stores knowledge rows by category
type Writer interface {
	Put(ctx context.Context, category, content string) error
}

type Syncer struct {
	client *http.Client
	writer Writer
	now    func() time.Time
}

type Update struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

type Result struct {
	URL      string    `json:"url"`
	SyncedAt time.Time `json:"synced_at"`
	Summary  Summary   `json:"summary"`
	Updates  []Update  `json:"updates"`
	Failed   []string  `json:"failed,omitempty"`
}

func New(writer Writer, timeout time.Duration) *Syncer {
	return &Syncer{
		client: &http.Client{Timeout: timeout},
		writer: writer,
		now:    time.Now,
	}
}

// fetches url and upserts its summary rows. with dryRun nothing is written.
// a failed row is logged and reported; the others are still written.
func (s *Syncer) Sync(ctx context.Context, url string, dryRun bool) (*Result, error) {
	if url == "" {
		url = DefaultURL
	}

	logger.Info("fetching website content", "url", url)

	page, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	summary := Extract(page)

	result := &Result{
		URL:      url,
		SyncedAt: now,
		Summary:  summary,
		Updates:  Updates(url, now, summary),
	}

	if dryRun {
		return result, nil
	}

	for _, u := range result.Updates {
		if err := s.writer.Put(ctx, u.Category, u.Content); err != nil {
			logger.ErrorErr(err, "failed to upsert website knowledge", "category", u.Category)
			result.Failed = append(result.Failed, u.Category)
		}
	}

	if len(result.Failed) == len(result.Updates) {
		return result, fmt.Errorf("no website knowledge was stored")
	}

	logger.Info("website context synced", "url", url, "rows", len(result.Updates)-len(result.Failed))

	return result, nil
}

// knowledge rows for a scraped summary
func Updates(url string, at time.Time, s Summary) []Update {
	updates := []Update{
		{
			Category: CategorySummary,
			Content:  fmt.Sprintf("Auto-synced from %s on %s. %s", url, at.Format(time.RFC3339), s.Description),
		},
		{Category: CategoryTitle, Content: s.Title},
	}

	if s.Phone != "" {
		updates = append(updates, Update{Category: CategoryContact, Content: "Contact Phone: " + s.Phone})
	}

	return updates
}

func (s *Syncer) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "olkkari-sitesync/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch website: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch website: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read website: %w", err)
	}

	return string(body), nil
}
