package sitesync

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const DefaultTitle = "Ravinteli Olkkari"

var (
	metaDescriptionRegex = regexp.MustCompile(`(?i)<meta name="description" content="([^"]+)"`)
	ogDescriptionRegex   = regexp.MustCompile(`(?i)<meta property="og:description" content="([^"]+)"`)
	titleRegex           = regexp.MustCompile(`(?i)<title>([^<]+)</title>`)
	phoneRegex           = regexp.MustCompile(`[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}`)

	strict = bluemonday.StrictPolicy()
)

// facts scraped from the public site
type Summary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phone       string `json:"phone,omitempty"`
}

// pulls title, description and the first phone number out of a page
func Extract(page string) Summary {
	s := Summary{Title: DefaultTitle}

	if m := metaDescriptionRegex.FindStringSubmatch(page); m != nil {
		s.Description = clean(m[1])
	} else if m := ogDescriptionRegex.FindStringSubmatch(page); m != nil {
		s.Description = clean(m[1])
	}

	if m := titleRegex.FindStringSubmatch(page); m != nil {
		if title := clean(m[1]); title != "" {
			s.Title = title
		}
	}

	s.Phone = strings.TrimSpace(phoneRegex.FindString(page))

	return s
}

// strips markup and decodes entities
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
