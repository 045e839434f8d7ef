package receipts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// currency assumed when the model leaves it out
const DefaultCurrency = "EUR"

// prompt sent with every receipt image
const ExtractionPrompt = `Extract the following from this receipt image as JSON:
{
  "vendor": "string",
  "date": "YYYY-MM-DD",
  "items": [{"name": "string", "quantity": number, "price": number}],
  "tax": number,
  "total": number,
  "currency": "EUR"
}
Return only the JSON object.`

type rawReceipt struct {
	Vendor   *string     `json:"vendor"`
	Date     *string     `json:"date"`
	Items    *[]LineItem `json:"items"`
	Tax      Amount      `json:"tax"`
	Total    *Amount     `json:"total"`
	Currency string      `json:"currency"`
}

// parses a model answer into ReceiptData. markdown fences are stripped,
// then the remainder must be exactly one JSON object carrying at least
// vendor, items and total.
func ParseReceipt(raw string) (*ReceiptData, error) {
	body := StripFences(raw)
	if body == "" {
		return nil, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(body))

	var r rawReceipt
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid receipt json: %w", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid receipt json: trailing data after object")
	}

	switch {
	case r.Vendor == nil:
		return nil, errors.New("receipt json missing vendor")
	case r.Items == nil:
		return nil, errors.New("receipt json missing items")
	case r.Total == nil:
		return nil, errors.New("receipt json missing total")
	}

	data := &ReceiptData{
		Vendor:   strings.TrimSpace(*r.Vendor),
		Items:    *r.Items,
		Tax:      r.Tax,
		Total:    *r.Total,
		Currency: strings.ToUpper(strings.TrimSpace(r.Currency)),
	}

	if data.Currency == "" {
		data.Currency = DefaultCurrency
	}

	if r.Date != nil && *r.Date != "" {
		if _, err := time.Parse(time.DateOnly, *r.Date); err != nil {
			return nil, fmt.Errorf("receipt date %q is not YYYY-MM-DD", *r.Date)
		}
		data.Date = *r.Date
	}

	for i, item := range data.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("receipt item %d has no name", i)
		}
	}

	return data, nil
}

// removes a surrounding ```json ... ``` block if present
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
