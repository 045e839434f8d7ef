package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	layout = template.Must(template.New("layout").Parse(layoutHTML))
	ugc    = bluemonday.UGCPolicy()
)

type BookingConfirmation struct {
	CustomerName    string
	Date            string
	Time            string
	Guests          int
	SpecialRequests string
}

type layoutData struct {
	SiteName string
	Heading  string
	Body     template.HTML
}

// guest-facing confirmation of a table request
func BuildBookingConfirmation(siteName string, b BookingConfirmation) Email {
	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", b.CustomerName)
	fmt.Fprintf(&text, "We have received your table request for %d on %s at %s.\n", b.Guests, b.Date, b.Time)
	if b.SpecialRequests != "" {
		fmt.Fprintf(&text, "Special requests: %s\n", b.SpecialRequests)
	}
	text.WriteString("\nWe will confirm your booking shortly.\n")

	var body bytes.Buffer
	_ = bookingBody.Execute(&body, b)

	return Email{
		Subject:  fmt.Sprintf("Your table request at %s", siteName),
		TextBody: text.String(),
		HTMLBody: render(siteName, "Table request received", template.HTML(body.String())),
		Name:     "Booking Confirmation",
	}
}

// sent when an admin approves a membership
func BuildApproval(siteName, fullName, appURL string) Email {
	name := fullName
	if name == "" {
		name = "friend"
	}

	var body bytes.Buffer
	_ = approvalBody.Execute(&body, struct {
		Name   string
		AppURL string
	}{name, appURL})

	return Email{
		Subject:  fmt.Sprintf("Welcome to the %s Society", siteName),
		TextBody: fmt.Sprintf("Hello %s,\n\nYour membership has been approved. Sign in at %s to book a table.\n", name, appURL),
		HTMLBody: render(siteName, "Your membership is approved", template.HTML(body.String())),
		Name:     "Member Approval",
	}
}

// admin-authored message; the html body is sanitized before wrapping
func BuildBranded(siteName, subject, htmlBody string) Email {
	safe := ugc.Sanitize(htmlBody)

	return Email{
		Subject:  subject,
		TextBody: bluemonday.StrictPolicy().Sanitize(htmlBody),
		HTMLBody: render(siteName, subject, template.HTML(safe)), //nolint:gosec
	}
}

func render(siteName, heading string, body template.HTML) string {
	var buf bytes.Buffer
	_ = layout.Execute(&buf, layoutData{SiteName: siteName, Heading: heading, Body: body})
	return buf.String()
}

var bookingBody = template.Must(template.New("booking").Parse(`<p>Hello {{.CustomerName}},</p>
<p>We have received your table request for <strong>{{.Guests}}</strong> on <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong>.</p>
{{if .SpecialRequests}}<p>Special requests: {{.SpecialRequests}}</p>{{end}}
<p>We will confirm your booking shortly.</p>`))

var approvalBody = template.Must(template.New("approval").Parse(`<p>Hello {{.Name}},</p>
<p>Your membership has been approved. You can now book tables, upload receipts and collect loyalty points.</p>
<p><a href="{{.AppURL}}">Open the app</a></p>`))

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Heading}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Georgia, 'Times New Roman', serif; background-color: #f5f0e8;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 28px 32px; text-align: center; border-bottom: 1px solid #e8dfd0;">
              <h1 style="margin: 0; font-size: 22px; color: #8a6d3b;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; font-size: 16px; color: #3a3a3a; line-height: 1.5;">
              <h2 style="margin: 0 0 16px; font-size: 18px;">{{.Heading}}</h2>
              {{.Body}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
