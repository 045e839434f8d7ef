package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"
)

// sends through an authenticated SMTP relay such as Gmail
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     mail.Address

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, user, password, fromName string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     mail.Address{Name: fromName, Address: user},
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Name() string {
	return "smtp"
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to, err := mail.ParseAddress(email.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}

	msg, err := s.buildMessage(to, email, time.Now())
	if err != nil {
		return err
	}

	addr := s.host + ":" + strconv.Itoa(s.port)
	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	if err := s.sendMail(addr, auth, s.from.Address, []string{to.Address}, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}

	return nil
}

// multipart/alternative with a text and an html part
func (s *SMTPSender) buildMessage(to *mail.Address, email Email, at time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", email.TextBody},
		{"text/html; charset=UTF-8", email.HTMLBody},
	}

	for _, p := range parts {
		if p.content == "" {
			continue
		}

		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create mime part: %w", err)
		}

		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("failed to write mime part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close mime writer: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", to.String())
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", at.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}
