package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var (
	magicLinkHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/magic_link.html"))
	magicLinkText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/magic_link.txt"))
)

const magicLinkTag = "magic-link"

// MagicLinkMailer renders and sends sign-in links.
type MagicLinkMailer struct {
	sender  EmailSender
	baseURL *url.URL
	product string
	now     func() time.Time
}

// MailerOption configures a MagicLinkMailer.
type MailerOption func(*MagicLinkMailer)

// WithProductName sets the product name shown in the subject and body.
func WithProductName(name string) MailerOption {
	return func(m *MagicLinkMailer) {
		if name != "" {
			m.product = name
		}
	}
}

// WithMailerClock overrides the time source used to render the validity period.
func WithMailerClock(now func() time.Time) MailerOption {
	return func(m *MagicLinkMailer) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMagicLinkMailer creates a mailer whose links point at baseURL.
func NewMagicLinkMailer(sender EmailSender, baseURL string, opts ...MailerOption) (*MagicLinkMailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: MagicLinkBaseURL must be an absolute URL", ErrInvalidConfig)
	}

	m := &MagicLinkMailer{
		sender:  sender,
		baseURL: u,
		product: "linkauth",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// LinkURL returns the sign-in URL for token. Existing query parameters are kept.
func (m *MagicLinkMailer) LinkURL(token string) string {
	u := *m.baseURL
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// SendMagicLink emails the sign-in link for token to addr.
func (m *MagicLinkMailer) SendMagicLink(ctx context.Context, addr, token string, expiresAt time.Time) error {
	data := struct {
		Product  string
		URL      string
		ValidFor string
	}{
		Product:  m.product,
		URL:      m.LinkURL(token),
		ValidFor: humanizeDuration(expiresAt.Sub(m.now())),
	}

	var html, text bytes.Buffer
	if err := magicLinkHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("%w: render html: %v", ErrDeliveryFailed, err)
	}
	if err := magicLinkText.Execute(&text, data); err != nil {
		return fmt.Errorf("%w: render text: %v", ErrDeliveryFailed, err)
	}

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   addr,
		Subject:  "Sign in to " + m.product,
		BodyHTML: html.String(),
		BodyText: text.String(),
		Tag:      magicLinkTag,
	})
}

func humanizeDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return plural(hours, "hour")
	}
	return strings.Join([]string{plural(hours, "hour"), plural(rest, "minute")}, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
