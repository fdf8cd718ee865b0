package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/linkauth/pkg/validator"
)

// PostmarkSender delivers messages through the Postmark transactional API.
type PostmarkSender struct {
	api     *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkClient validates cfg and returns a Postmark-backed EmailSender.
func NewPostmarkClient(cfg Config) (*PostmarkSender, error) {
	switch {
	case cfg.PostmarkServerToken == "":
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is empty", ErrInvalidConfig)
	case !validator.IsEmail(cfg.SenderEmail):
		return nil, fmt.Errorf("%w: SENDER_EMAIL %q is not an email address", ErrInvalidConfig, cfg.SenderEmail)
	case cfg.SupportEmail != "" && !validator.IsEmail(cfg.SupportEmail):
		return nil, fmt.Errorf("%w: SUPPORT_EMAIL %q is not an email address", ErrInvalidConfig, cfg.SupportEmail)
	}

	return &PostmarkSender{
		api:     postmark.NewClient(cfg.PostmarkServerToken, ""),
		from:    cfg.SenderEmail,
		replyTo: cfg.SupportEmail,
	}, nil
}

// SendEmail sends params. Open and link tracking stay off so the sign-in
// URL reaches the recipient unmodified.
func (s *PostmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	res, err := s.api.SendEmail(ctx, postmark.Email{
		From:       s.from,
		To:         params.SendTo,
		ReplyTo:    s.replyTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TextBody:   params.BodyText,
		TrackOpens: false,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrDeliveryFailed, res.ErrorCode, res.Message)
	}
	return nil
}
