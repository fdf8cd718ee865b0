// Package email sends transactional mail, including the magic-link message.
//
// EmailSender abstracts the provider. Two implementations are provided:
//   - the Postmark sender for production delivery;
//   - DevSender, which writes each message to a directory as HTML plus JSON
//     metadata instead of sending it.
//
// MagicLinkMailer renders the sign-in message from an embedded html/template
// and hands it to a sender:
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	mailer, err := email.NewMagicLinkMailer(sender, cfg.MagicLinkBaseURL)
//	if err != nil {
//	    return err
//	}
//	err = mailer.SendMagicLink(ctx, "user@example.com", token, expiresAt)
//
// All errors wrap ErrInvalidConfig, ErrInvalidMessage or ErrDeliveryFailed
// and can be checked with errors.Is.
package email
