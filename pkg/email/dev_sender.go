package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DevSender is an EmailSender for local development. Every message becomes
// two files in dir: the HTML body for previewing in a browser and a JSON
// envelope with the recipient, subject and text body.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender returns a DevSender writing to dir. The directory is created
// on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type devEnvelope struct {
	SentAt   time.Time `json:"sent_at"`
	SendTo   string    `json:"send_to"`
	Subject  string    `json:"subject"`
	Tag      string    `json:"tag,omitempty"`
	BodyText string    `json:"body_text,omitempty"`
}

// SendEmail writes params to disk.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	sentAt := d.now().UTC()
	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	stem := filepath.Join(d.dir, sentAt.Format("20060102T150405.000000000")+"-"+fileLabel(label))

	envelope, err := json.MarshalIndent(devEnvelope{
		SentAt:   sentAt,
		SendTo:   params.SendTo,
		Subject:  params.Subject,
		Tag:      params.Tag,
		BodyText: params.BodyText,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	for path, data := range map[string][]byte{
		stem + ".html": []byte(params.BodyHTML),
		stem + ".json": envelope,
	} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrDeliveryFailed, filepath.Base(path), err)
		}
	}
	return nil
}

// fileLabel turns s into a lowercase file name fragment of at most 64 bytes.
func fileLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('_')
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		return "message"
	}
	return b.String()
}
