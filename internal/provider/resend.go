package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"

	"staffportal/config"
)

// ResendEmail sends HTML email through the Resend API.
type ResendEmail struct {
	client *resend.Client
	from   string
}

// NewResendEmail refuses to construct a client with incomplete credentials so
// that misconfiguration surfaces at startup, not on the first dispatch.
func NewResendEmail(cfg config.ResendConfig) (*ResendEmail, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing RESEND_API_KEY")
	}
	if cfg.FromEmail == "" || cfg.FromName == "" {
		return nil, errors.New("missing Resend sender identity: from_email and from_name are required")
	}

	return &ResendEmail{
		client: resend.NewClient(cfg.APIKey),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}, nil
}

func (r *ResendEmail) Send(ctx context.Context, to, subject, html string, attachments []Attachment) (string, error) {
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	for _, a := range attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
