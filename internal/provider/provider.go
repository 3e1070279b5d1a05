// Package provider wraps the external delivery services. Each sender returns
// the provider-assigned message identifier, or an error with a human-readable
// reason; callers decide what a failure means for the dispatch as a whole.
package provider

import "context"

type Attachment struct {
	Filename string
	Content  []byte
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, html string, attachments []Attachment) (string, error)
}
