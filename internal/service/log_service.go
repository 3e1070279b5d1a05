package service

import (
	"context"
	"fmt"
	"time"

	"staffportal/internal/model"
)

// logListLimit caps every log read at the most recent entries.
const logListLimit = 100

// LogScope selects whether a reader sees every user's dispatches or only
// their own. The scoped form additionally resolves recipient details.
type LogScope string

const (
	ScopeAll  LogScope = "all"
	ScopeMine LogScope = "mine"
)

type SmsLogReader interface {
	List(ctx context.Context, limit int) ([]*model.SmsLogEntry, error)
	ListByUser(ctx context.Context, userID, limit int) ([]*model.SmsLogEntry, error)
}

type EmailLogReader interface {
	List(ctx context.Context, limit int) ([]*model.EmailLogEntry, error)
	ListByUser(ctx context.Context, userID, limit int) ([]*model.EmailLogEntry, error)
}

type WebMessageReader interface {
	List(ctx context.Context, limit int) ([]*model.WebAPIMessageEntry, error)
	ListByUser(ctx context.Context, userID, limit int) ([]*model.WebAPIMessageEntry, error)
	ListPublished(ctx context.Context, msgType string, limit int) ([]*model.WebAPIMessage, error)
}

type MemberResolver interface {
	FindByContactNumbers(ctx context.Context, numbers []string) ([]model.Member, error)
	FindByEmails(ctx context.Context, emails []string) ([]model.Member, error)
}

// LogService reads dispatch logs for display. Recipient detail resolution
// is best-effort: a stored contact string with no current directory match
// is silently dropped from the detail list.
type LogService struct {
	smsLogs     SmsLogReader
	emailLogs   EmailLogReader
	webMessages WebMessageReader
	members     MemberResolver
}

func NewLogService(smsLogs SmsLogReader, emailLogs EmailLogReader, webMessages WebMessageReader, members MemberResolver) *LogService {
	return &LogService{
		smsLogs:     smsLogs,
		emailLogs:   emailLogs,
		webMessages: webMessages,
		members:     members,
	}
}

// ListSMS returns the most recent SMS dispatch logs, newest first.
func (s *LogService) ListSMS(ctx context.Context, scope LogScope, userID int) ([]*model.SmsLogEntry, error) {
	if scope != ScopeMine {
		return s.smsLogs.List(ctx, logListLimit)
	}

	entries, err := s.smsLogs.ListByUser(ctx, userID, logListLimit)
	if err != nil {
		return nil, err
	}

	details, err := s.contactDetails(ctx, collect(entries, func(e *model.SmsLogEntry) []string { return e.Recipients }))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.RecipientDetails = pick(details, e.Recipients)
	}
	return entries, nil
}

// ListEmail returns the most recent email dispatch logs, newest first.
func (s *LogService) ListEmail(ctx context.Context, scope LogScope, userID int) ([]*model.EmailLogEntry, error) {
	if scope != ScopeMine {
		return s.emailLogs.List(ctx, logListLimit)
	}

	entries, err := s.emailLogs.ListByUser(ctx, userID, logListLimit)
	if err != nil {
		return nil, err
	}

	details, err := s.emailDetails(ctx, collect(entries, func(e *model.EmailLogEntry) []string { return e.Recipients }))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.RecipientDetails = pick(details, e.Recipients)
	}
	return entries, nil
}

// ListWeb returns the most recent web message records, newest first. Web
// messages carry no recipients, so there is nothing to resolve.
func (s *LogService) ListWeb(ctx context.Context, scope LogScope, userID int) ([]*model.WebAPIMessageEntry, error) {
	if scope == ScopeMine {
		return s.webMessages.ListByUser(ctx, userID, logListLimit)
	}
	return s.webMessages.List(ctx, logListLimit)
}

// ListPublished returns web messages visible to readers: published and not
// expired. Rows are re-checked against the clock at response time.
func (s *LogService) ListPublished(ctx context.Context, msgType string, limit int) ([]*model.WebAPIMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > logListLimit {
		limit = logListLimit
	}
	messages, err := s.webMessages.ListPublished(ctx, msgType, limit)
	if err != nil {
		return nil, fmt.Errorf("list published messages: %w", err)
	}

	now := time.Now()
	visible := make([]*model.WebAPIMessage, 0, len(messages))
	for _, m := range messages {
		if m.Visible(now) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

func (s *LogService) contactDetails(ctx context.Context, numbers []string) (map[string]model.RecipientDetail, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	members, err := s.members.FindByContactNumbers(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	details := make(map[string]model.RecipientDetail, len(members))
	for _, m := range members {
		details[m.ContactNumber] = model.RecipientDetail{
			FirstName:     m.FirstName,
			LastName:      m.LastName,
			ContactNumber: m.ContactNumber,
		}
	}
	return details, nil
}

func (s *LogService) emailDetails(ctx context.Context, emails []string) (map[string]model.RecipientDetail, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	members, err := s.members.FindByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	details := make(map[string]model.RecipientDetail, len(members))
	for _, m := range members {
		details[m.Email] = model.RecipientDetail{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
		}
	}
	return details, nil
}

// collect gathers the unique recipient strings across a page of entries.
func collect[E any](entries []E, recipients func(E) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		for _, r := range recipients(e) {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// pick maps stored contact strings to resolved details, dropping misses.
func pick(details map[string]model.RecipientDetail, recipients []string) []model.RecipientDetail {
	out := make([]model.RecipientDetail, 0, len(recipients))
	for _, r := range recipients {
		if d, ok := details[r]; ok {
			out = append(out, d)
		}
	}
	return out
}
