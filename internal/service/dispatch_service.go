package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staffportal/internal/model"
	"staffportal/internal/mq"
	"staffportal/internal/provider"
	"staffportal/pkg/metrics"
)

type SmsLogStore interface {
	Insert(ctx context.Context, l *model.SmsLog) error
}

type EmailLogStore interface {
	Insert(ctx context.Context, l *model.EmailLog) error
}

type WebMessageStore interface {
	Insert(ctx context.Context, m *model.WebAPIMessage) error
}

type SessionChecker interface {
	FindValid(ctx context.Context, token string) (*model.SessionUser, error)
}

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// DispatchService fans a payload out to every recipient of a dispatch,
// aggregates the settled results and writes exactly one log row. Provider
// failures are captured per recipient and never abort sibling attempts.
type DispatchService struct {
	sms         provider.SMSSender
	email       provider.EmailSender
	smsLogs     SmsLogStore
	emailLogs   EmailLogStore
	webMessages WebMessageStore
	sessions    SessionChecker
	events      EventPublisher
	logger      *zap.Logger
}

func NewDispatchService(
	sms provider.SMSSender,
	email provider.EmailSender,
	smsLogs SmsLogStore,
	emailLogs EmailLogStore,
	webMessages WebMessageStore,
	sessions SessionChecker,
	events EventPublisher,
	logger *zap.Logger,
) *DispatchService {
	return &DispatchService{
		sms:         sms,
		email:       email,
		smsLogs:     smsLogs,
		emailLogs:   emailLogs,
		webMessages: webMessages,
		sessions:    sessions,
		events:      events,
		logger:      logger,
	}
}

// DispatchSMS sends one text message to every recipient and returns the
// per-recipient results positionally matching the recipient list.
func (s *DispatchService) DispatchSMS(ctx context.Context, sess *model.SessionUser, message string, recipients []model.Recipient) ([]model.RecipientResult, string, error) {
	if sess == nil {
		return nil, "", ErrUnauthorized
	}
	if len(recipients) == 0 {
		return nil, "", ErrNoRecipients
	}

	addresses := make([]string, len(recipients))
	for i, r := range recipients {
		addresses[i] = r.ContactNumber
	}

	results := s.fanOut(ctx, "sms", addresses, func(ctx context.Context, to string) (string, error) {
		return s.sms.Send(ctx, to, message)
	})
	status := aggregateStatus(results)

	// The session is re-resolved before the write so the log row's owner is
	// current. A session expiring mid-dispatch fails the whole request with
	// no log row written.
	owner, err := s.sessions.FindValid(ctx, sess.Session.Token)
	if err != nil {
		return nil, "", fmt.Errorf("resolve log owner: %w", err)
	}
	// A session gone by now is an infrastructure fault of this request, not
	// an authorization failure of the caller.
	if owner == nil {
		return nil, "", errors.New("resolve log owner: session no longer valid")
	}

	log := &model.SmsLog{
		Message:    message,
		Recipients: addresses,
		Status:     status,
		MessageIDs: successfulIDs(results),
		Error:      joinedErrors(results),
		UserID:     owner.User.ID,
	}
	if err := s.smsLogs.Insert(ctx, log); err != nil {
		return nil, "", fmt.Errorf("insert sms log: %w", err)
	}

	s.finishDispatch("sms", fmt.Sprintf("%d", log.ID), status, len(addresses), owner.User.ID)
	return results, status, nil
}

// DispatchEmail sends one email to every recipient and returns the
// per-recipient results positionally matching the recipient list.
func (s *DispatchService) DispatchEmail(ctx context.Context, sess *model.SessionUser, subject, html string, attachments []provider.Attachment, recipients []model.Recipient) ([]model.RecipientResult, string, error) {
	if sess == nil {
		return nil, "", ErrUnauthorized
	}
	if len(recipients) == 0 {
		return nil, "", ErrNoRecipients
	}

	addresses := make([]string, len(recipients))
	for i, r := range recipients {
		addresses[i] = r.Email
	}

	results := s.fanOut(ctx, "email", addresses, func(ctx context.Context, to string) (string, error) {
		return s.email.Send(ctx, to, subject, html, attachments)
	})
	status := aggregateStatus(results)

	owner, err := s.sessions.FindValid(ctx, sess.Session.Token)
	if err != nil {
		return nil, "", fmt.Errorf("resolve log owner: %w", err)
	}
	if owner == nil {
		return nil, "", errors.New("resolve log owner: session no longer valid")
	}

	log := &model.EmailLog{
		Subject:    subject,
		Message:    html,
		Recipients: addresses,
		Status:     status,
		MessageID:  firstSuccessfulID(results),
		Error:      joinedErrors(results),
		UserID:     owner.User.ID,
	}
	if names := attachmentNames(attachments); len(names) > 0 {
		log.Attachments = &model.AttachmentFiles{Files: names}
	}
	if err := s.emailLogs.Insert(ctx, log); err != nil {
		return nil, "", fmt.Errorf("insert email log: %w", err)
	}

	s.finishDispatch("email", fmt.Sprintf("%d", log.ID), status, len(addresses), owner.User.ID)
	return results, status, nil
}

// WebMessageInput is the payload of the web channel: published content, not
// a recipient-addressed delivery.
type WebMessageInput struct {
	Title       string
	Content     string
	Priority    string
	Type        string
	ExpiryDate  *time.Time
	IsPublished bool
}

// PublishWeb creates a single published-content record; there is no fan-out
// and no per-recipient concept on this channel.
func (s *DispatchService) PublishWeb(ctx context.Context, sess *model.SessionUser, in WebMessageInput) (*model.WebAPIMessage, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if in.Title == "" || in.Content == "" || in.Priority == "" {
		return nil, ErrMissingFields
	}
	switch in.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		return nil, ErrInvalidPriority
	}

	msgType := in.Type
	if msgType == "" {
		msgType = "web"
	}

	msg := &model.WebAPIMessage{
		ID:          uuid.NewString(),
		Type:        msgType,
		Title:       in.Title,
		Content:     in.Content,
		Priority:    in.Priority,
		ExpiryDate:  in.ExpiryDate,
		IsPublished: in.IsPublished,
		UserID:      sess.User.ID,
	}
	if err := s.webMessages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert web message: %w", err)
	}

	s.finishDispatch("web", msg.ID, model.StatusSuccess, 0, sess.User.ID)
	return msg, nil
}

// fanOut issues one concurrent provider call per address and blocks until
// every attempt settles. Each goroutine writes only its own result slot;
// there is no short-circuit, no retry and no bound on width.
func (s *DispatchService) fanOut(ctx context.Context, channel string, addresses []string, send func(ctx context.Context, to string) (string, error)) []model.RecipientResult {
	results := make([]model.RecipientResult, len(addresses))

	var wg sync.WaitGroup
	for i, addr := range addresses {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()

			start := time.Now()
			id, err := send(ctx, addr)
			if err != nil {
				metrics.RecordProviderSend(channel, "error", time.Since(start))
				metrics.RecordRecipientAttempt(channel, false)
				s.logger.Warn("delivery attempt failed",
					zap.String("channel", channel),
					zap.String("recipient", addr),
					zap.Error(err),
				)
				results[i] = model.RecipientResult{Recipient: addr, Error: err.Error()}
				return
			}

			metrics.RecordProviderSend(channel, "ok", time.Since(start))
			metrics.RecordRecipientAttempt(channel, true)
			results[i] = model.RecipientResult{Recipient: addr, Success: true, MessageID: id}
		}(i, addr)
	}
	wg.Wait()

	return results
}

func (s *DispatchService) finishDispatch(channel, logID, status string, recipientCount, userID int) {
	metrics.RecordDispatch(channel, status)
	s.logger.Info("dispatch completed",
		zap.String("channel", channel),
		zap.String("log_id", logID),
		zap.String("status", status),
		zap.Int("recipients", recipientCount),
	)

	if s.events == nil {
		return
	}
	payload := mq.DispatchCompletedPayload{
		Channel:        channel,
		LogID:          logID,
		Status:         status,
		RecipientCount: recipientCount,
		UserID:         userID,
		CompletedAt:    time.Now(),
	}
	if err := s.events.Publish(mq.RoutingKeyDispatchCompleted, payload); err != nil {
		// events are a best-effort feed; a publish failure never fails the dispatch
		s.logger.Warn("dispatch event publish failed", zap.Error(err))
	}
}

// aggregateStatus is success only when every attempt succeeded. Anything
// else, including every attempt failing, is partial.
func aggregateStatus(results []model.RecipientResult) string {
	for _, r := range results {
		if !r.Success {
			return model.StatusPartial
		}
	}
	return model.StatusSuccess
}

func successfulIDs(results []model.RecipientResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.Success {
			ids = append(ids, r.MessageID)
		}
	}
	return ids
}

func firstSuccessfulID(results []model.RecipientResult) *string {
	for _, r := range results {
		if r.Success {
			id := r.MessageID
			return &id
		}
	}
	return nil
}

func joinedErrors(results []model.RecipientResult) *string {
	var msgs []string
	for _, r := range results {
		if !r.Success {
			msgs = append(msgs, r.Error)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	joined := strings.Join(msgs, ", ")
	return &joined
}

func attachmentNames(attachments []provider.Attachment) []string {
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.Filename)
	}
	return names
}
