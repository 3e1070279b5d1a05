package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffportal/internal/model"
	"staffportal/internal/provider"
)

type fakeSMS struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]string
}

func (f *fakeSMS) Send(ctx context.Context, to, body string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, to)
	f.mu.Unlock()
	if msg, ok := f.fail[to]; ok {
		return "", errors.New(msg)
	}
	return "SM-" + to, nil
}

type fakeEmail struct {
	mu          sync.Mutex
	fail        map[string]string
	attachments [][]provider.Attachment
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, html string, attachments []provider.Attachment) (string, error) {
	f.mu.Lock()
	f.attachments = append(f.attachments, attachments)
	f.mu.Unlock()
	if msg, ok := f.fail[to]; ok {
		return "", errors.New(msg)
	}
	return "EM-" + to, nil
}

type fakeSmsLogs struct {
	inserted []*model.SmsLog
}

func (f *fakeSmsLogs) Insert(ctx context.Context, l *model.SmsLog) error {
	l.ID = len(f.inserted) + 1
	l.CreatedAt = time.Now()
	f.inserted = append(f.inserted, l)
	return nil
}

type fakeEmailLogs struct {
	inserted []*model.EmailLog
}

func (f *fakeEmailLogs) Insert(ctx context.Context, l *model.EmailLog) error {
	l.ID = len(f.inserted) + 1
	l.CreatedAt = time.Now()
	f.inserted = append(f.inserted, l)
	return nil
}

type fakeWebMessages struct {
	inserted []*model.WebAPIMessage
}

func (f *fakeWebMessages) Insert(ctx context.Context, m *model.WebAPIMessage) error {
	m.CreatedAt = time.Now()
	f.inserted = append(f.inserted, m)
	return nil
}

type fakeSessionChecker struct {
	su  *model.SessionUser
	err error
}

func (f *fakeSessionChecker) FindValid(ctx context.Context, token string) (*model.SessionUser, error) {
	return f.su, f.err
}

type fakeEvents struct {
	mu     sync.Mutex
	keys   []string
	bodies []any
	err    error
}

func (f *fakeEvents) Publish(routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, routingKey)
	f.bodies = append(f.bodies, payload)
	return f.err
}

func testSession() *model.SessionUser {
	return &model.SessionUser{
		Session: model.Session{Token: "tok", UserID: 7, Expires: time.Now().Add(time.Hour)},
		User:    model.User{ID: 7, FirstName: "Ada", LastName: "Okafor", Department: model.DepartmentAdmin},
	}
}

func newTestDispatch(sms provider.SMSSender, email provider.EmailSender) (*DispatchService, *fakeSmsLogs, *fakeEmailLogs, *fakeWebMessages, *fakeEvents) {
	smsLogs := &fakeSmsLogs{}
	emailLogs := &fakeEmailLogs{}
	webMessages := &fakeWebMessages{}
	events := &fakeEvents{}
	sessions := &fakeSessionChecker{su: testSession()}
	svc := NewDispatchService(sms, email, smsLogs, emailLogs, webMessages, sessions, events, zap.NewNop())
	return svc, smsLogs, emailLogs, webMessages, events
}

func smsRecipients(numbers ...string) []model.Recipient {
	out := make([]model.Recipient, len(numbers))
	for i, n := range numbers {
		out[i] = model.Recipient{ContactNumber: n}
	}
	return out
}

func TestDispatchSMS_AllSuccess(t *testing.T) {
	sms := &fakeSMS{}
	svc, smsLogs, _, _, _ := newTestDispatch(sms, &fakeEmail{})

	results, status, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111", "222", "333"))
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusSuccess {
		t.Fatalf("want success, got %s", status)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	for i, want := range []string{"111", "222", "333"} {
		if results[i].Recipient != want {
			t.Fatalf("result %d: want recipient %s, got %s", i, want, results[i].Recipient)
		}
		if !results[i].Success || results[i].MessageID == "" {
			t.Fatalf("result %d should have succeeded with a message id", i)
		}
	}

	if len(smsLogs.inserted) != 1 {
		t.Fatalf("want exactly one log row, got %d", len(smsLogs.inserted))
	}
	log := smsLogs.inserted[0]
	if len(log.Recipients) != 3 || len(log.MessageIDs) != 3 {
		t.Fatalf("log lengths: recipients=%d messageIds=%d", len(log.Recipients), len(log.MessageIDs))
	}
	if log.Error != nil {
		t.Fatalf("expected no error string, got %q", *log.Error)
	}
	if log.UserID != 7 {
		t.Fatalf("log owner: want 7, got %d", log.UserID)
	}
}

func TestDispatchSMS_PartialFailure(t *testing.T) {
	sms := &fakeSMS{fail: map[string]string{"222": "invalid number"}}
	svc, smsLogs, _, _, _ := newTestDispatch(sms, &fakeEmail{})

	results, status, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111", "222", "333"))
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusPartial {
		t.Fatalf("want partial, got %s", status)
	}
	if results[1].Success || results[1].Error != "invalid number" {
		t.Fatalf("recipient #2 should have failed with reason, got %+v", results[1])
	}
	if !results[0].Success || !results[2].Success {
		t.Fatal("siblings of a failed attempt must still be attempted and succeed")
	}

	log := smsLogs.inserted[0]
	if len(log.Recipients) != 3 {
		t.Fatalf("recipient list length: want 3, got %d", len(log.Recipients))
	}
	if len(log.MessageIDs) != 2 {
		t.Fatalf("message ids length: want 2, got %d", len(log.MessageIDs))
	}
	if log.Error == nil || !strings.Contains(*log.Error, "invalid number") {
		t.Fatalf("log error should contain the failure reason, got %v", log.Error)
	}
}

func TestDispatchSMS_AllFailedIsStillPartial(t *testing.T) {
	sms := &fakeSMS{fail: map[string]string{"111": "down", "222": "down"}}
	svc, smsLogs, _, _, _ := newTestDispatch(sms, &fakeEmail{})

	_, status, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111", "222"))
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusPartial {
		t.Fatalf("all-failed dispatch must record partial, got %s", status)
	}
	if log := smsLogs.inserted[0]; len(log.MessageIDs) != 0 {
		t.Fatalf("no message ids expected, got %d", len(log.MessageIDs))
	}
	if log := smsLogs.inserted[0]; log.Error == nil || *log.Error != "down, down" {
		t.Fatalf("errors should be comma-joined, got %v", log.Error)
	}
}

func TestDispatchSMS_ZeroRecipientsRejected(t *testing.T) {
	sms := &fakeSMS{}
	svc, smsLogs, _, _, _ := newTestDispatch(sms, &fakeEmail{})

	_, _, err := svc.DispatchSMS(context.Background(), testSession(), "hello", nil)
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("want ErrNoRecipients, got %v", err)
	}
	if len(sms.calls) != 0 {
		t.Fatalf("no provider call expected, got %d", len(sms.calls))
	}
	if len(smsLogs.inserted) != 0 {
		t.Fatal("no log row may be written for an empty recipient list")
	}
}

func TestDispatchSMS_NilSessionRejected(t *testing.T) {
	svc, smsLogs, _, _, _ := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	_, _, err := svc.DispatchSMS(context.Background(), nil, "hello", smsRecipients("111"))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if len(smsLogs.inserted) != 0 {
		t.Fatal("nothing may be persisted without a session")
	}
}

func TestDispatchSMS_SessionExpiredBeforeLogWrite(t *testing.T) {
	sms := &fakeSMS{}
	smsLogs := &fakeSmsLogs{}
	// the re-fetch before the log write comes back empty
	sessions := &fakeSessionChecker{su: nil}
	svc := NewDispatchService(sms, &fakeEmail{}, smsLogs, &fakeEmailLogs{}, &fakeWebMessages{}, sessions, nil, zap.NewNop())

	_, _, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111"))
	if err == nil {
		t.Fatal("expected an infrastructure error when the session expires mid-dispatch")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expiry at log-write time is a server fault, not an auth failure: %v", err)
	}
	if len(smsLogs.inserted) != 0 {
		t.Fatal("no log row may be written when the owner cannot be resolved")
	}
}

// gateSMS blocks every Send until released, proving attempts run concurrently.
type gateSMS struct {
	arrived chan string
	release chan struct{}
}

func (g *gateSMS) Send(ctx context.Context, to, body string) (string, error) {
	g.arrived <- to
	<-g.release
	return "SM-" + to, nil
}

func TestDispatchSMS_FanOutIsConcurrent(t *testing.T) {
	gate := &gateSMS{arrived: make(chan string, 3), release: make(chan struct{})}
	svc, _, _, _, _ := newTestDispatch(gate, &fakeEmail{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111", "222", "333"))
	}()

	// all three attempts must be in flight before any of them completes
	for i := 0; i < 3; i++ {
		select {
		case <-gate.arrived:
		case <-time.After(2 * time.Second):
			t.Fatalf("attempt %d never started; fan-out is not concurrent", i+1)
		}
	}
	close(gate.release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not settle")
	}
}

func TestDispatchSMS_PublishesCompletionEvent(t *testing.T) {
	svc, _, _, _, events := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	_, _, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111"))
	if err != nil {
		t.Fatal(err)
	}
	if len(events.keys) != 1 || events.keys[0] != "dispatch.completed" {
		t.Fatalf("want one dispatch.completed event, got %v", events.keys)
	}
}

func TestDispatchSMS_EventFailureDoesNotFailDispatch(t *testing.T) {
	sms := &fakeSMS{}
	smsLogs := &fakeSmsLogs{}
	events := &fakeEvents{err: errors.New("broker down")}
	sessions := &fakeSessionChecker{su: testSession()}
	svc := NewDispatchService(sms, &fakeEmail{}, smsLogs, &fakeEmailLogs{}, &fakeWebMessages{}, sessions, events, zap.NewNop())

	_, status, err := svc.DispatchSMS(context.Background(), testSession(), "hello", smsRecipients("111"))
	if err != nil {
		t.Fatalf("event publish failure must not fail the dispatch: %v", err)
	}
	if status != model.StatusSuccess {
		t.Fatalf("want success, got %s", status)
	}
}

func TestDispatchEmail_PartialFailure(t *testing.T) {
	email := &fakeEmail{fail: map[string]string{"b@x.io": "mailbox full"}}
	svc, _, emailLogs, _, _ := newTestDispatch(&fakeSMS{}, email)

	recipients := []model.Recipient{{Email: "a@x.io"}, {Email: "b@x.io"}}
	atts := []provider.Attachment{{Filename: "notice.pdf", Content: []byte("pdf")}}

	results, status, err := svc.DispatchEmail(context.Background(), testSession(), "Subject", "<p>hi</p>", atts, recipients)
	if err != nil {
		t.Fatal(err)
	}
	if status != model.StatusPartial {
		t.Fatalf("want partial, got %s", status)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}

	log := emailLogs.inserted[0]
	if log.MessageID == nil || *log.MessageID != "EM-a@x.io" {
		t.Fatalf("message id should be the first successful one, got %v", log.MessageID)
	}
	if log.Attachments == nil || len(log.Attachments.Files) != 1 || log.Attachments.Files[0] != "notice.pdf" {
		t.Fatalf("attachment filenames should be logged, got %+v", log.Attachments)
	}
	if log.Error == nil || !strings.Contains(*log.Error, "mailbox full") {
		t.Fatalf("log error should contain the failure reason, got %v", log.Error)
	}
}

func TestDispatchEmail_NoAttachmentsMeansNullColumn(t *testing.T) {
	svc, _, emailLogs, _, _ := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	_, _, err := svc.DispatchEmail(context.Background(), testSession(), "S", "<p>hi</p>", nil, []model.Recipient{{Email: "a@x.io"}})
	if err != nil {
		t.Fatal(err)
	}
	if emailLogs.inserted[0].Attachments != nil {
		t.Fatal("attachments should be nil when none were sent")
	}
}

func TestPublishWeb_MissingFieldsRejected(t *testing.T) {
	svc, _, _, webMessages, _ := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	cases := []WebMessageInput{
		{Content: "c", Priority: model.PriorityLow},
		{Title: "t", Priority: model.PriorityLow},
		{Title: "t", Content: "c"},
	}
	for i, in := range cases {
		if _, err := svc.PublishWeb(context.Background(), testSession(), in); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("case %d: want ErrMissingFields, got %v", i, err)
		}
	}
	if len(webMessages.inserted) != 0 {
		t.Fatal("nothing may be persisted on validation failure")
	}
}

func TestPublishWeb_InvalidPriorityRejected(t *testing.T) {
	svc, _, _, _, _ := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	_, err := svc.PublishWeb(context.Background(), testSession(), WebMessageInput{Title: "t", Content: "c", Priority: "urgent"})
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("want ErrInvalidPriority, got %v", err)
	}
}

func TestPublishWeb_Create(t *testing.T) {
	svc, _, _, webMessages, events := newTestDispatch(&fakeSMS{}, &fakeEmail{})

	expiry := time.Now().Add(48 * time.Hour)
	msg, err := svc.PublishWeb(context.Background(), testSession(), WebMessageInput{
		Title:       "Maintenance window",
		Content:     "Portal down Saturday",
		Priority:    model.PriorityHigh,
		ExpiryDate:  &expiry,
		IsPublished: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID == "" {
		t.Fatal("a web message must get a generated id")
	}
	if msg.Type != "web" {
		t.Fatalf("type should default to web, got %s", msg.Type)
	}
	if msg.UserID != 7 {
		t.Fatalf("owner: want 7, got %d", msg.UserID)
	}
	if len(webMessages.inserted) != 1 {
		t.Fatalf("want one row, got %d", len(webMessages.inserted))
	}
	if len(events.keys) != 1 {
		t.Fatalf("want one event, got %d", len(events.keys))
	}
}
