package model

import "time"

// Aggregate dispatch statuses. There is no "failed": a dispatch where every
// recipient attempt failed is still recorded as partial.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// Web message priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// RecipientResult is the settled outcome of one per-recipient delivery
// attempt. Exactly one of MessageID and Error is set.
type RecipientResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Recipient string `json:"recipient"`
}

// SmsLog is one aggregate record per SMS dispatch, immutable once created.
type SmsLog struct {
	ID         int       `db:"id" json:"id"`
	CreatedAt  time.Time `db:"created" json:"created"`
	Message    string    `db:"message" json:"message"`
	Recipients []string  `db:"recipients" json:"recipients"`
	Status     string    `db:"status" json:"status"`
	MessageIDs []string  `db:"message_ids" json:"messageIds"`
	Error      *string   `db:"error" json:"error"`
	UserID     int       `db:"user_id" json:"userId"`
}

// AttachmentFiles records the filenames attached to an email dispatch,
// stored as JSONB.
type AttachmentFiles struct {
	Files []string `json:"files"`
}

// EmailLog is one aggregate record per email dispatch, immutable once created.
type EmailLog struct {
	ID          int              `db:"id" json:"id"`
	CreatedAt   time.Time        `db:"created" json:"created"`
	Subject     string           `db:"subject" json:"subject"`
	Message     string           `db:"message" json:"message"`
	Recipients  []string         `db:"recipients" json:"recipients"`
	Status      string           `db:"status" json:"status"`
	MessageID   *string          `db:"message_id" json:"messageId"`
	Attachments *AttachmentFiles `db:"attachments" json:"attachments"`
	Error       *string          `db:"error" json:"error"`
	UserID      int              `db:"user_id" json:"userId"`
}

// WebAPIMessage is a published-content record. It is not recipient-addressed;
// readers see it only while published and unexpired.
type WebAPIMessage struct {
	ID          string     `db:"id" json:"id"`
	CreatedAt   time.Time  `db:"created" json:"created"`
	Type        string     `db:"type" json:"type"`
	Title       string     `db:"title" json:"title"`
	Content     string     `db:"content" json:"content"`
	Priority    string     `db:"priority" json:"priority"`
	ExpiryDate  *time.Time `db:"expiry_date" json:"expiryDate"`
	IsPublished bool       `db:"is_published" json:"isPublished"`
	UserID      int        `db:"user_id" json:"userId"`
}

// Visible reports whether the message belongs in the published read path:
// published and not expired (a nil expiry never expires).
func (m *WebAPIMessage) Visible(now time.Time) bool {
	if !m.IsPublished {
		return false
	}
	return m.ExpiryDate == nil || m.ExpiryDate.After(now)
}

// UserName is the dispatching user's display fields joined onto a log row.
type UserName struct {
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// SmsLogEntry is an SmsLog joined with its sender for display. RecipientDetails
// is populated only by the user-scoped log reader, best-effort.
type SmsLogEntry struct {
	SmsLog
	User             UserName          `db:"user" json:"user"`
	RecipientDetails []RecipientDetail `db:"-" json:"recipientDetails,omitempty"`
}

type EmailLogEntry struct {
	EmailLog
	User             UserName          `db:"user" json:"user"`
	RecipientDetails []RecipientDetail `db:"-" json:"recipientDetails,omitempty"`
}

type WebAPIMessageEntry struct {
	WebAPIMessage
	User UserName `db:"user" json:"user"`
}
