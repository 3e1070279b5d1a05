package mq

import "time"

const RoutingKeyDispatchCompleted = "dispatch.completed"

// DispatchCompletedPayload is emitted after a dispatch log row has been
// written. It is a post-hoc event feed, not a delivery queue.
type DispatchCompletedPayload struct {
	Channel        string    `json:"channel"`
	LogID          string    `json:"log_id"`
	Status         string    `json:"status"`
	RecipientCount int       `json:"recipient_count"`
	UserID         int       `json:"user_id"`
	CompletedAt    time.Time `json:"completed_at"`
}
