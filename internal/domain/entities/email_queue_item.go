package entities

import "time"

// EmailQueueStatus represents the delivery outcome of a queued message.

type EmailQueueStatus string

const (
	EmailQueueStatusPending EmailQueueStatus = "pending"
	EmailQueueStatusSent    EmailQueueStatus = "sent"
	EmailQueueStatusFailed  EmailQueueStatus = "failed"
)

// EmailQueueItem is a durable outbound message awaiting dispatch.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (status-created_at-index): status + created_at, so pending items
//     come back oldest first.
//
// Rows are created with status=pending by producers upstream; the dispatcher
// is the only consumer and the only writer after creation. Invariants held
// after every update:
//   - Attempts <= MaxAttempts
//   - status=sent   => ErrorMessage empty
//   - status=failed => Attempts == MaxAttempts

type EmailQueueItem struct {
	ID             string           `json:"id"`
	RecipientEmail string           `json:"recipient_email"`
	RecipientName  string           `json:"recipient_name,omitempty"`
	Subject        string           `json:"subject"`
	HTMLBody       string           `json:"html_body"`
	TextBody       string           `json:"text_body,omitempty"`
	Status         EmailQueueStatus `json:"status"`
	Attempts       int              `json:"attempts"`
	MaxAttempts    int              `json:"max_attempts"`
	ScheduledFor   time.Time        `json:"scheduled_for"`
	LastAttemptAt  *time.Time       `json:"last_attempt_at,omitempty"`
	SentAt         *time.Time       `json:"sent_at,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
