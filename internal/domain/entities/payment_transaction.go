package entities

import (
	"encoding/json"
	"time"
)

// TransactionStatus represents the reconciliation state of a provider payment.
//
// Transitions are monotone:
//   - pending  -> completed | failed
//   - completed -> refunded
//   - failed and refunded are terminal.

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Re-applying the current status is not a transition; callers treat it as an
// idempotent no-op.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return next == TransactionStatusCompleted || next == TransactionStatusFailed
	case TransactionStatusCompleted:
		return next == TransactionStatusRefunded
	default:
		return false
	}
}

// PaymentTransaction is the durable record reconciled from provider webhook
// events.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (transaction_id-index): transaction_id
//
// Provider payload:
//   - ProviderMetadataRaw keeps the last event body (JSON) for traceability/audit.
//   - ProviderMetadata is an optional parsed representation, useful for
//     querying/debugging.
//
// Rows are created with status=pending by the checkout-session flow upstream;
// after that only the webhook reconciliation mutates them. Amount and
// RefundedAmount are major currency units (the provider reports minor units).

type PaymentTransaction struct {
	ID             string            `json:"id"`
	InvoiceID      string            `json:"invoice_id"`
	TransactionID  string            `json:"transaction_id"`
	Provider       string            `json:"provider"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Status         TransactionStatus `json:"status"`
	RefundedAmount float64           `json:"refunded_amount,omitempty"`

	ProviderMetadataRaw json.RawMessage        `json:"provider_metadata_raw,omitempty"`
	ProviderMetadata    map[string]interface{} `json:"provider_metadata,omitempty"`

	WebhookReceivedAt *time.Time `json:"webhook_received_at,omitempty"`
	WebhookVerified   bool       `json:"webhook_verified"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
