package entities

import "encoding/json"

// Provider webhook event types routed by the dispatcher. Anything else is
// acknowledged and ignored.
const (
	EventTypeCheckoutCompleted = "checkout.completed"
	EventTypePaymentSucceeded  = "payment.succeeded"
	EventTypePaymentFailed     = "payment.failed"
	EventTypePaymentRefunded   = "payment.refunded"
)

// WebhookEvent is a provider event that already passed signature
// verification. Data stays raw until a handler decides how to read it.

type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PaymentEventData is the payload shape shared by the payment event kinds.
//
// Correlation fields:
//   - Metadata["invoice_id"] is the explicit invoice reference; the provider
//     echoes ExternalReference as a fallback when metadata was not set.
//   - Refund events reference the originating payment in PaymentID, not a
//     new identifier.
//
// Amount and AmountRefunded are minor currency units (centavos).

type PaymentEventData struct {
	ID                string            `json:"id"`
	PaymentID         string            `json:"payment_id,omitempty"`
	Amount            int64             `json:"amount"`
	AmountRefunded    int64             `json:"amount_refunded,omitempty"`
	Currency          string            `json:"currency"`
	ExternalReference string            `json:"external_reference,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}
