package entities

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusExpired   InvoiceStatus = "expired"
)

// Invoice is owned by the billing flow upstream. The reconciliation engine
// only reads it to correlate webhook events with a transaction; it never
// rewrites Status here.

type Invoice struct {
	ID                   string        `json:"id"`
	Status               InvoiceStatus `json:"status"`
	AmountDue            float64       `json:"amount_due"`
	ProviderSessionID    string        `json:"provider_session_id,omitempty"`
	PaymentLinkExpiresAt *time.Time    `json:"payment_link_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
