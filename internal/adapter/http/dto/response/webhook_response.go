package response

// WebhookAck is the acknowledgment body the provider expects for any
// authenticated delivery.
type WebhookAck struct {
	Received bool `json:"received"`
}
