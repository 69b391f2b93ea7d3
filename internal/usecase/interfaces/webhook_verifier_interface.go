package interfaces

import "pagamentos_xpto/internal/domain/entities"

// IWebhookVerifier authenticates a provider webhook delivery and parses it
// into a typed event. body must be the exact raw transport bytes; any prior
// parse/reserialize invalidates the signature.
type IWebhookVerifier interface {
	VerifyAndParse(body []byte, signature string) (entities.WebhookEvent, error)
}
