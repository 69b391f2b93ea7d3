package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"pagamentos_xpto/internal/domain/entities"
)

var (
	ErrMissingWebhookSecret  = errors.New("missing WEBHOOK_SECRET")
	ErrMissingSignature      = errors.New("missing webhook signature")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
)

// HMACWebhookVerifier authenticates provider webhook deliveries with
// HMAC-SHA256 over the raw request body, hex-encoded in the signature
// header. This is the sole authentication boundary; nothing downstream
// re-checks authenticity.

type HMACWebhookVerifier struct {
	secret []byte
}

func NewHMACWebhookVerifier(secret string) (*HMACWebhookVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		log.Printf("[webhook][verifier] missing WEBHOOK_SECRET")
		return nil, ErrMissingWebhookSecret
	}
	return &HMACWebhookVerifier{secret: []byte(secret)}, nil
}

// VerifyAndParse checks the signature against the exact bytes received and
// only then parses the body. A `sha256=` prefix on the header value is
// tolerated.
func (v *HMACWebhookVerifier) VerifyAndParse(body []byte, signature string) (entities.WebhookEvent, error) {
	signature = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if signature == "" {
		return entities.WebhookEvent{}, ErrMissingSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return entities.WebhookEvent{}, ErrInvalidSignature
	}
	if !hmac.Equal(expected, sigBytes) {
		return entities.WebhookEvent{}, ErrInvalidSignature
	}

	var event entities.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return entities.WebhookEvent{}, ErrInvalidWebhookPayload
	}
	if strings.TrimSpace(event.Type) == "" {
		return entities.WebhookEvent{}, ErrInvalidWebhookPayload
	}
	return event, nil
}
