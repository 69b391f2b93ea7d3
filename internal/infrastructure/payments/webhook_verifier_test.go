package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"pagamentos_xpto/internal/domain/entities"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewHMACWebhookVerifier(t *testing.T) {
	if _, err := NewHMACWebhookVerifier("   "); !errors.Is(err, ErrMissingWebhookSecret) {
		t.Fatalf("expected ErrMissingWebhookSecret, got %v", err)
	}
	if _, err := NewHMACWebhookVerifier("secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHMACWebhookVerifier_VerifyAndParse(t *testing.T) {
	v, err := NewHMACWebhookVerifier("super-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := []byte(`{"type":"payment.succeeded","data":{"id":"pi_123","amount":5000}}`)

	t.Run("valid signature", func(t *testing.T) {
		event, err := v.VerifyAndParse(body, signBody("super-secret", body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Type != entities.EventTypePaymentSucceeded || len(event.Data) == 0 {
			t.Fatalf("unexpected event: %+v", event)
		}
	})

	t.Run("sha256 prefix tolerated", func(t *testing.T) {
		if _, err := v.VerifyAndParse(body, "sha256="+signBody("super-secret", body)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		if _, err := v.VerifyAndParse(body, "   "); !errors.Is(err, ErrMissingSignature) {
			t.Fatalf("expected ErrMissingSignature, got %v", err)
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := append([]byte{}, body...)
		tampered[len(tampered)-2] = '1'
		if _, err := v.VerifyAndParse(tampered, signBody("super-secret", body)); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := v.VerifyAndParse(body, signBody("other-secret", body)); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("signature is not hex", func(t *testing.T) {
		if _, err := v.VerifyAndParse(body, "zzzz"); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("verified but unparseable body", func(t *testing.T) {
		raw := []byte(`not json`)
		if _, err := v.VerifyAndParse(raw, signBody("super-secret", raw)); !errors.Is(err, ErrInvalidWebhookPayload) {
			t.Fatalf("expected ErrInvalidWebhookPayload, got %v", err)
		}
	})

	t.Run("verified body without a type", func(t *testing.T) {
		raw := []byte(`{"data":{"id":"pi_123"}}`)
		if _, err := v.VerifyAndParse(raw, signBody("super-secret", raw)); !errors.Is(err, ErrInvalidWebhookPayload) {
			t.Fatalf("expected ErrInvalidWebhookPayload, got %v", err)
		}
	})
}
