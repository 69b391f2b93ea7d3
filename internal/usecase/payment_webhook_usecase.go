package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	"pagamentos_xpto/internal/usecase/interfaces"
	"pagamentos_xpto/pkg"

	"github.com/google/uuid"
)

var (
	ErrTransactionRepoNotConfigured = errors.New("payment transaction repository not configured")
	ErrEmptyEventData               = errors.New("event data is empty")
	ErrMissingTransactionID         = errors.New("event has no transaction id")
	ErrTransactionNotFound          = errors.New("payment transaction not found")
)

const defaultPaymentProvider = "mercadopago"

// IPaymentWebhookUseCase routes verified provider events into transaction
// state.
//
// ProcessEvent never fails the delivery for handler-internal errors: the
// provider retries on anything but an acknowledgment, and retry storms help
// nobody. Errors are logged and swallowed; only the returned error of each
// inner handler is surfaced to the log.

type IPaymentWebhookUseCase interface {
	ProcessEvent(ctx context.Context, event entities.WebhookEvent) error
}

type PaymentWebhookUseCase struct {
	repo        interfaces.IPaymentTransactionRepository
	invoiceRepo interfaces.IInvoiceRepository
	provider    string
}

var _ IPaymentWebhookUseCase = (*PaymentWebhookUseCase)(nil)

func NewPaymentWebhookUseCase(repo interfaces.IPaymentTransactionRepository, invoiceRepo interfaces.IInvoiceRepository) *PaymentWebhookUseCase {
	provider := strings.TrimSpace(os.Getenv("PAYMENT_PROVIDER"))
	if provider == "" {
		provider = defaultPaymentProvider
	}
	return &PaymentWebhookUseCase{repo: repo, invoiceRepo: invoiceRepo, provider: provider}
}

// ProcessEvent dispatches one verified event to its handler. Unknown types
// are acknowledged as handled; duplicates are safe because every handler is
// idempotent.
func (u *PaymentWebhookUseCase) ProcessEvent(ctx context.Context, event entities.WebhookEvent) error {
	log.Printf("[webhook][usecase] event received type=%s payload_len=%d", event.Type, len(event.Data))

	switch event.Type {
	case entities.EventTypeCheckoutCompleted, entities.EventTypePaymentSucceeded:
		u.runIsolated(event.Type, func() error { return u.applyPaymentSucceeded(ctx, event) })
	case entities.EventTypePaymentFailed:
		u.runIsolated(event.Type, func() error { return u.applyPaymentFailed(ctx, event) })
	case entities.EventTypePaymentRefunded:
		u.runIsolated(event.Type, func() error { return u.applyPaymentRefunded(ctx, event) })
	default:
		// Acknowledge types we don't understand yet, or the provider retries
		// them forever.
		log.Printf("[webhook][usecase] unknown event type acknowledged type=%s", event.Type)
	}
	return nil
}

// runIsolated is the ack policy: a handler failure (or panic) is logged and
// swallowed so the delivery is still acknowledged.
func (u *PaymentWebhookUseCase) runIsolated(eventType string, fn func() error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("[webhook][usecase] handler panic recovered type=%s panic=%v", eventType, recovered)
		}
	}()
	if err := fn(); err != nil {
		log.Printf("[webhook][usecase] handler failed type=%s err=%v", eventType, err)
	}
}

func (u *PaymentWebhookUseCase) applyPaymentSucceeded(ctx context.Context, event entities.WebhookEvent) error {
	if u.repo == nil {
		return ErrTransactionRepoNotConfigured
	}
	data, err := decodePaymentEventData(event)
	if err != nil {
		return err
	}

	invoiceID := u.resolveInvoiceID(ctx, data)

	tx, err := u.repo.GetByProviderTransactionID(ctx, u.provider, data.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if tx.ID == "" {
		// Event arrived before the checkout flow persisted its row; upsert
		// with the event's data instead of dropping the payment.
		tx = entities.PaymentTransaction{
			ID:            uuid.NewString(),
			TransactionID: data.ID,
			Provider:      u.provider,
			Status:        entities.TransactionStatusCompleted,
			CreatedAt:     now,
		}
		applyCompletion(&tx, data, invoiceID, event.Data, now)
		created, err := u.repo.Create(ctx, tx)
		if err != nil {
			return err
		}
		log.Printf("[webhook][usecase] transaction upserted id=%s transaction_id=%s invoice_id=%s amount=%.2f", created.ID, created.TransactionID, created.InvoiceID, created.Amount)
		return nil
	}

	if tx.Status == entities.TransactionStatusCompleted && tx.WebhookVerified {
		log.Printf("[webhook][usecase] duplicate completion ignored transaction_id=%s", data.ID)
		return nil
	}
	if !tx.Status.CanTransitionTo(entities.TransactionStatusCompleted) {
		log.Printf("[webhook][usecase] completion skipped transaction_id=%s status=%s", data.ID, tx.Status)
		return nil
	}

	tx.Status = entities.TransactionStatusCompleted
	applyCompletion(&tx, data, invoiceID, event.Data, now)
	updated, err := u.repo.Update(ctx, tx)
	if err != nil {
		return err
	}
	log.Printf("[webhook][usecase] transaction completed id=%s transaction_id=%s amount=%.2f", updated.ID, updated.TransactionID, updated.Amount)
	return nil
}

func applyCompletion(tx *entities.PaymentTransaction, data entities.PaymentEventData, invoiceID string, rawPayload json.RawMessage, now time.Time) {
	if invoiceID != "" {
		tx.InvoiceID = invoiceID
	}
	tx.Amount = pkg.MinorToMajor(data.Amount)
	if data.Currency != "" {
		tx.Currency = data.Currency
	}
	tx.CompletedAt = &now
	tx.WebhookVerified = true
	tx.WebhookReceivedAt = &now
	tx.UpdatedAt = now
	snapshotPayload(tx, rawPayload)
}

func (u *PaymentWebhookUseCase) applyPaymentFailed(ctx context.Context, event entities.WebhookEvent) error {
	if u.repo == nil {
		return ErrTransactionRepoNotConfigured
	}
	data, err := decodePaymentEventData(event)
	if err != nil {
		return err
	}

	tx, err := u.repo.GetByProviderTransactionID(ctx, u.provider, data.ID)
	if err != nil {
		return err
	}
	if tx.ID == "" {
		// No upsert rule for failures: nothing to mark, not fatal.
		log.Printf("[webhook][usecase] failure for unknown transaction ignored transaction_id=%s", data.ID)
		return nil
	}
	if tx.Status == entities.TransactionStatusFailed {
		log.Printf("[webhook][usecase] duplicate failure ignored transaction_id=%s", data.ID)
		return nil
	}
	if !tx.Status.CanTransitionTo(entities.TransactionStatusFailed) {
		log.Printf("[webhook][usecase] failure skipped transaction_id=%s status=%s", data.ID, tx.Status)
		return nil
	}

	now := time.Now().UTC()
	tx.Status = entities.TransactionStatusFailed
	tx.WebhookVerified = true
	tx.WebhookReceivedAt = &now
	tx.UpdatedAt = now
	snapshotPayload(&tx, event.Data)

	if _, err := u.repo.Update(ctx, tx); err != nil {
		return err
	}
	log.Printf("[webhook][usecase] transaction failed id=%s transaction_id=%s", tx.ID, tx.TransactionID)
	return nil
}

func (u *PaymentWebhookUseCase) applyPaymentRefunded(ctx context.Context, event entities.WebhookEvent) error {
	if u.repo == nil {
		return ErrTransactionRepoNotConfigured
	}
	data, err := decodePaymentEventData(event)
	if err != nil {
		return err
	}

	// Refund events reference the originating payment, not a new identifier.
	originID := strings.TrimSpace(data.PaymentID)
	if originID == "" {
		return ErrMissingTransactionID
	}

	tx, err := u.repo.GetByProviderTransactionID(ctx, u.provider, originID)
	if err != nil {
		return err
	}
	if tx.ID == "" {
		log.Printf("[webhook][usecase] refund for unknown transaction ignored payment_id=%s", originID)
		return nil
	}
	if tx.Status == entities.TransactionStatusRefunded {
		log.Printf("[webhook][usecase] duplicate refund ignored transaction_id=%s", originID)
		return nil
	}
	if !tx.Status.CanTransitionTo(entities.TransactionStatusRefunded) {
		log.Printf("[webhook][usecase] refund skipped transaction_id=%s status=%s", originID, tx.Status)
		return nil
	}

	now := time.Now().UTC()
	tx.Status = entities.TransactionStatusRefunded
	tx.RefundedAmount = pkg.MinorToMajor(data.AmountRefunded)
	tx.RefundedAt = &now
	tx.WebhookReceivedAt = &now
	tx.UpdatedAt = now
	snapshotPayload(&tx, event.Data)

	// Invoice state stays untouched on refunds; the billing flow owns it.

	if _, err := u.repo.Update(ctx, tx); err != nil {
		return err
	}
	log.Printf("[webhook][usecase] transaction refunded id=%s transaction_id=%s refunded_amount=%.2f", tx.ID, tx.TransactionID, tx.RefundedAmount)
	return nil
}

// resolveInvoiceID prefers the explicit metadata field and falls back to the
// provider's external_reference echo. A missing invoice is logged but never
// blocks reconciliation.
func (u *PaymentWebhookUseCase) resolveInvoiceID(ctx context.Context, data entities.PaymentEventData) string {
	invoiceID := strings.TrimSpace(data.Metadata["invoice_id"])
	if invoiceID == "" {
		invoiceID = strings.TrimSpace(data.ExternalReference)
	}
	if invoiceID == "" {
		log.Printf("[webhook][usecase] event carries no invoice reference transaction_id=%s", data.ID)
		return ""
	}

	if u.invoiceRepo != nil {
		inv, err := u.invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			log.Printf("[webhook][usecase] invoice lookup failed invoice_id=%s err=%v", invoiceID, err)
		} else if inv.ID == "" {
			log.Printf("[webhook][usecase] invoice not found invoice_id=%s", invoiceID)
		}
	}
	return invoiceID
}

func decodePaymentEventData(event entities.WebhookEvent) (entities.PaymentEventData, error) {
	if len(event.Data) == 0 {
		return entities.PaymentEventData{}, ErrEmptyEventData
	}
	var data entities.PaymentEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return entities.PaymentEventData{}, err
	}
	if strings.TrimSpace(data.ID) == "" && strings.TrimSpace(data.PaymentID) == "" {
		return entities.PaymentEventData{}, ErrMissingTransactionID
	}
	return data, nil
}

func snapshotPayload(tx *entities.PaymentTransaction, raw json.RawMessage) {
	tx.ProviderMetadataRaw = raw
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		tx.ProviderMetadata = parsed
	}
}
