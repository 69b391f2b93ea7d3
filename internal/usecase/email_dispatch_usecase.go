package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	"pagamentos_xpto/internal/usecase/interfaces"
)

var (
	ErrEmailQueueRepoNotConfigured = errors.New("email queue repository not configured")
	ErrEmailSenderNotConfigured    = errors.New("email sender not configured")
)

const (
	defaultDispatchBatchSize   = 50
	defaultRetryBackoffMinutes = 5
)

// DispatchResult aggregates one queue run for observability. Individual item
// failures never abort the run; only Failed counts them.
type DispatchResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// IEmailDispatchUseCase drains due pending messages from the queue. Each
// invocation is a stateless unit triggered by an external timer.

type IEmailDispatchUseCase interface {
	ProcessQueue(ctx context.Context) (DispatchResult, error)
}

type EmailDispatchUseCase struct {
	repo         interfaces.IEmailQueueRepository
	sender       interfaces.IEmailSender
	batchSize    int
	retryBackoff time.Duration
}

var _ IEmailDispatchUseCase = (*EmailDispatchUseCase)(nil)

func NewEmailDispatchUseCase(repo interfaces.IEmailQueueRepository, sender interfaces.IEmailSender) *EmailDispatchUseCase {
	return &EmailDispatchUseCase{
		repo:         repo,
		sender:       sender,
		batchSize:    getenvInt("EMAIL_DISPATCH_BATCH_SIZE", defaultDispatchBatchSize),
		retryBackoff: time.Duration(getenvInt("EMAIL_RETRY_BACKOFF_MINUTES", defaultRetryBackoffMinutes)) * time.Minute,
	}
}

// ProcessQueue selects eligible items oldest first and attempts delivery for
// each. Only a queue listing failure aborts the run; everything after that is
// recovered per item.
func (u *EmailDispatchUseCase) ProcessQueue(ctx context.Context) (DispatchResult, error) {
	if u.repo == nil {
		return DispatchResult{}, ErrEmailQueueRepoNotConfigured
	}
	if u.sender == nil {
		return DispatchResult{}, ErrEmailSenderNotConfigured
	}

	now := time.Now().UTC()
	items, err := u.repo.ListPendingDue(ctx, now, u.batchSize)
	if err != nil {
		log.Printf("[email][usecase] queue listing failed err=%v", err)
		return DispatchResult{}, err
	}
	log.Printf("[email][usecase] dispatch run start eligible=%d batch_size=%d", len(items), u.batchSize)

	var result DispatchResult
	for _, item := range items {
		result.Processed++
		if u.dispatchItem(ctx, item) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	log.Printf("[email][usecase] dispatch run done processed=%d sent=%d failed=%d", result.Processed, result.Sent, result.Failed)
	return result, nil
}

func (u *EmailDispatchUseCase) dispatchItem(ctx context.Context, item entities.EmailQueueItem) bool {
	attemptAt := time.Now().UTC()

	// Count the attempt before sending. A crash mid-send still burns retry
	// budget, so a systemic outage can never retry unbounded.
	item.Attempts++
	item.LastAttemptAt = &attemptAt
	item.UpdatedAt = attemptAt
	if _, err := u.repo.Update(ctx, item); err != nil {
		log.Printf("[email][usecase] attempt bookkeeping failed id=%s err=%v", item.ID, err)
		return false
	}

	sendErr := u.sender.Send(ctx, formatRecipient(item), item.Subject, item.HTMLBody, item.TextBody)
	if sendErr == nil {
		sentAt := time.Now().UTC()
		item.Status = entities.EmailQueueStatusSent
		item.SentAt = &sentAt
		item.ErrorMessage = ""
		item.UpdatedAt = sentAt
		if _, err := u.repo.Update(ctx, item); err != nil {
			log.Printf("[email][usecase] sent-state update failed id=%s err=%v", item.ID, err)
			return false
		}
		log.Printf("[email][usecase] message sent id=%s attempts=%d", item.ID, item.Attempts)
		return true
	}

	item.ErrorMessage = sendErr.Error()
	if item.Attempts >= item.MaxAttempts {
		item.Status = entities.EmailQueueStatusFailed
		log.Printf("[email][usecase] message failed terminally id=%s attempts=%d err=%v", item.ID, item.Attempts, sendErr)
	} else {
		item.ScheduledFor = attemptAt.Add(u.retryBackoff)
		log.Printf("[email][usecase] message delivery failed, rescheduled id=%s attempts=%d next=%s err=%v", item.ID, item.Attempts, item.ScheduledFor.Format(time.RFC3339), sendErr)
	}
	item.UpdatedAt = time.Now().UTC()
	if _, err := u.repo.Update(ctx, item); err != nil {
		log.Printf("[email][usecase] failure-state update failed id=%s err=%v", item.ID, err)
	}
	return false
}

func formatRecipient(item entities.EmailQueueItem) string {
	name := strings.TrimSpace(item.RecipientName)
	if name == "" {
		return item.RecipientEmail
	}
	return fmt.Sprintf("%s <%s>", name, item.RecipientEmail)
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
