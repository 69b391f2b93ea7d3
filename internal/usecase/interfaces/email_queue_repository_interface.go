package interfaces

import (
	"context"
	"time"

	"pagamentos_xpto/internal/domain/entities"
)

// IEmailQueueRepository abstracts DynamoDB persistence for EmailQueueItem.
//
// ListPendingDue returns items with status=pending, scheduled_for <= now and
// attempts < max_attempts, oldest first, at most limit items.

type IEmailQueueRepository interface {
	ListPendingDue(ctx context.Context, now time.Time, limit int) ([]entities.EmailQueueItem, error)
	Update(ctx context.Context, item entities.EmailQueueItem) (entities.EmailQueueItem, error)
}
