package interfaces

import (
	"context"
	"pagamentos_xpto/internal/domain/entities"
)

// IInvoiceRepository abstracts read access to invoices. Reconciliation only
// correlates against them; invoice writes happen upstream.

type IInvoiceRepository interface {
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
}
