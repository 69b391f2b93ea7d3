package interfaces

import (
	"context"
	"pagamentos_xpto/internal/domain/entities"
)

// IPaymentTransactionRepository abstracts DynamoDB persistence for
// PaymentTransaction.
//
// GetByProviderTransactionID resolves the provider's correlation key
// (unique per provider); a zero-value entity means not found.

type IPaymentTransactionRepository interface {
	Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error)
	GetByProviderTransactionID(ctx context.Context, provider, transactionID string) (entities.PaymentTransaction, error)
	Update(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
}
