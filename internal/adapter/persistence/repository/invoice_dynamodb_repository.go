package repository

import (
	"context"
	"strconv"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	"pagamentos_xpto/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultInvoicesTableName = "invoices"

type invoiceItem struct {
	ID                   string `dynamodbav:"id"`
	Status               string `dynamodbav:"status"`
	AmountDue            string `dynamodbav:"amount_due"`
	ProviderSessionID    string `dynamodbav:"provider_session_id,omitempty"`
	PaymentLinkExpiresAt string `dynamodbav:"payment_link_expires_at,omitempty"`
	CreatedAt            string `dynamodbav:"created_at"`
	UpdatedAt            string `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository reads invoices from DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Writes are owned by the billing flow; reconciliation only correlates.

type InvoiceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	amountDue, _ := strconv.ParseFloat(it.AmountDue, 64)
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Invoice{
		ID:                   it.ID,
		Status:               entities.InvoiceStatus(it.Status),
		AmountDue:            amountDue,
		ProviderSessionID:    it.ProviderSessionID,
		PaymentLinkExpiresAt: stringToOptionalTime(it.PaymentLinkExpiresAt),
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}
}
