package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	"pagamentos_xpto/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultTransactionsTableName = "payment_transactions"
	transactionsTransactionIndex = "transaction_id-index"
)

type paymentTransactionItem struct {
	ID             string `dynamodbav:"id"`
	InvoiceID      string `dynamodbav:"invoice_id,omitempty"`
	TransactionID  string `dynamodbav:"transaction_id"`
	Provider       string `dynamodbav:"provider"`
	Amount         string `dynamodbav:"amount"`
	Currency       string `dynamodbav:"currency,omitempty"`
	Status         string `dynamodbav:"status"`
	RefundedAmount string `dynamodbav:"refunded_amount,omitempty"`

	ProviderMetadata    map[string]interface{} `dynamodbav:"provider_metadata,omitempty"`
	ProviderMetadataRaw string                 `dynamodbav:"provider_metadata_raw,omitempty"`

	WebhookReceivedAt string `dynamodbav:"webhook_received_at,omitempty"`
	WebhookVerified   bool   `dynamodbav:"webhook_verified"`
	CompletedAt       string `dynamodbav:"completed_at,omitempty"`
	RefundedAt        string `dynamodbav:"refunded_at,omitempty"`
	CreatedAt         string `dynamodbav:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
}

// PaymentTransactionDynamoRepository persists PaymentTransaction entities in
// DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: transaction_id-index (PK: transaction_id)
//
// transaction_id is unique per provider; the GSI is keyed on it alone and the
// provider is narrowed in the query filter.

type PaymentTransactionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentTransactionRepository = (*PaymentTransactionDynamoRepository)(nil)

func NewPaymentTransactionDynamoRepository(ddb *dynamodb.Client) *PaymentTransactionDynamoRepository {
	return &PaymentTransactionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENT_TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *PaymentTransactionDynamoRepository) Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	it := toPaymentTransactionItem(t)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	return t, nil
}

func (r *PaymentTransactionDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentTransaction{}, nil
	}

	var it paymentTransactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentTransaction{}, err
	}
	return fromPaymentTransactionItem(it), nil
}

func (r *PaymentTransactionDynamoRepository) GetByProviderTransactionID(ctx context.Context, provider, transactionID string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(transactionsTransactionIndex),
		KeyConditionExpression: aws.String("transaction_id = :tid"),
		FilterExpression:       aws.String("#provider = :provider"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid":      &types.AttributeValueMemberS{Value: transactionID},
			":provider": &types.AttributeValueMemberS{Value: provider},
		},
		ExpressionAttributeNames: map[string]string{
			"#provider": "provider",
		},
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Items) == 0 {
		return entities.PaymentTransaction{}, nil
	}

	var it paymentTransactionItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.PaymentTransaction{}, err
	}
	return fromPaymentTransactionItem(it), nil
}

// Update replaces the full row. The reconciliation engine is the only writer
// after creation, so last-writer-wins on the whole item is acceptable here.
func (r *PaymentTransactionDynamoRepository) Update(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	it := toPaymentTransactionItem(t)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.PaymentTransaction{}, nil
		}
		return entities.PaymentTransaction{}, err
	}
	return t, nil
}

func toPaymentTransactionItem(t entities.PaymentTransaction) paymentTransactionItem {
	return paymentTransactionItem{
		ID:                  t.ID,
		InvoiceID:           t.InvoiceID,
		TransactionID:       t.TransactionID,
		Provider:            t.Provider,
		Amount:              floatToString(t.Amount),
		Currency:            t.Currency,
		Status:              string(t.Status),
		RefundedAmount:      optionalFloatToString(t.RefundedAmount),
		ProviderMetadata:    t.ProviderMetadata,
		ProviderMetadataRaw: string(t.ProviderMetadataRaw),
		WebhookReceivedAt:   optionalTimeToString(t.WebhookReceivedAt),
		WebhookVerified:     t.WebhookVerified,
		CompletedAt:         optionalTimeToString(t.CompletedAt),
		RefundedAt:          optionalTimeToString(t.RefundedAt),
		CreatedAt:           t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromPaymentTransactionItem(it paymentTransactionItem) entities.PaymentTransaction {
	amount, _ := strconv.ParseFloat(it.Amount, 64)
	refunded := 0.0
	if it.RefundedAmount != "" {
		refunded, _ = strconv.ParseFloat(it.RefundedAmount, 64)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.PaymentTransaction{
		ID:                  it.ID,
		InvoiceID:           it.InvoiceID,
		TransactionID:       it.TransactionID,
		Provider:            it.Provider,
		Amount:              amount,
		Currency:            it.Currency,
		Status:              entities.TransactionStatus(it.Status),
		RefundedAmount:      refunded,
		ProviderMetadata:    it.ProviderMetadata,
		ProviderMetadataRaw: []byte(it.ProviderMetadataRaw),
		WebhookReceivedAt:   stringToOptionalTime(it.WebhookReceivedAt),
		WebhookVerified:     it.WebhookVerified,
		CompletedAt:         stringToOptionalTime(it.CompletedAt),
		RefundedAt:          stringToOptionalTime(it.RefundedAt),
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}
}
