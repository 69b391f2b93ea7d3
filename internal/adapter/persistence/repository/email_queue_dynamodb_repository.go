package repository

import (
	"context"
	"errors"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	"pagamentos_xpto/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultEmailQueueTableName = "email_queue"
	emailQueueStatusIndex      = "status-created_at-index"

	// Fixed-width layout so lexicographic order in the GSI sort key matches
	// chronological order (RFC3339Nano trims trailing zeros and breaks that).
	queueTimeLayout = "2006-01-02T15:04:05.000Z"
)

type emailQueueItemRecord struct {
	ID             string `dynamodbav:"id"`
	RecipientEmail string `dynamodbav:"recipient_email"`
	RecipientName  string `dynamodbav:"recipient_name,omitempty"`
	Subject        string `dynamodbav:"subject"`
	HTMLBody       string `dynamodbav:"html_body"`
	TextBody       string `dynamodbav:"text_body,omitempty"`
	Status         string `dynamodbav:"status"`
	Attempts       int    `dynamodbav:"attempts"`
	MaxAttempts    int    `dynamodbav:"max_attempts"`
	ScheduledFor   string `dynamodbav:"scheduled_for"`
	LastAttemptAt  string `dynamodbav:"last_attempt_at,omitempty"`
	SentAt         string `dynamodbav:"sent_at,omitempty"`
	ErrorMessage   string `dynamodbav:"error_message,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// EmailQueueDynamoRepository persists EmailQueueItem entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-created_at-index (PK: status, SK: created_at)
//
// The GSI yields pending items oldest first; eligibility (scheduled_for,
// attempts budget) is narrowed with a filter expression.

type EmailQueueDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEmailQueueRepository = (*EmailQueueDynamoRepository)(nil)

func NewEmailQueueDynamoRepository(ddb *dynamodb.Client) *EmailQueueDynamoRepository {
	return &EmailQueueDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("EMAIL_QUEUE_TABLE", defaultEmailQueueTableName),
	}
}

func (r *EmailQueueDynamoRepository) ListPendingDue(ctx context.Context, now time.Time, limit int) ([]entities.EmailQueueItem, error) {
	items := make([]entities.EmailQueueItem, 0, limit)

	// The filter runs after the page limit, so keep paging until the batch is
	// full or the index is exhausted.
	var startKey map[string]types.AttributeValue
	for len(items) < limit {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(emailQueueStatusIndex),
			KeyConditionExpression: aws.String("#status = :pending"),
			FilterExpression:       aws.String("scheduled_for <= :now AND attempts < max_attempts"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pending": &types.AttributeValueMemberS{Value: string(entities.EmailQueueStatusPending)},
				":now":     &types.AttributeValueMemberS{Value: now.UTC().Format(queueTimeLayout)},
			},
			ScanIndexForward:  aws.Bool(true),
			Limit:             aws.Int32(int32(limit)),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range out.Items {
			var rec emailQueueItemRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, err
			}
			items = append(items, fromEmailQueueItemRecord(rec))
			if len(items) == limit {
				break
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

func (r *EmailQueueDynamoRepository) Update(ctx context.Context, item entities.EmailQueueItem) (entities.EmailQueueItem, error) {
	rec := toEmailQueueItemRecord(item)
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return entities.EmailQueueItem{}, err
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
			return entities.EmailQueueItem{}, nil
		}
		return entities.EmailQueueItem{}, err
	}
	return item, nil
}

func toEmailQueueItemRecord(item entities.EmailQueueItem) emailQueueItemRecord {
	return emailQueueItemRecord{
		ID:             item.ID,
		RecipientEmail: item.RecipientEmail,
		RecipientName:  item.RecipientName,
		Subject:        item.Subject,
		HTMLBody:       item.HTMLBody,
		TextBody:       item.TextBody,
		Status:         string(item.Status),
		Attempts:       item.Attempts,
		MaxAttempts:    item.MaxAttempts,
		ScheduledFor:   item.ScheduledFor.UTC().Format(queueTimeLayout),
		LastAttemptAt:  optionalTimeToStringLayout(item.LastAttemptAt, queueTimeLayout),
		SentAt:         optionalTimeToStringLayout(item.SentAt, queueTimeLayout),
		ErrorMessage:   item.ErrorMessage,
		CreatedAt:      item.CreatedAt.UTC().Format(queueTimeLayout),
		UpdatedAt:      item.UpdatedAt.UTC().Format(queueTimeLayout),
	}
}

func fromEmailQueueItemRecord(rec emailQueueItemRecord) entities.EmailQueueItem {
	scheduledFor, _ := time.Parse(queueTimeLayout, rec.ScheduledFor)
	createdAt, _ := time.Parse(queueTimeLayout, rec.CreatedAt)
	updatedAt, _ := time.Parse(queueTimeLayout, rec.UpdatedAt)
	return entities.EmailQueueItem{
		ID:             rec.ID,
		RecipientEmail: rec.RecipientEmail,
		RecipientName:  rec.RecipientName,
		Subject:        rec.Subject,
		HTMLBody:       rec.HTMLBody,
		TextBody:       rec.TextBody,
		Status:         entities.EmailQueueStatus(rec.Status),
		Attempts:       rec.Attempts,
		MaxAttempts:    rec.MaxAttempts,
		ScheduledFor:   scheduledFor,
		LastAttemptAt:  stringToOptionalTimeLayout(rec.LastAttemptAt, queueTimeLayout),
		SentAt:         stringToOptionalTimeLayout(rec.SentAt, queueTimeLayout),
		ErrorMessage:   rec.ErrorMessage,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}
