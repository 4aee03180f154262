package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ application.RecordStore = (*Store)(nil)

const tokenAttr = "token"

// Store keeps one item per token in a DynamoDB table whose partition key is "token".
type Store struct {
	api   API
	table string
	ttl   time.Duration
}

// New returns a store over table. When ttl is positive every item carries an
// expires_at epoch attribute for the table's native TTL.
func New(api API, table string, ttl time.Duration) *Store {
	return &Store{api: api, table: table, ttl: ttl}
}

type item struct {
	Token     string    `dynamodbav:"token"`
	Hash      string    `dynamodbav:"hash"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	ExpiresAt int64     `dynamodbav:"expires_at,omitempty"`
}

func (s *Store) GetByToken(ctx context.Context, token string) (domain.IdempotencyRecord, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{tokenAttr: &types.AttributeValueMemberS{Value: token}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.IdempotencyRecord{}, false, fmt.Errorf("dynamodb get item: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.IdempotencyRecord{}, false, nil
	}
	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.IdempotencyRecord{}, false, &application.StoreError{Op: "decode", Err: fmt.Errorf("dynamodb item %q: %w", token, err)}
	}
	d, err := domain.ParseDigest(it.Hash)
	if err != nil {
		return domain.IdempotencyRecord{}, false, &application.StoreError{Op: "decode", Err: fmt.Errorf("dynamodb item %q: %w", token, err)}
	}
	return domain.IdempotencyRecord{Token: it.Token, Digest: d, CreatedAt: it.CreatedAt}, true, nil
}

func (s *Store) PutIfNew(ctx context.Context, rec domain.IdempotencyRecord) error {
	it := item{Token: rec.Token, Hash: rec.Digest.String(), CreatedAt: rec.CreatedAt}
	if s.ttl > 0 {
		it.ExpiresAt = rec.CreatedAt.Add(s.ttl).Unix()
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return &application.StoreError{Op: "encode", Err: fmt.Errorf("dynamodb item %q: %w", rec.Token, err)}
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#token)"),
		ExpressionAttributeNames: map[string]string{"#token": tokenAttr},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return application.ErrRecordExists
	}
	if err != nil {
		return fmt.Errorf("dynamodb put item: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	return err
}
