package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/atlvs/cartflow/internal/aws"
	"github.com/atlvs/cartflow/internal/cart"
)

// Record is the shape persisted in the snapshots DynamoDB table: one row per
// cart slot holding the full canonical item list.
type Record struct {
	Slot      string      `dynamodbav:"slot"` // PK
	Items     []cart.Item `dynamodbav:"items"`
	Revision  string      `dynamodbav:"revision"` // uuid, new on every write
	UpdatedAt time.Time   `dynamodbav:"updated_at"`
	ExpiresAt int64       `dynamodbav:"expires_at,omitempty"` // TTL epoch seconds
}

// ErrRevisionConflict signals a conditional write lost to a concurrent
// writer; the caller should reload before retrying.
var ErrRevisionConflict = errors.New("snapshot revision conflict")

// Store encapsulates snapshot operations against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // 0 disables TTL
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// Get fetches the record for a slot. Returns (nil, nil) if the slot has
// never been written.
func (s *Store) Get(ctx context.Context, slot string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"slot": &types.AttributeValueMemberS{Value: slot},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &rec, nil
}

// Put writes the items for a slot and returns the new record. A non-empty
// prevRevision makes the write conditional on the stored revision still
// matching (ErrRevisionConflict otherwise); an empty prevRevision overwrites
// unconditionally, which is what a fresh remote load wants.
func (s *Store) Put(ctx context.Context, slot string, items []cart.Item, prevRevision string) (*Record, error) {
	now := s.nowFunc()
	rec := Record{
		Slot:      slot,
		Items:     items,
		Revision:  uuid.NewString(),
		UpdatedAt: now,
	}
	if s.ttlWindow > 0 {
		rec.ExpiresAt = now.Add(s.ttlWindow).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}
	if prevRevision != "" {
		input.ConditionExpression = awsString("attribute_not_exists(slot) OR revision = :prev")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberS{Value: prevRevision},
		}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return nil, ErrRevisionConflict
		}
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &rec, nil
}

// Delete removes the slot's record. Missing slots are not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"slot": &types.AttributeValueMemberS{Value: slot},
		},
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Load implements cart.SnapshotStore.
func (s *Store) Load(ctx context.Context, slot string) ([]cart.Item, string, error) {
	rec, err := s.Get(ctx, slot)
	if err != nil {
		return nil, "", err
	}
	if rec == nil {
		return nil, "", nil
	}
	return rec.Items, rec.Revision, nil
}

// Save implements cart.SnapshotStore.
func (s *Store) Save(ctx context.Context, slot string, items []cart.Item, prevRevision string) (string, error) {
	rec, err := s.Put(ctx, slot, items, prevRevision)
	if err != nil {
		return "", err
	}
	return rec.Revision, nil
}

func awsString(v string) *string { return &v }
