package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/google/uuid"
)

// CreateWithdrawal locks the requested coins and records a pending request
// in one unit.
func (s *Store) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	if w.Id == "" {
		w.Id = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.Status = models.PENDING

	adj := storage.LockAdjustment(w)
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	wAV, err := attributevalue.MarshalMap(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal: %w", err)
	}

	err = s.commit(ctx, "create withdrawal", func(ctx context.Context) ([]types.TransactWriteItem, error) {
		current, err := s.GetWallet(ctx, w.UserId)
		if err != nil {
			return nil, err
		}
		next, err := adj.Apply(*current)
		if err != nil {
			return nil, err
		}

		update, err := s.walletUpdate(*current, next)
		if err != nil {
			return nil, err
		}
		entry, err := s.ledgerPut(adj.Entry())
		if err != nil {
			return nil, err
		}

		put := types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.WithdrawalsTableName),
				Item:                wAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		}
		return []types.TransactWriteItem{update, entry, put}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "withdrawal created", "withdrawal", w)
	return w, nil
}

// GetWithdrawal retrieves a withdrawal request by its ID.
func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.WithdrawalsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrWithdrawalNotFound
	}

	var w models.Withdrawal
	if err := attributevalue.UnmarshalMap(result.Item, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal: %w", err)
	}
	return &w, nil
}

// ListWithdrawalsByUserID returns a user's requests, newest first.
func (s *Store) ListWithdrawalsByUserID(ctx context.Context, userID string, limit int32) ([]models.Withdrawal, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.WithdrawalsTableName),
		IndexName:              aws.String(userCreatedAtIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for withdrawals by user ID: %w", err)
	}

	var withdrawals []models.Withdrawal
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &withdrawals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawals: %w", err)
	}
	return withdrawals, nil
}

// GetStaleWithdrawals returns pending requests older than maxAge.
func (s *Store) GetStaleWithdrawals(ctx context.Context, maxAge time.Duration) ([]models.Withdrawal, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.WithdrawalsTableName),
		IndexName:              aws.String(statusCreatedAtIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":cutoff": &types.AttributeValueMemberS{Value: cutoffKey(cutoff)},
		},
	}

	var withdrawals []models.Withdrawal
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query for stale withdrawals: %w", err)
		}

		var page []models.Withdrawal
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stale withdrawals: %w", err)
		}
		for _, w := range page {
			if w.CreatedAt.Before(cutoff) {
				withdrawals = append(withdrawals, w)
			}
		}

		if len(result.LastEvaluatedKey) == 0 {
			return withdrawals, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// cutoffKey is an upper bound for created_at in the sort key. Timestamps
// are stored as RFC3339Nano, whose fraction has no fixed width, so string
// order only holds to the second. The key rounds the cutoff up to the next
// whole second; callers filter the result against the exact cutoff.
func cutoffKey(cutoff time.Time) string {
	return cutoff.UTC().Truncate(time.Second).Add(time.Second).Format(time.RFC3339)
}
