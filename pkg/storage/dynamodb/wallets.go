package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// GetWallet retrieves a user's wallet from DynamoDB by their user ID.
// A user who has never been credited gets an empty wallet at version 0.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet user ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.WalletsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return &models.Wallet{UserId: userID}, nil
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// Adjust applies a single balance change and its ledger entry atomically.
func (s *Store) Adjust(ctx context.Context, adj storage.Adjustment) (*models.Wallet, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	var result models.Wallet
	err := s.commit(ctx, "adjust", func(ctx context.Context) ([]types.TransactWriteItem, error) {
		current, err := s.GetWallet(ctx, adj.UserID)
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

		result = next
		return []types.TransactWriteItem{update, entry}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "wallet adjusted", "user_id", adj.UserID, "reason", adj.Reason, "version", result.Version)
	return &result, nil
}

// walletUpdate writes next over prev, conditioned on prev still being the
// stored version. A version 0 wallet must not exist yet.
func (s *Store) walletUpdate(prev, next models.Wallet) (types.TransactWriteItem, error) {
	now, err := attributevalue.Marshal(next.UpdatedAt)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal wallet timestamp: %w", err)
	}

	expr := "SET coins = :coins, locked_coins = :locked, version = :next, updated_at = :now, created_at = if_not_exists(created_at, :now)"
	values := map[string]types.AttributeValue{
		":coins":  number(next.Coins),
		":locked": number(next.LockedCoins),
		":next":   number(next.Version),
		":now":    now,
	}
	if next.LastBonusAt != nil {
		stamp, err := attributevalue.Marshal(*next.LastBonusAt)
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("failed to marshal bonus timestamp: %w", err)
		}
		expr += ", last_bonus_at = :last_bonus_at"
		values[":last_bonus_at"] = stamp
	}

	condition := "attribute_not_exists(user_id)"
	if prev.Version > 0 {
		condition = "version = :version"
		values[":version"] = number(prev.Version)
	}

	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.WalletsTableName),
			Key: map[string]types.AttributeValue{
				"user_id": &types.AttributeValueMemberS{Value: next.UserId},
			},
			UpdateExpression:          aws.String(expr),
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeValues: values,
		},
	}, nil
}

func number(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}
