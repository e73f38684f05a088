package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// Redeem consumes one use of a code and credits the drawn amount. The use
// count is conditioned on the value read, so the last use goes to exactly
// one caller.
func (s *Store) Redeem(ctx context.Context, r storage.Redemption) (*storage.RewardResult, error) {
	var result storage.RewardResult
	err := s.commit(ctx, "redeem", func(ctx context.Context) ([]types.TransactWriteItem, error) {
		code, err := s.getRedeemCode(ctx, r.Code)
		if err != nil {
			return nil, err
		}
		if err := storage.CheckRedeemable(code, r.Now); err != nil {
			return nil, err
		}

		amount := r.Amount(code.AmountMin, code.AmountMax)
		adj := r.Adjustment(amount)
		if err := adj.Validate(); err != nil {
			return nil, err
		}

		current, err := s.GetWallet(ctx, r.UserID)
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

		result = storage.RewardResult{Amount: amount, Wallet: next}
		return []types.TransactWriteItem{s.consumeUse(code), update, entry}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "code redeemed", "user_id", r.UserID, "code", r.Code, "amount", result.Amount)
	return &result, nil
}

func (s *Store) consumeUse(code *models.RedeemCode) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.RedeemCodesTableName),
			Key: map[string]types.AttributeValue{
				"code": &types.AttributeValueMemberS{Value: code.Code},
			},
			UpdateExpression:    aws.String("SET uses_left = :next"),
			ConditionExpression: aws.String("uses_left = :uses"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uses": number(code.UsesLeft),
				":next": number(code.UsesLeft - 1),
			},
		},
	}
}

func (s *Store) getRedeemCode(ctx context.Context, code string) (*models.RedeemCode, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.RedeemCodesTableName),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: code},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get redeem code from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrInvalidCode
	}

	var rc models.RedeemCode
	if err := attributevalue.UnmarshalMap(result.Item, &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal redeem code: %w", err)
	}
	return &rc, nil
}

// CreateRedeemCode stores a new code. Codes are never overwritten.
func (s *Store) CreateRedeemCode(ctx context.Context, code *models.RedeemCode) (*models.RedeemCode, error) {
	av, err := attributevalue.MarshalMap(code)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal redeem code: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.RedeemCodesTableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#code)"),
		ExpressionAttributeNames: map[string]string{
			"#code": "code",
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrCodeExists
		}
		return nil, fmt.Errorf("failed to create redeem code in DynamoDB: %w", err)
	}

	return code, nil
}
