package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/chris/coin-rewards-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, getFrom("wallets")).Once().
			Return(itemOutput(t, &models.Wallet{UserId: "user1", Coins: 50, Version: 3}), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3 && aws.ToString(in.TransactItems[2].Put.TableName) == "withdrawals"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		w, err := store.CreateWithdrawal(context.Background(), &models.Withdrawal{UserId: "user1", Amount: 20, Destination: "user@upi"})

		assert.NoError(t, err)
		assert.NotEmpty(t, w.Id)
		assert.Equal(t, models.PENDING, w.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, getFrom("wallets")).Once().
			Return(itemOutput(t, &models.Wallet{UserId: "user1", Coins: 19, Version: 3}), nil)

		_, err := store.CreateWithdrawal(context.Background(), &models.Withdrawal{UserId: "user1", Amount: 20, Destination: "user@upi"})

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})
}

func TestGetWithdrawal(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, getFrom("withdrawals")).Once().Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetWithdrawal(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrWithdrawalNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := store.GetWithdrawal(context.Background(), "w1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get withdrawal from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListWithdrawalsByUserID(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	items, err := attributevalue.MarshalList([]models.Withdrawal{
		{Id: "w2", UserId: "user1", Amount: 30, Status: models.PENDING},
		{Id: "w1", UserId: "user1", Amount: 20, Status: models.PAID},
	})
	require.NoError(t, err)
	var maps []map[string]types.AttributeValue
	for _, item := range items {
		maps = append(maps, item.(*types.AttributeValueMemberM).Value)
	}

	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == userCreatedAtIndex && !aws.ToBool(in.ScanIndexForward) && aws.ToInt32(in.Limit) == 50
	})).Once().Return(&dynamodb.QueryOutput{Items: maps}, nil)

	got, err := store.ListWithdrawalsByUserID(context.Background(), "user1", 50)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "w2", got[0].Id)
	mockClient.AssertExpectations(t)
}

func TestGetStaleWithdrawals(t *testing.T) {
	t.Run("Follows Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		first, err := attributevalue.MarshalMap(models.Withdrawal{Id: "w1", Status: models.PENDING})
		require.NoError(t, err)
		second, err := attributevalue.MarshalMap(models.Withdrawal{Id: "w2", Status: models.PENDING})
		require.NoError(t, err)

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == statusCreatedAtIndex && in.ExclusiveStartKey == nil
		})).Once().Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first}, LastEvaluatedKey: first}, nil)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Once().Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{second}}, nil)

		got, err := store.GetStaleWithdrawals(context.Background(), 72*time.Hour)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		mockClient.AssertExpectations(t)
	})

	t.Run("Filters Against Exact Cutoff", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		now := time.Now().UTC()
		stale, err := attributevalue.MarshalMap(models.Withdrawal{Id: "old", Status: models.PENDING, CreatedAt: now.Add(-100 * time.Hour)})
		require.NoError(t, err)
		fresh, err := attributevalue.MarshalMap(models.Withdrawal{Id: "new", Status: models.PENDING, CreatedAt: now.Add(-71 * time.Hour)})
		require.NoError(t, err)

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			key, ok := in.ExpressionAttributeValues[":cutoff"].(*types.AttributeValueMemberS)
			return ok && !strings.Contains(key.Value, ".")
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{stale, fresh}}, nil)

		got, err := store.GetStaleWithdrawals(context.Background(), 72*time.Hour)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "old", got[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Query Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.GetStaleWithdrawals(context.Background(), time.Hour)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query for stale withdrawals")
		mockClient.AssertExpectations(t)
	})
}

func TestCutoffKey(t *testing.T) {
	cutoff := time.Date(2024, 6, 1, 12, 0, 0, 300_000_000, time.UTC)
	key := cutoffKey(cutoff)

	assert.Equal(t, "2024-06-01T12:00:01Z", key)

	// Every timestamp earlier than the cutoff sorts below the key, whatever
	// the width of its fraction.
	for _, ts := range []time.Time{
		cutoff.Add(-time.Millisecond),
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 11, 59, 59, 999_999_999, time.UTC),
	} {
		assert.Less(t, ts.Format(time.RFC3339Nano), key, ts.String())
	}
}
