package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
)

// ListInbox returns a user's most recent inbox messages, newest first.
func (s *Store) ListInbox(ctx context.Context, userID string, limit int32) ([]models.InboxMessage, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.InboxTableName),
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
		return nil, fmt.Errorf("failed to query inbox: %w", err)
	}

	var messages []models.InboxMessage
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inbox messages: %w", err)
	}

	return messages, nil
}

func (s *Store) inboxPut(msg models.InboxMessage) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal inbox message: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(s.InboxTableName),
			Item:      av,
		},
	}, nil
}
