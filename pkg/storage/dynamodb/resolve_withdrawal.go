package dynamodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// ApproveWithdrawal marks a pending request paid, releases its locked coins
// and leaves the user an inbox message, all in one unit.
func (s *Store) ApproveWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(ctx, "approve withdrawal", res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.ApprovalAdjustment(w, res),
			storage.Resolve(w, models.PAID, res),
			storage.ApprovalMessage(w, res.ResolvedAt)
	})
}

// RejectWithdrawal marks a pending request rejected and refunds its coins.
func (s *Store) RejectWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(ctx, "reject withdrawal", res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.RejectionAdjustment(w, wallet, res),
			storage.Resolve(w, models.REJECTED, res),
			storage.RejectionMessage(w, res.Note, res.ResolvedAt)
	})
}

type resolver func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage)

func (s *Store) resolve(ctx context.Context, op string, res storage.Resolution, decide resolver) (*models.Withdrawal, error) {
	var result models.Withdrawal
	err := s.commit(ctx, op, func(ctx context.Context) ([]types.TransactWriteItem, error) {
		w, err := s.GetWithdrawal(ctx, res.RequestID)
		if err != nil {
			return nil, err
		}
		if err := storage.CheckPending(w); err != nil {
			return nil, err
		}

		current, err := s.GetWallet(ctx, w.UserId)
		if err != nil {
			return nil, err
		}
		adj, resolved, msg := decide(w, *current)
		next, err := adj.Apply(*current)
		if err != nil {
			return nil, err
		}

		status, err := s.statusUpdate(resolved)
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
		inbox, err := s.inboxPut(msg)
		if err != nil {
			return nil, err
		}

		result = resolved
		return []types.TransactWriteItem{status, update, entry, inbox}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "withdrawal resolved", "withdrawal_id", result.Id, "status", result.Status)
	return &result, nil
}

// statusUpdate moves a request out of pending. The condition makes a
// concurrent resolution of the same request lose.
func (s *Store) statusUpdate(w models.Withdrawal) (types.TransactWriteItem, error) {
	resolvedAt, err := attributevalue.Marshal(w.ResolvedAt)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal resolved_at: %w", err)
	}

	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.WithdrawalsTableName),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: w.Id},
			},
			UpdateExpression:    aws.String("SET #status = :status, #notes = :notes, resolved_at = :resolved_at"),
			ConditionExpression: aws.String("#status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
				"#notes":  "notes",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status":      &types.AttributeValueMemberS{Value: string(w.Status)},
				":pending":     &types.AttributeValueMemberS{Value: string(models.PENDING)},
				":notes":       &types.AttributeValueMemberS{Value: w.Notes},
				":resolved_at": resolvedAt,
			},
		},
	}, nil
}
