package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 10 * time.Millisecond
)

// unitPlan reads current state and returns the writes of one atomic unit.
// It runs again on every attempt so each attempt sees fresh versions.
type unitPlan func(ctx context.Context) ([]types.TransactWriteItem, error)

// commit executes plan inside TransactWriteItems, retrying when another
// writer changed a record the plan read. Errors returned by the plan itself
// are business failures and are returned unchanged.
func (s *Store) commit(ctx context.Context, op string, plan unitPlan) error {
	attempts := s.maxAttempts()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := plan(ctx)
		if err != nil {
			return err
		}

		_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items,
		})
		if err == nil {
			return nil
		}
		if !isConflict(err) {
			return fmt.Errorf("failed to execute %s: %w", op, err)
		}

		slog.Log(ctx, slog.LevelDebug, "write conflict", "op", op, "attempt", attempt)
		if attempt >= attempts {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
		if err := s.wait(ctx, attempt); err != nil {
			return err
		}
	}
}

// isConflict reports whether a transaction was cancelled because a
// version check failed or a concurrent transaction touched the same items.
func isConflict(err error) bool {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed", "TransactionConflict":
				return true
			}
		}
		return false
	}
	var conflict *types.TransactionConflictException
	return errors.As(err, &conflict)
}

func (s *Store) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return s.MaxAttempts
}

func (s *Store) wait(ctx context.Context, attempt int) error {
	base := s.Backoff
	if base <= 0 {
		base = defaultBackoff
	}
	delay := base << (attempt - 1)
	delay += time.Duration(rand.Int64N(int64(base)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
