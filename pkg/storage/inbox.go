package storage

import (
	"context"

	"github.com/chris/coin-rewards-ledger/pkg/models"
)

// InboxReader defines the interface for reading a user's stored notifications.
type InboxReader interface {
	ListInbox(ctx context.Context, userID string, limit int32) ([]models.InboxMessage, error)
}
