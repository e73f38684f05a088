package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/coin-rewards-ledger/pkg/models"
)

func insertMessage(ctx context.Context, tx *sql.Tx, msg models.InboxMessage) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO inbox_messages (message_id, user_id, title, body, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.MessageID, msg.UserID, msg.Title, msg.Body, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inbox message: %w", err)
	}
	return nil
}

// ListInbox returns the user's messages, newest first.
func (s *Store) ListInbox(ctx context.Context, userID string, limit int32) ([]models.InboxMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, user_id, title, body, read, created_at
		 FROM inbox_messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inbox: %w", err)
	}
	defer rows.Close()

	var out []models.InboxMessage
	for rows.Next() {
		var m models.InboxMessage
		if err := rows.Scan(&m.MessageID, &m.UserID, &m.Title, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inbox message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
