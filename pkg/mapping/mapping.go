package mapping

import (
	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/google/uuid"
)

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:      wallet.UserId,
		Coins:       wallet.Coins,
		LockedCoins: wallet.LockedCoins,
		LastBonusAt: wallet.LastBonusAt,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:   toUUID(entry.EntryID),
		UserId:    entry.UserID,
		Type:      api.LedgerEntryType(entry.Type),
		Bucket:    string(entry.Bucket),
		Amount:    entry.Amount,
		Reason:    string(entry.Reason),
		Code:      optional(entry.Code),
		Note:      optional(entry.Note),
		CreatedAt: entry.CreatedAt,
	}
	if entry.WithdrawalID != "" {
		id := toUUID(entry.WithdrawalID)
		out.WithdrawalId = &id
	}
	return out
}

// ToApiLedgerEntries converts a slice of ledger entries.
func ToApiLedgerEntries(entries []models.LedgerEntry) []*api.LedgerEntry {
	out := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		out[i] = ToApiLedgerEntry(&entries[i])
	}
	return out
}

// ToApiInboxMessages converts a slice of inbox messages.
func ToApiInboxMessages(msgs []models.InboxMessage) []*api.InboxMessage {
	out := make([]*api.InboxMessage, len(msgs))
	for i, m := range msgs {
		out[i] = &api.InboxMessage{
			MessageId: toUUID(m.MessageID),
			Title:     m.Title,
			Body:      m.Body,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}

// ToApiWithdrawal converts a domain Withdrawal model to an API Withdrawal model.
func ToApiWithdrawal(w *models.Withdrawal) *api.Withdrawal {
	return &api.Withdrawal{
		Id:          toUUID(w.Id),
		UserId:      w.UserId,
		Amount:      w.Amount,
		Destination: w.Destination,
		Name:        optional(w.Name),
		Status:      api.WithdrawalStatus(w.Status),
		Notes:       optional(w.Notes),
		CreatedAt:   w.CreatedAt,
		ResolvedAt:  w.ResolvedAt,
	}
}

// ToApiWithdrawals converts a slice of withdrawals.
func ToApiWithdrawals(ws []models.Withdrawal) []*api.Withdrawal {
	out := make([]*api.Withdrawal, len(ws))
	for i := range ws {
		out[i] = ToApiWithdrawal(&ws[i])
	}
	return out
}

// ToApiRedeemCode converts a domain RedeemCode model to an API RedeemCode model.
func ToApiRedeemCode(c *models.RedeemCode) *api.RedeemCode {
	return &api.RedeemCode{
		Code:      c.Code,
		AmountMin: c.AmountMin,
		AmountMax: c.AmountMax,
		UsesLeft:  c.UsesLeft,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

// ToApiRewardResult converts a credited amount and the resulting wallet.
func ToApiRewardResult(amount int64, wallet *models.Wallet) *api.RewardResult {
	return &api.RewardResult{
		Amount: amount,
		Wallet: *ToApiWallet(wallet),
	}
}

// Ids minted by the stores are UUIDs; anything else maps to the nil UUID.
func toUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
