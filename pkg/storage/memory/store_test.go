package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustRecordsEntry(t *testing.T) {
	store := New()
	ctx := context.Background()

	w, err := store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: 30, Reason: models.ReasonAdminGrant})
	require.NoError(t, err)
	assert.Equal(t, int64(30), w.Coins)
	assert.Equal(t, int64(1), w.Version)

	_, err = store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: -31, Reason: models.ReasonAdminDeduct})
	assert.ErrorIs(t, err, storage.ErrInsufficientFunds)

	entries, err := store.ListLedgerEntries(ctx, "u1", 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.CREDIT, entries[0].Type)
	assert.Equal(t, int64(30), entries[0].Amount)
}

func TestConcurrentDailyClaims(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Now().UTC()

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ClaimDailyBonus(ctx, storage.DailyClaim{UserID: "u1", Amount: 3, Cooldown: 24 * time.Hour, Now: now})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrCooldown)
	}
	assert.Equal(t, 1, succeeded)

	w, err := store.GetWallet(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.Coins)
}

func TestRedeemLastUse(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.CreateRedeemCode(ctx, &models.RedeemCode{Code: "ONE", AmountMin: 5, AmountMax: 5, UsesLeft: 1})
	require.NoError(t, err)

	_, err = store.CreateRedeemCode(ctx, &models.RedeemCode{Code: "ONE", AmountMin: 1, AmountMax: 1, UsesLeft: 1})
	assert.ErrorIs(t, err, storage.ErrCodeExists)

	res, err := store.Redeem(ctx, storage.Redemption{UserID: "u1", Code: "ONE", Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Amount)

	_, err = store.Redeem(ctx, storage.Redemption{UserID: "u2", Code: "ONE", Now: time.Now()})
	assert.ErrorIs(t, err, storage.ErrCodeExhausted)
}

func TestWithdrawalLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: 50, Reason: models.ReasonAdminGrant})
	require.NoError(t, err)

	w, err := store.CreateWithdrawal(ctx, &models.Withdrawal{UserId: "u1", Amount: 20, Destination: "u1@upi"})
	require.NoError(t, err)

	wallet, _ := store.GetWallet(ctx, "u1")
	assert.Equal(t, int64(30), wallet.Coins)
	assert.Equal(t, int64(20), wallet.LockedCoins)

	paid, err := store.ApproveWithdrawal(ctx, storage.Resolution{RequestID: w.Id, ResolvedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, models.PAID, paid.Status)

	_, err = store.RejectWithdrawal(ctx, storage.Resolution{RequestID: w.Id, ResolvedAt: time.Now()})
	assert.ErrorIs(t, err, storage.ErrAlreadyProcessed)

	wallet, _ = store.GetWallet(ctx, "u1")
	assert.Equal(t, int64(30), wallet.Coins)
	assert.Equal(t, int64(0), wallet.LockedCoins)

	inbox, err := store.ListInbox(ctx, "u1", 50)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Payout Successful", inbox[0].Title)
}

func TestUnitsOnDisjointWalletsDoNotBlock(t *testing.T) {
	store := New()
	ctx := context.Background()

	release := store.keys.lock(walletKey("u1"))

	done := make(chan error, 1)
	go func() {
		_, err := store.Adjust(ctx, storage.Adjustment{UserID: "u2", DeltaCoins: 5, Reason: models.ReasonAdminGrant})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("adjustment on another wallet waited for u1")
	}

	blocked := make(chan error, 1)
	go func() {
		_, err := store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: 5, Reason: models.ReasonAdminGrant})
		blocked <- err
	}()
	select {
	case <-blocked:
		t.Fatal("adjustment on u1 ran while its wallet was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	require.NoError(t, <-blocked)

	w, _ := store.GetWallet(ctx, "u1")
	assert.Equal(t, int64(5), w.Coins)
}

func TestConcurrentResolutionsPayOnce(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: 50, Reason: models.ReasonAdminGrant})
	require.NoError(t, err)
	w, err := store.CreateWithdrawal(ctx, &models.Withdrawal{UserId: "u1", Amount: 20, Destination: "u1@upi"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := storage.Resolution{RequestID: w.Id, ResolvedAt: time.Now()}
			var err error
			if i%2 == 0 {
				_, err = store.ApproveWithdrawal(ctx, res)
			} else {
				_, err = store.RejectWithdrawal(ctx, res)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrAlreadyProcessed)
	}
	assert.Equal(t, 1, succeeded)

	wallet, _ := store.GetWallet(ctx, "u1")
	assert.Equal(t, int64(0), wallet.LockedCoins)
	inbox, _ := store.ListInbox(ctx, "u1", 50)
	assert.Len(t, inbox, 1)
}

func TestListWithdrawalsTieBreak(t *testing.T) {
	store := New()
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Adjust(ctx, storage.Adjustment{UserID: "u1", DeltaCoins: 100, Reason: models.ReasonAdminGrant})
	require.NoError(t, err)
	for _, id := range []string{"b", "d", "a", "c"} {
		_, err := store.CreateWithdrawal(ctx, &models.Withdrawal{Id: id, UserId: "u1", Amount: 20, Destination: "u1@upi", CreatedAt: at})
		require.NoError(t, err)
	}
	_, err = store.CreateWithdrawal(ctx, &models.Withdrawal{Id: "e", UserId: "u1", Amount: 20, Destination: "u1@upi", CreatedAt: at.Add(time.Second)})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		list, err := store.ListWithdrawalsByUserID(ctx, "u1", 50)
		require.NoError(t, err)
		ids := make([]string, len(list))
		for j, w := range list {
			ids[j] = w.Id
		}
		assert.Equal(t, []string{"e", "d", "c", "b", "a"}, ids)
	}
}

func TestDailyBonusWritesNoInboxMessage(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.ClaimDailyBonus(ctx, storage.DailyClaim{UserID: "u1", Amount: 4, Cooldown: 24 * time.Hour, Now: time.Now().UTC()})
	require.NoError(t, err)

	inbox, err := store.ListInbox(ctx, "u1", 50)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}
