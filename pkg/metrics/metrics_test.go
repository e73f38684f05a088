package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerObserve(t *testing.T) {
	m := NewLedger()

	m.Observe("claim_daily", "ok", 5*time.Millisecond)
	m.Observe("claim_daily", "ok", 5*time.Millisecond)
	m.Observe("claim_daily", "rejected", time.Millisecond)
	m.AddCoins("daily_bonus", 4)
	m.AddCoins("daily_bonus", 0)
	m.RecordThrottle("/bonus/daily")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("claim_daily", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("claim_daily", "rejected")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.coins.WithLabelValues("daily_bonus")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.throttles.WithLabelValues("/bonus/daily")))
}

func TestNilLedgerIsSafe(t *testing.T) {
	var m *Ledger
	m.Observe("redeem", "ok", time.Millisecond)
	m.AddCoins("redeem_code", 3)
	m.RecordThrottle("/redeem")
}
