package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, isRetryable(fmt.Errorf("failed to update wallet: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("connection reset")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "40001"}))
}

func TestNullTimeRoundTrip(t *testing.T) {
	assert.False(t, nullTime(nil).Valid)
	assert.Nil(t, timePtr(nullTime(nil)))

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := timePtr(nullTime(&now))
	assert.Equal(t, now, *got)
}
