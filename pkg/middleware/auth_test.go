package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "ledger-test-secret"

func serve(a *Authenticator, header string) (*httptest.ResponseRecorder, economy.Identity, bool) {
	var (
		seen   economy.Identity
		called bool
	)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, called = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rr, req)
	return rr, seen, called
}

func TestAuthenticator(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	a := NewAuthenticator(testSecret)
	a.now = func() time.Time { return now }

	t.Run("Valid Token", func(t *testing.T) {
		token, err := a.Sign(economy.Identity{UserID: "alice", IsAdmin: true}, time.Minute)
		require.NoError(t, err)

		rr, id, called := serve(a, "Bearer "+token)

		assert.Equal(t, http.StatusTeapot, rr.Code)
		require.True(t, called)
		assert.Equal(t, economy.Identity{UserID: "alice", IsAdmin: true}, id)
	})

	t.Run("Missing Header", func(t *testing.T) {
		rr, _, called := serve(a, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})

	t.Run("Wrong Scheme", func(t *testing.T) {
		rr, _, _ := serve(a, "Basic abc")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token, err := a.Sign(economy.Identity{UserID: "alice"}, -time.Minute)
		require.NoError(t, err)

		rr, _, called := serve(a, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewAuthenticator("other-secret")
		other.now = a.now
		token, err := other.Sign(economy.Identity{UserID: "alice"}, time.Minute)
		require.NoError(t, err)

		rr, _, _ := serve(a, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Missing Subject", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		rr, _, _ := serve(a, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejects Other Algorithms", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		rr, _, _ := serve(a, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestCaller(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := Caller(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
