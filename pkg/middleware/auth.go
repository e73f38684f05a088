package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const contextKeyIdentity contextKey = "identity"

// Claims are the token claims the ledger understands. The subject is the
// user id; Admin grants back-office operations.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and stores the caller's
// economy.Identity in the request context.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator for tokens signed with secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			api.WriteMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, err := a.Verify(raw)
		if err != nil {
			api.WriteMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Verify parses a signed token into an Identity.
func (a *Authenticator) Verify(raw string) (economy.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return economy.Identity{}, err
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return economy.Identity{}, errors.New("token has no subject")
	}
	return economy.Identity{UserID: sub, IsAdmin: claims.Admin}, nil
}

// Sign issues a token for id. Used by tooling and tests.
func (a *Authenticator) Sign(id economy.Identity, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		Admin: id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id economy.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, id)
}

// IdentityFrom returns the caller stored by the Authenticator.
func IdentityFrom(ctx context.Context) (economy.Identity, bool) {
	id, ok := ctx.Value(contextKeyIdentity).(economy.Identity)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Caller returns the authenticated identity or writes 401.
func Caller(w http.ResponseWriter, r *http.Request) (economy.Identity, bool) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		api.WriteMessage(w, http.StatusUnauthorized, "unauthenticated")
	}
	return id, ok
}
