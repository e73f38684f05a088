// Package handlers mounts the ledger's HTTP API on a chi router.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/admin"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/rewards"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/wallets"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/withdrawals"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ApiHandler implements the generated server interface by composing the
// per-area handlers.
type ApiHandler struct {
	*wallets.WalletsHandler
	*rewards.RewardsHandler
	*withdrawals.WithdrawalsHandler
	*admin.AdminHandler
}

// NewApiHandler creates a new ApiHandler over the economy service.
func NewApiHandler(svc *economy.Service) *ApiHandler {
	return &ApiHandler{
		WalletsHandler:     wallets.NewWalletsHandler(svc),
		RewardsHandler:     rewards.NewRewardsHandler(svc),
		WithdrawalsHandler: withdrawals.NewWithdrawalsHandler(svc),
		AdminHandler:       admin.NewAdminHandler(svc),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// limitedRoutes maps the route patterns that are rate limited to the name
// they are reported under.
var limitedRoutes = map[string]string{
	"/bonus/daily":            "bonus",
	"/redeem":                 "redeem",
	"/withdrawals":            "withdrawals",
	"/wallets/{userId}/debit": "spend",
}

// Options are the router's dependencies. Limiter and Metrics are optional.
type Options struct {
	Service *economy.Service
	Auth    *middleware.Authenticator
	Limiter *middleware.RateLimiter
	Logger  *slog.Logger
	Metrics http.Handler
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewStructuredLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(opts.Auth.Middleware)

		var mws []api.MiddlewareFunc
		if opts.Limiter != nil {
			mws = append(mws, rateLimit(opts.Limiter))
		}
		api.HandlerWithOptions(NewApiHandler(opts.Service), api.ChiServerOptions{
			BaseRouter:  r,
			Middlewares: mws,
			ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
				api.WriteMessage(w, http.StatusBadRequest, err.Error())
			},
		})
	})

	return r
}

// rateLimit applies the limiter to the matched route when it is one of
// limitedRoutes. It runs inside the generated wrapper, after routing.
func rateLimit(l *middleware.RateLimiter) api.MiddlewareFunc {
	limited := make(map[string]func(http.Handler) http.Handler, len(limitedRoutes))
	for pattern, name := range limitedRoutes {
		limited[pattern] = l.Middleware(name)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mw, ok := limited[chi.RouteContext(r.Context()).RoutePattern()]
			if !ok || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			mw(next).ServeHTTP(w, r)
		})
	}
}
