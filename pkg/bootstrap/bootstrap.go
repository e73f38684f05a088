// Package bootstrap wires configuration into the storage backend, the
// notification publisher and the economy service. The HTTP server and the
// Lambdas share it.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/coin-rewards-ledger/pkg/config"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/metrics"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	dydbstore "github.com/chris/coin-rewards-ledger/pkg/storage/dynamodb"
	"github.com/chris/coin-rewards-ledger/pkg/storage/memory"
	"github.com/chris/coin-rewards-ledger/pkg/storage/postgres"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. With LOG_FILE set, output goes to a
// size-rotated file instead of stdout.
func NewLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// Deps are the long-lived dependencies built from a Config.
type Deps struct {
	Store    storage.Storage
	Notifier notify.Notifier
	Reviews  notify.ReviewQueue
	Service  *economy.Service

	closers []io.Closer
}

// Close releases backend connections.
func (d *Deps) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build opens the configured backend and constructs the service. AWS
// configuration is only loaded when a DynamoDB table or SQS queue is used.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Ledger) (*Deps, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	deps := &Deps{}

	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		store := dydbstore.New(dynamodb.NewFromConfig(c), dydbstore.Tables{
			Wallets:     cfg.WalletsTable,
			Ledger:      cfg.LedgerTable,
			RedeemCodes: cfg.RedeemCodesTable,
			Withdrawals: cfg.WithdrawalsTable,
			Inbox:       cfg.InboxTable,
		})
		store.MaxAttempts = cfg.Policy.MaxAttempts
		deps.Store = store
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		store := postgres.New(db)
		store.MaxAttempts = cfg.Policy.MaxAttempts
		deps.Store = store
		deps.closers = append(deps.closers, db)
	case config.BackendMemory:
		logger.Warn("using in-memory storage; balances are lost on restart")
		deps.Store = memory.New()
	}

	deps.Notifier = notify.NoOpNotifier{}
	if cfg.NotificationQueueURL != "" {
		c, err := loadAWS()
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Notifier = notify.NewSQSQueue(sqs.NewFromConfig(c), cfg.NotificationQueueURL)
	}
	if cfg.ReviewQueueURL != "" {
		c, err := loadAWS()
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Reviews = notify.NewSQSQueue(sqs.NewFromConfig(c), cfg.ReviewQueueURL)
	}

	deps.Service = economy.New(deps.Store,
		economy.WithNotifier(deps.Notifier),
		economy.WithMetrics(m),
		economy.WithPolicy(cfg.Policy),
	)
	logger.Info("economy service ready", "backend", cfg.StorageBackend)
	return deps, nil
}
