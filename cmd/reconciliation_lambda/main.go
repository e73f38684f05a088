package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/coin-rewards-ledger/pkg/bootstrap"
	"github.com/chris/coin-rewards-ledger/pkg/config"
	"github.com/chris/coin-rewards-ledger/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.ReviewQueueURL == "" {
		log.Fatal("REVIEW_QUEUE_URL environment variable not set")
	}

	deps, err := bootstrap.Build(context.Background(), cfg, bootstrap.NewLogger(cfg), metrics.LedgerMetrics())
	if err != nil {
		log.Fatalf("failed to initialise dependencies: %v", err)
	}

	r := &reconciler{service: deps.Service, reviews: deps.Reviews}
	lambda.Start(r.HandleRequest)
}
