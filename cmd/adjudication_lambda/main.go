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

	// Dependencies are built once per cold start.
	deps, err := bootstrap.Build(context.Background(), cfg, bootstrap.NewLogger(cfg), metrics.LedgerMetrics())
	if err != nil {
		log.Fatalf("failed to initialise dependencies: %v", err)
	}

	a := &adjudicator{service: deps.Service}
	lambda.Start(a.HandleRequest)
}
