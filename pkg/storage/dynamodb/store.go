package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the DynamoDB tables backing the Store.
type Tables struct {
	Wallets     string
	Ledger      string
	RedeemCodes string
	Withdrawals string
	Inbox       string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client               DynamoDBAPI
	WalletsTableName     string
	LedgerTableName      string
	RedeemCodesTableName string
	WithdrawalsTableName string
	InboxTableName       string

	// MaxAttempts bounds how often a unit is retried on a version conflict.
	MaxAttempts int
	// Backoff is the base delay between conflicting attempts.
	Backoff time.Duration
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:               client,
		WalletsTableName:     tables.Wallets,
		LedgerTableName:      tables.Ledger,
		RedeemCodesTableName: tables.RedeemCodes,
		WithdrawalsTableName: tables.Withdrawals,
		InboxTableName:       tables.Inbox,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	userCreatedAtIndex   = "user_id-created_at-index"
	statusCreatedAtIndex = "status-created_at-index"
)
