package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	dbgen "github.com/noah-isme/backend-paygate/internal/db/gen"
	"github.com/noah-isme/backend-paygate/internal/obs"
)

// Querier defines the sqlc generated queries used by Store. It is implemented
// by *dbgen.Queries and stubbed in tests.
type Querier interface {
	InsertOrder(ctx context.Context, arg dbgen.InsertOrderParams) error
	GetOrderByProviderID(ctx context.Context, providerOrderID string) (dbgen.Order, error)
	UpdateOrderStatus(ctx context.Context, arg dbgen.UpdateOrderStatusParams) (int64, error)
	ListOrdersByMerchant(ctx context.Context, arg dbgen.ListOrdersByMerchantParams) ([]dbgen.Order, error)
	InsertWebhookEvent(ctx context.Context, arg dbgen.InsertWebhookEventParams) (int64, error)
	InsertSubscription(ctx context.Context, arg dbgen.InsertSubscriptionParams) error
	GetSubscription(ctx context.Context, id uuid.UUID) (dbgen.Subscription, error)
	DueSubscriptions(ctx context.Context, arg dbgen.DueSubscriptionsParams) ([]dbgen.Subscription, error)
	MarkRenewed(ctx context.Context, arg dbgen.MarkRenewedParams) (int64, error)
	MarkPastDue(ctx context.Context, arg dbgen.MarkPastDueParams) (int64, error)
}

// Store wraps the generated queries for orders, webhook events and
// subscriptions with record conversion and sentinel error mapping.
type Store struct {
	Pool *pgxpool.Pool
	Q    Querier
}

// New returns a Store bound to the provided pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool, Q: dbgen.New(pool)}
}

// Connect creates a pgx pool with query tracing enabled and verifies the
// connection before returning.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
