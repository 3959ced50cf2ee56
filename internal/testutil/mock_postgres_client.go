package testutil

import (
	"context"
	"sync"

	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/postgres"
	"github.com/Ontinet-com/contract/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

type mockTxKey struct{}

// MockPostgresClient gives in-memory stores transaction semantics. Top level
// transactions run one at a time. A failing transaction, nested or not,
// restores every registered store to the state it had when it began.
type MockPostgresClient struct {
	mu     sync.Mutex
	logger *logger.Logger
	stores []Snapshotter
}

// NewMockPostgresClient creates a new mock postgres client over stores
func NewMockPostgresClient(logger *logger.Logger, stores ...Snapshotter) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
		stores: stores,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if _, nested := ctx.Value(mockTxKey{}).(string); nested {
		return c.run(ctx, fn)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	txID := types.GenerateUUID()
	ctx = context.WithValue(ctx, mockTxKey{}, txID)
	ctx = context.WithValue(ctx, types.CtxDBTransaction, txID)
	return c.run(ctx, fn)
}

func (c *MockPostgresClient) run(ctx context.Context, fn func(context.Context) error) (err error) {
	snapshots := make([]any, len(c.stores))
	for i, s := range c.stores {
		snapshots[i] = s.Snapshot()
	}
	restore := func() {
		for i, s := range c.stores {
			s.Restore(snapshots[i])
		}
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		c.logger.Debugw("rolling back in-memory transaction", "error", err)
		restore()
	}
	return err
}

// InTx reports whether ctx carries a transaction of this client
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(mockTxKey{}).(string)
	return ok
}
