package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l4nzaerol/balagbag/internal/admin/metrics"
	"github.com/l4nzaerol/balagbag/internal/admin/orders"
)

// DefaultInterval matches the console's periodic refresh cadence.
const DefaultInterval = 30 * time.Second

// Lister is the slice of the backend service the controller needs.
type Lister interface {
	List(ctx context.Context) ([]orders.Order, error)
}

// Controller owns the snapshot lifecycle: initial load, the periodic ticker,
// and on-demand refreshes after mutations or explicit operator requests.
type Controller struct {
	backend  Lister
	store    *Store
	interval time.Duration
	logger   *zap.Logger
}

// NewController wires a sync controller around the store.
func NewController(backend Lister, store *Store, interval time.Duration, logger *zap.Logger) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:  backend,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Refresh fetches a fresh snapshot and replaces the store contents. A failed
// fetch leaves the previous snapshot untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	list, err := c.backend.List(ctx)
	if err != nil {
		metrics.SyncRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load orders: %w", err)
	}

	c.store.Replace(list)
	metrics.SyncRefreshes.WithLabelValues("ok").Inc()
	metrics.SnapshotOrders.Set(float64(len(list)))

	c.logger.Debug("order snapshot refreshed", zap.Int("orders", len(list)))
	return nil
}

// Run performs the initial load and then refreshes on a fixed interval until
// the context is cancelled. The ticker is always stopped on teardown so no
// background work leaks past the session.
func (c *Controller) Run(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.logger.Error("initial order sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("sync controller stopped")
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("periodic order sync failed", zap.Error(err))
			}
		}
	}
}
