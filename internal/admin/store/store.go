// Package store holds the in-memory order snapshot and the sync controller
// that keeps it fresh. The snapshot is a full-replacement cache: every
// refresh overwrites it wholesale, so overlapping fetches need no merge
// logic and last response wins.
package store

import (
	"sync"
	"time"

	"github.com/l4nzaerol/balagbag/internal/admin/orders"
)

// Store is the console's snapshot of all orders plus the statistics derived
// from it. Only the sync Controller mutates it; readers get copies.
type Store struct {
	mu       sync.RWMutex
	orders   []orders.Order
	stats    orders.Statistics
	syncedAt time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly fetched snapshot and recomputes the statistics.
// Statistics are always recounted from the full collection, never adjusted
// incrementally.
func (s *Store) Replace(list []orders.Order) {
	snapshot := make([]orders.Order, len(list))
	copy(snapshot, list)
	stats := orders.ComputeStatistics(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = snapshot
	s.stats = stats
	s.syncedAt = time.Now()
}

// Orders returns a copy of the current snapshot in backend order.
func (s *Store) Orders() []orders.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]orders.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get looks up a single order by ID in the current snapshot.
func (s *Store) Get(orderID int64) (orders.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return orders.Order{}, false
}

// Statistics returns the counts derived from the last snapshot. Independent
// of whatever filters an operator currently has active.
func (s *Store) Statistics() orders.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// SyncedAt reports when the snapshot was last replaced.
func (s *Store) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}
