package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l4nzaerol/balagbag/internal/admin/orders"
)

type fakeLister struct {
	calls atomic.Int32
	list  []orders.Order
	err   error
}

func (f *fakeLister) List(ctx context.Context) ([]orders.Order, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func snapshot() []orders.Order {
	return []orders.Order{
		{ID: 1, Acceptance: orders.AcceptancePending, Status: orders.StatusPending},
		{ID: 2, Acceptance: orders.AcceptanceAccepted, Status: orders.StatusProcessing},
		{ID: 3, Acceptance: orders.AcceptanceRejected, Status: orders.StatusPending},
	}
}

func TestStoreReplaceRecomputesStatistics(t *testing.T) {
	t.Parallel()

	st := NewStore()
	assert.Empty(t, st.Orders())
	assert.True(t, st.SyncedAt().IsZero())

	st.Replace(snapshot())

	assert.Len(t, st.Orders(), 3)
	assert.False(t, st.SyncedAt().IsZero())
	assert.Equal(t, orders.Statistics{
		Pending:    1,
		Accepted:   1,
		Rejected:   1,
		Processing: 1,
		Total:      3,
	}, st.Statistics())

	// A later snapshot overwrites wholesale.
	st.Replace(snapshot()[:1])
	assert.Len(t, st.Orders(), 1)
	assert.Equal(t, 1, st.Statistics().Total)
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	st := NewStore()
	st.Replace(snapshot())

	order, ok := st.Get(2)
	require.True(t, ok)
	assert.Equal(t, orders.StatusProcessing, order.Status)

	_, ok = st.Get(99)
	assert.False(t, ok)
}

func TestStoreReadersGetCopies(t *testing.T) {
	t.Parallel()

	st := NewStore()
	st.Replace(snapshot())

	out := st.Orders()
	out[0].ID = 777

	fresh := st.Orders()
	assert.Equal(t, int64(1), fresh[0].ID)
}

func TestControllerRefresh(t *testing.T) {
	t.Parallel()

	backend := &fakeLister{list: snapshot()}
	st := NewStore()
	controller := NewController(backend, st, 0, nil)

	require.NoError(t, controller.Refresh(context.Background()))
	assert.Len(t, st.Orders(), 3)
}

func TestControllerRefreshFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	st := NewStore()
	st.Replace(snapshot())
	before := st.SyncedAt()

	backend := &fakeLister{err: errors.New("backend unreachable")}
	controller := NewController(backend, st, 0, nil)

	err := controller.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load orders")
	assert.Len(t, st.Orders(), 3, "stale data beats no data")
	assert.Equal(t, before, st.SyncedAt())
}

func TestControllerRunRefreshesPeriodically(t *testing.T) {
	t.Parallel()

	backend := &fakeLister{list: snapshot()}
	st := NewStore()
	controller := NewController(backend, st, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		controller.Run(ctx)
		close(done)
	}()

	// Initial load plus at least one tick.
	require.Eventually(t, func() bool {
		return backend.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("controller did not stop on context cancellation")
	}
}
