// Package workflow enforces the order lifecycle rules: the one-shot
// accept/reject decision and the production-gated fulfillment transitions.
// All rule checks run before any backend call; the backend stays the single
// source of truth and local state is only updated through a snapshot refresh.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/l4nzaerol/balagbag/internal/admin/orders"
	"github.com/l4nzaerol/balagbag/internal/admin/production"
)

// Refresher re-fetches the order snapshot after a successful mutation so the
// derived views and statistics reflect server-computed effects.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ValidationError reports an operator input problem detected locally,
// before any network call is attempted.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransitionReason identifies which rule refused a status transition.
type TransitionReason string

const (
	// ReasonAlreadyInState means the target equals the current status.
	ReasonAlreadyInState TransitionReason = "already_in_state"
	// ReasonNotAccepted means fulfillment transitions are meaningless before acceptance.
	ReasonNotAccepted TransitionReason = "not_accepted"
	// ReasonProductionIncomplete means the production gate denied the transition.
	ReasonProductionIncomplete TransitionReason = "production_incomplete"
	// ReasonUnknownStatus means the target is not a transitionable status.
	ReasonUnknownStatus TransitionReason = "unknown_status"
)

// IllegalTransitionError reports a refused status transition along with the
// rule that refused it.
type IllegalTransitionError struct {
	OrderID int64
	Target  orders.FulfillmentStatus
	Reason  TransitionReason
	Message string
}

// Error implements the error interface.
func (e *IllegalTransitionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cannot mark order %d as %s: %s", e.OrderID, e.Target, e.Message)
	}
	return fmt.Sprintf("cannot mark order %d as %s (%s)", e.OrderID, e.Target, e.Reason)
}

// Engine executes review and fulfillment actions against the backend.
type Engine struct {
	backend   orders.Service
	gate      production.Gate
	refresher Refresher
	logger    *zap.Logger
}

// NewEngine wires the workflow engine.
func NewEngine(backend orders.Service, gate production.Gate, refresher Refresher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:   backend,
		gate:      gate,
		refresher: refresher,
		logger:    logger,
	}
}

// Accept approves a pending order. On success the backend reports how many
// production records it created and the snapshot is refreshed.
func (e *Engine) Accept(ctx context.Context, order orders.Order, notes string) (orders.AcceptResult, error) {
	if order.Acceptance != orders.AcceptancePending {
		return orders.AcceptResult{}, fmt.Errorf("accept order %d: %w", order.ID, orders.ErrNotPending)
	}

	result, err := e.backend.Accept(ctx, order.ID, notes)
	if err != nil {
		return orders.AcceptResult{}, fmt.Errorf("failed to accept order %d: %w", order.ID, err)
	}

	e.logger.Info("order accepted",
		zap.Int64("orderID", order.ID),
		zap.Int("productionsCreated", result.ProductionsCreated),
	)
	e.refresh(ctx)
	return result, nil
}

// Reject declines a pending order. An empty reason fails fast locally with a
// ValidationError; no network call is made.
func (e *Engine) Reject(ctx context.Context, order orders.Order, reason, notes string) error {
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "rejection_reason", Err: orders.ErrReasonRequired}
	}
	if order.Acceptance != orders.AcceptancePending {
		return fmt.Errorf("reject order %d: %w", order.ID, orders.ErrNotPending)
	}

	if err := e.backend.Reject(ctx, order.ID, reason, notes); err != nil {
		return fmt.Errorf("failed to reject order %d: %w", order.ID, err)
	}

	e.logger.Info("order rejected", zap.Int64("orderID", order.ID))
	e.refresh(ctx)
	return nil
}

// Transition moves an accepted order to the target fulfillment status.
//
// The machine is linear and advisory: it does not force processing →
// ready_for_delivery → delivered → completed in sequence, but it refuses
// no-op transitions, transitions on unaccepted orders, and — after a fresh
// gate query — transitions into delivery-side statuses while production is
// unfinished. Cancellation is never gated.
func (e *Engine) Transition(ctx context.Context, order orders.Order, target orders.FulfillmentStatus) error {
	if !target.Transitionable() {
		return &IllegalTransitionError{
			OrderID: order.ID,
			Target:  target,
			Reason:  ReasonUnknownStatus,
			Message: "unknown fulfillment status",
		}
	}
	if target == order.Status {
		return &IllegalTransitionError{
			OrderID: order.ID,
			Target:  target,
			Reason:  ReasonAlreadyInState,
			Message: "order is already in that state",
		}
	}
	if order.Acceptance != orders.AcceptanceAccepted {
		return &IllegalTransitionError{
			OrderID: order.ID,
			Target:  target,
			Reason:  ReasonNotAccepted,
			Message: "order has not been accepted",
		}
	}

	if target.RequiresProductionCompletion() {
		status := e.gate.Check(ctx, order.ID)
		if !status.Completed {
			return &IllegalTransitionError{
				OrderID: order.ID,
				Target:  target,
				Reason:  ReasonProductionIncomplete,
				Message: status.Message,
			}
		}
	}

	if err := e.backend.UpdateStatus(ctx, order.ID, target); err != nil {
		return fmt.Errorf("failed to update status of order %d: %w", order.ID, err)
	}

	e.logger.Info("order status updated",
		zap.Int64("orderID", order.ID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
	)
	e.refresh(ctx)
	return nil
}

// refresh re-syncs the snapshot after a successful mutation. The mutation
// already succeeded, so a failed refresh is logged and the next periodic
// sync repairs the snapshot.
func (e *Engine) refresh(ctx context.Context) {
	if e.refresher == nil {
		return
	}
	if err := e.refresher.Refresh(ctx); err != nil {
		e.logger.Warn("snapshot refresh after mutation failed", zap.Error(err))
	}
}
