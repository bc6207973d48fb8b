package orders

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service exposes the backend order operations consumed by the console.
type Service interface {
	// List returns the full order collection as known by the backend.
	List(ctx context.Context) ([]Order, error)

	// Accept marks a pending order as accepted and returns the number of
	// production records the backend created as a side effect.
	Accept(ctx context.Context, orderID int64, notes string) (AcceptResult, error)

	// Reject marks a pending order as rejected with the supplied reason.
	Reject(ctx context.Context, orderID int64, reason, notes string) error

	// UpdateStatus transitions an accepted order to the target fulfillment status.
	UpdateStatus(ctx context.Context, orderID int64, status FulfillmentStatus) error
}

// AcceptanceStatus tracks whether an admin has approved an order for fulfillment.
type AcceptanceStatus string

const (
	// AcceptancePending indicates the order awaits an accept/reject decision.
	AcceptancePending AcceptanceStatus = "pending"
	// AcceptanceAccepted indicates the order was approved for fulfillment.
	AcceptanceAccepted AcceptanceStatus = "accepted"
	// AcceptanceRejected indicates the order was declined; a reason is always recorded.
	AcceptanceRejected AcceptanceStatus = "rejected"
)

// FulfillmentStatus represents an accepted order's progress through production and delivery.
type FulfillmentStatus string

const (
	// StatusPending is the fulfillment state of an order that has not been reviewed yet.
	StatusPending FulfillmentStatus = "pending"
	// StatusProcessing indicates the order is accepted and in production.
	StatusProcessing FulfillmentStatus = "processing"
	// StatusReadyForDelivery indicates production finished and the order awaits dispatch.
	StatusReadyForDelivery FulfillmentStatus = "ready_for_delivery"
	// StatusDelivered indicates the order reached the customer.
	StatusDelivered FulfillmentStatus = "delivered"
	// StatusCompleted indicates the order is fully closed out.
	StatusCompleted FulfillmentStatus = "completed"
	// StatusCancelled indicates the order was cancelled. Terminal; no deletion path exists.
	StatusCancelled FulfillmentStatus = "cancelled"
)

// PaymentMethod identifies how the customer paid at checkout.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentMaya PaymentMethod = "Maya"
)

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotPending is returned when accept/reject is attempted on an already reviewed order.
	ErrNotPending = errors.New("order is not pending acceptance")
	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("rejection reason is required")
	// ErrInvalidStatus is returned when a status update names an unknown or
	// non-transitionable fulfillment status.
	ErrInvalidStatus = errors.New("invalid fulfillment status")
)

// Product is the catalogue item referenced by a line item.
type Product struct {
	Name string `json:"name"`
}

// LineItem is a single ordered product with its captured unit price.
type LineItem struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// Subtotal returns quantity times the captured unit price.
func (li LineItem) Subtotal() float64 {
	return float64(li.Quantity) * li.Price
}

// Customer holds the checkout contact details attached to an order.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is the backend's representation of a customer order.
type Order struct {
	ID              int64             `json:"id"`
	Customer        *Customer         `json:"user,omitempty"`
	ContactPhone    string            `json:"contact_phone,omitempty"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	Items           []LineItem        `json:"items"`
	TotalPrice      float64           `json:"total_price"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	CheckoutDate    time.Time         `json:"checkout_date"`
	Acceptance      AcceptanceStatus  `json:"acceptance_status"`
	Status          FulfillmentStatus `json:"status"`
	AdminNotes      string            `json:"admin_notes,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
}

// ItemsTotal sums the line item subtotals. The backend owns TotalPrice;
// this exists so consistency can be asserted, not recomputed.
func (o Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// AcceptResult reports the outcome of accepting an order.
type AcceptResult struct {
	ProductionsCreated int `json:"productions_created"`
}

// ParseFulfillmentStatus converts a raw status string into the closed enum.
// Unknown values are rejected so invalid statuses cannot enter the system.
func ParseFulfillmentStatus(raw string) (FulfillmentStatus, bool) {
	switch s := FulfillmentStatus(strings.TrimSpace(raw)); s {
	case StatusPending, StatusProcessing, StatusReadyForDelivery, StatusDelivered, StatusCompleted, StatusCancelled:
		return s, true
	}
	return "", false
}

// ParseAcceptanceStatus converts a raw acceptance string into the closed enum.
func ParseAcceptanceStatus(raw string) (AcceptanceStatus, bool) {
	switch s := AcceptanceStatus(strings.TrimSpace(raw)); s {
	case AcceptancePending, AcceptanceAccepted, AcceptanceRejected:
		return s, true
	}
	return "", false
}

// RequiresProductionCompletion reports whether transitioning into the status
// is gated on the production tracker confirming the order's items are built.
func (s FulfillmentStatus) RequiresProductionCompletion() bool {
	switch s {
	case StatusReadyForDelivery, StatusDelivered, StatusCompleted:
		return true
	}
	return false
}

// Transitionable reports whether the status is a valid target for a manual
// update. StatusPending is only ever assigned by the backend at checkout.
func (s FulfillmentStatus) Transitionable() bool {
	switch s {
	case StatusProcessing, StatusReadyForDelivery, StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
