package orders

import (
	"context"
	"strings"
	"sync"
	"time"
)

// StaticService provides deterministic order data suitable for local
// development and tests. It enforces the same review invariants as the real
// backend: only pending orders can be accepted or rejected, rejections carry
// a reason, and accepting creates production records for furniture items.
type StaticService struct {
	mu     sync.Mutex
	orders []Order
}

// NewStaticService returns a StaticService populated with representative orders.
func NewStaticService() *StaticService {
	now := time.Now()

	customer := func(name, email string) *Customer {
		return &Customer{Name: name, Email: email}
	}

	orders := []Order{
		{
			ID:              1001,
			Customer:        customer("Maria Santos", "maria.santos@example.com"),
			ContactPhone:    "09171234567",
			ShippingAddress: "123 Mabini St, Quezon City",
			Items: []LineItem{
				{ID: 1, Product: &Product{Name: "Dining Table (Acacia)"}, Quantity: 1, Price: 8500},
				{ID: 2, Product: &Product{Name: "Dining Chair (Acacia)"}, Quantity: 4, Price: 1200},
			},
			TotalPrice:    13300,
			PaymentMethod: PaymentCOD,
			CheckoutDate:  now.Add(-36 * time.Hour),
			Acceptance:    AcceptancePending,
			Status:        StatusPending,
		},
		{
			ID:              1002,
			Customer:        customer("Jose Ramirez", "jose.ramirez@example.com"),
			ContactPhone:    "09981234567",
			ShippingAddress: "45 Rizal Ave, Cebu City",
			Items: []LineItem{
				{ID: 3, Product: &Product{Name: "Alkansya (Classic)"}, Quantity: 10, Price: 150},
			},
			TotalPrice:    1500,
			PaymentMethod: PaymentMaya,
			CheckoutDate:  now.Add(-3 * 24 * time.Hour),
			Acceptance:    AcceptanceAccepted,
			Status:        StatusProcessing,
			AdminNotes:    "bulk order, confirmed by phone",
		},
		{
			ID:              1003,
			Customer:        customer("Ana Dela Cruz", "ana.delacruz@example.com"),
			ContactPhone:    "09221234567",
			ShippingAddress: "8 Bonifacio Dr, Davao City",
			Items: []LineItem{
				{ID: 4, Product: &Product{Name: "Bookshelf (Narra)"}, Quantity: 1, Price: 4200},
			},
			TotalPrice:    4200,
			PaymentMethod: PaymentCOD,
			CheckoutDate:  now.Add(-7 * 24 * time.Hour),
			Acceptance:    AcceptanceAccepted,
			Status:        StatusReadyForDelivery,
		},
		{
			ID:              1004,
			Customer:        customer("Ramon Bautista", "ramon.b@example.com"),
			ContactPhone:    "09331234567",
			ShippingAddress: "77 Luna St, Vigan",
			Items: []LineItem{
				{ID: 5, Product: &Product{Name: "Alkansya (Painted)"}, Quantity: 2, Price: 220},
				{ID: 6, Product: &Product{Name: "Coffee Table"}, Quantity: 1, Price: 3100},
			},
			TotalPrice:      3540,
			PaymentMethod:   PaymentMaya,
			CheckoutDate:    now.Add(-12 * 24 * time.Hour),
			Acceptance:      AcceptanceRejected,
			Status:          StatusPending,
			RejectionReason: "shipping address outside delivery coverage",
		},
		{
			ID:            1005,
			Customer:      customer("Lito Garcia", "lito.garcia@example.com"),
			ContactPhone:  "09441234567",
			Items:         nil, // itemless order from a backend migration; matches neither product bucket
			TotalPrice:    0,
			PaymentMethod: PaymentCOD,
			CheckoutDate:  now.Add(-20 * 24 * time.Hour),
			Acceptance:    AcceptancePending,
			Status:        StatusPending,
		},
	}

	return &StaticService{orders: orders}
}

// List returns a copy of the current order collection.
func (s *StaticService) List(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// Accept marks a pending order accepted and reports one production record per
// furniture line item. Alkansya items are built from stock, so an
// alkansya-only order yields zero records.
func (s *StaticService) Accept(ctx context.Context, orderID int64, notes string) (AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.find(orderID)
	if !ok {
		return AcceptResult{}, ErrOrderNotFound
	}
	if s.orders[idx].Acceptance != AcceptancePending {
		return AcceptResult{}, ErrNotPending
	}

	var productions int
	for _, item := range s.orders[idx].Items {
		if item.Product != nil && item.Product.Name != "" &&
			!strings.Contains(strings.ToLower(item.Product.Name), alkansyaKeyword) {
			productions++
		}
	}

	s.orders[idx].Acceptance = AcceptanceAccepted
	s.orders[idx].Status = StatusProcessing
	if strings.TrimSpace(notes) != "" {
		s.orders[idx].AdminNotes = notes
	}
	return AcceptResult{ProductionsCreated: productions}, nil
}

// Reject marks a pending order rejected with the supplied reason.
func (s *StaticService) Reject(ctx context.Context, orderID int64, reason, notes string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	if s.orders[idx].Acceptance != AcceptancePending {
		return ErrNotPending
	}

	s.orders[idx].Acceptance = AcceptanceRejected
	s.orders[idx].RejectionReason = reason
	if strings.TrimSpace(notes) != "" {
		s.orders[idx].AdminNotes = notes
	}
	return nil
}

// UpdateStatus applies a fulfillment transition for an accepted order. The
// production gate is the console's concern; like the real backend, the static
// service only rejects structurally invalid updates.
func (s *StaticService) UpdateStatus(ctx context.Context, orderID int64, status FulfillmentStatus) error {
	if !status.Transitionable() {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	if s.orders[idx].Acceptance != AcceptanceAccepted {
		return ErrNotPending
	}

	s.orders[idx].Status = status
	return nil
}

func (s *StaticService) find(orderID int64) (int, bool) {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i, true
		}
	}
	return 0, false
}
