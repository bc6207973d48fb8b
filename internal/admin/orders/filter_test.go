package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}

func orderIDs(list []Order) []int64 {
	ids := make([]int64, len(list))
	for i, o := range list {
		ids[i] = o.ID
	}
	return ids
}

func filterFixture(t *testing.T) []Order {
	t.Helper()
	return []Order{
		{
			ID:           42,
			Customer:     &Customer{Name: "Maria Santos", Email: "maria@example.com"},
			ContactPhone: "09171234567",
			Items: []LineItem{
				{Product: &Product{Name: "Dining Table"}, Quantity: 1, Price: 8000},
			},
			PaymentMethod: PaymentCOD,
			CheckoutDate:  day(t, "2026-03-01 10:00"),
			Acceptance:    AcceptancePending,
			Status:        StatusPending,
		},
		{
			ID:       142,
			Customer: &Customer{Name: "Jose Ramirez", Email: "jose@example.com"},
			Items: []LineItem{
				{Product: &Product{Name: "Alkansya (Classic)"}, Quantity: 5, Price: 150},
			},
			PaymentMethod: PaymentMaya,
			CheckoutDate:  day(t, "2026-03-02 23:30"),
			Acceptance:    AcceptanceAccepted,
			Status:        StatusProcessing,
		},
		{
			ID:       420,
			Customer: &Customer{Name: "Ana Dela Cruz", Email: "ana@example.com"},
			Items: []LineItem{
				{Product: &Product{Name: "ALKANSYA Deluxe"}, Quantity: 2, Price: 300},
				{Product: &Product{Name: "Coffee Table"}, Quantity: 1, Price: 2500},
			},
			PaymentMethod: PaymentCOD,
			CheckoutDate:  day(t, "2026-03-05 00:00"),
			Acceptance:    AcceptanceAccepted,
			Status:        StatusDelivered,
		},
		{
			ID:       7,
			Customer: &Customer{Name: "Ramon", Email: "ramon+42@example.com"},
			Items: []LineItem{
				{Product: &Product{Name: "Bookshelf"}, Quantity: 1, Price: 4200},
			},
			PaymentMethod: PaymentMaya,
			CheckoutDate:  day(t, "2026-03-10 12:00"),
			Acceptance:    AcceptanceRejected,
			Status:        StatusPending,
		},
		{
			// No customer record and no items: must never panic, matches
			// neither product bucket, and only matches search via ID/phone.
			ID:            9,
			ContactPhone:  "09990000042",
			PaymentMethod: PaymentCOD,
			CheckoutDate:  day(t, "2026-03-15 08:00"),
			Acceptance:    AcceptancePending,
			Status:        StatusPending,
		},
	}
}

func TestFilterViews(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)

	tests := []struct {
		name string
		view View
		want []int64
	}{
		{name: "pending", view: ViewPending, want: []int64{42, 9}},
		{name: "accepted", view: ViewAccepted, want: []int64{142, 420}},
		{name: "rejected", view: ViewRejected, want: []int64{7}},
		{name: "all", view: ViewAll, want: []int64{42, 142, 420, 7, 9}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Filter(all, tc.view, ProductTypeAll, Criteria{})
			assert.Equal(t, tc.want, orderIDs(got))
		})
	}
}

func TestFilterSearch(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)

	t.Run("id substring matches all stringified ids", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: "42"})
		// 42, 142 and 420 by ID, 7 via its email, 9 via its phone digits.
		assert.Equal(t, []int64{42, 142, 420, 7, 9}, orderIDs(got))
	})

	t.Run("case-insensitive name match", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: "mArIa"})
		assert.Equal(t, []int64{42}, orderIDs(got))
	})

	t.Run("email match", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: "jose@"})
		assert.Equal(t, []int64{142}, orderIDs(got))
	})

	t.Run("phone matched as typed", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: "0917123"})
		assert.Equal(t, []int64{42}, orderIDs(got))
	})

	t.Run("empty search is a no-op", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: ""})
		assert.Len(t, got, len(all))
	})

	t.Run("missing customer does not panic", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Search: "nobody-here"})
		assert.Empty(t, got)
	})
}

func TestFilterExactCriteria(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)

	t.Run("fulfillment status", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{Status: StatusProcessing})
		assert.Equal(t, []int64{142}, orderIDs(got))
	})

	t.Run("payment method", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{PaymentMethod: PaymentMaya})
		assert.Equal(t, []int64{142, 7}, orderIDs(got))
	})

	t.Run("acceptance filter composes with view", func(t *testing.T) {
		t.Parallel()
		// The pending view and the rejected exact filter are mutually
		// exclusive predicates, so their composition is always empty.
		got := Filter(all, ViewPending, ProductTypeAll, Criteria{Acceptance: AcceptanceRejected})
		assert.Empty(t, got)
	})
}

func TestFilterDateRange(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)
	start := day(t, "2026-03-02 18:00")
	end := day(t, "2026-03-05 01:00")

	t.Run("inclusive full-day bounds", func(t *testing.T) {
		t.Parallel()
		// Start floors to 00:00 so order 142 (23:30 on the 2nd) is in;
		// end ceils to 23:59 so order 420 (midnight on the 5th) is in.
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{StartDate: &start, EndDate: &end})
		assert.Equal(t, []int64{142, 420}, orderIDs(got))
	})

	t.Run("only one bound set is a no-op", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAll, Criteria{StartDate: &start})
		assert.Len(t, got, len(all))
	})
}

func TestFilterProductType(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)

	t.Run("furniture requires a non-alkansya item", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeFurniture, Criteria{})
		// 420 has both an alkansya and a furniture item, so it shows in both buckets.
		assert.Equal(t, []int64{42, 420, 7}, orderIDs(got))
	})

	t.Run("alkansya matches case-folded keyword", func(t *testing.T) {
		t.Parallel()
		got := Filter(all, ViewAll, ProductTypeAlkansya, Criteria{})
		assert.Equal(t, []int64{142, 420}, orderIDs(got))
	})

	t.Run("itemless orders match neither bucket", func(t *testing.T) {
		t.Parallel()
		furniture := Filter(all, ViewAll, ProductTypeFurniture, Criteria{})
		alkansya := Filter(all, ViewAll, ProductTypeAlkansya, Criteria{})
		assert.NotContains(t, orderIDs(furniture), int64(9))
		assert.NotContains(t, orderIDs(alkansya), int64(9))
	})
}

func TestFilterIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	all := filterFixture(t)
	criteria := Criteria{Search: "a", PaymentMethod: PaymentCOD}

	once := Filter(all, ViewAll, ProductTypeFurniture, criteria)
	twice := Filter(once, ViewAll, ProductTypeFurniture, criteria)
	assert.Equal(t, once, twice)

	// The input snapshot must be left untouched.
	assert.Equal(t, filterFixture(t), all)
}

func TestParseSelectors(t *testing.T) {
	t.Parallel()

	view, ok := ParseView("")
	require.True(t, ok)
	assert.Equal(t, ViewAll, view)

	_, ok = ParseView("archived")
	assert.False(t, ok)

	productType, ok := ParseProductType("furniture")
	require.True(t, ok)
	assert.Equal(t, ProductTypeFurniture, productType)

	_, ok = ParseProductType("toys")
	assert.False(t, ok)
}
