package orders

import (
	"strconv"
	"strings"
	"time"
)

// View selects the top-level acceptance bucket shown to the operator.
type View string

const (
	ViewPending  View = "pending"
	ViewAccepted View = "accepted"
	ViewRejected View = "rejected"
	ViewAll      View = "all"
)

// ProductType buckets an order by what kind of products it contains.
type ProductType string

const (
	ProductTypeAll       ProductType = "all"
	ProductTypeFurniture ProductType = "furniture"
	ProductTypeAlkansya  ProductType = "alkansya"
)

// alkansyaKeyword is the reserved token in product names that marks the
// alkansya family. A name heuristic until the catalogue grows a category field.
const alkansyaKeyword = "alkansya"

// ParseView converts a raw view string into the closed enum.
func ParseView(raw string) (View, bool) {
	switch v := View(strings.TrimSpace(raw)); v {
	case ViewPending, ViewAccepted, ViewRejected, ViewAll:
		return v, true
	case "":
		return ViewAll, true
	}
	return "", false
}

// ParseProductType converts a raw product-type string into the closed enum.
func ParseProductType(raw string) (ProductType, bool) {
	switch p := ProductType(strings.TrimSpace(raw)); p {
	case ProductTypeAll, ProductTypeFurniture, ProductTypeAlkansya:
		return p, true
	case "":
		return ProductTypeAll, true
	}
	return "", false
}

// Criteria captures the operator's filter inputs. Zero values are no-ops:
// an empty search string matches everything, an unset status filters nothing,
// and the date range only applies when both bounds are present.
type Criteria struct {
	Search        string
	Status        FulfillmentStatus
	PaymentMethod PaymentMethod
	Acceptance    AcceptanceStatus
	StartDate     *time.Time
	EndDate       *time.Time
}

// Filter derives the operator's working list from the full snapshot. Pure and
// deterministic: input order is preserved and the snapshot is never mutated.
// Stages narrow in sequence — view slice, free-text search, exact filters,
// date range, product-type bucket.
func Filter(all []Order, view View, productType ProductType, c Criteria) []Order {
	filtered := make([]Order, 0, len(all))
	for _, o := range all {
		if !matchesView(o, view) {
			continue
		}
		if !matchesSearch(o, c.Search) {
			continue
		}
		if c.Status != "" && o.Status != c.Status {
			continue
		}
		if c.PaymentMethod != "" && o.PaymentMethod != c.PaymentMethod {
			continue
		}
		if c.Acceptance != "" && o.Acceptance != c.Acceptance {
			continue
		}
		if !matchesDateRange(o, c.StartDate, c.EndDate) {
			continue
		}
		if !matchesProductType(o, productType) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func matchesView(o Order, view View) bool {
	switch view {
	case ViewPending:
		return o.Acceptance == AcceptancePending
	case ViewAccepted:
		return o.Acceptance == AcceptanceAccepted
	case ViewRejected:
		return o.Acceptance == AcceptanceRejected
	}
	return true
}

// matchesSearch matches the token against the stringified order ID and the
// case-folded customer name/email. The phone number is matched as typed.
// Orders with no customer record simply never match on name or email.
func matchesSearch(o Order, search string) bool {
	if search == "" {
		return true
	}
	lowered := strings.ToLower(search)
	if strings.Contains(strconv.FormatInt(o.ID, 10), lowered) {
		return true
	}
	if o.Customer != nil {
		if strings.Contains(strings.ToLower(o.Customer.Name), lowered) {
			return true
		}
		if strings.Contains(strings.ToLower(o.Customer.Email), lowered) {
			return true
		}
	}
	return o.ContactPhone != "" && strings.Contains(o.ContactPhone, search)
}

// matchesDateRange applies the inclusive checkout-date window. Both bounds
// must be present; the start is floored and the end ceiled to full days.
func matchesDateRange(o Order, start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	from := startOfDay(*start)
	to := endOfDay(*end)
	return !o.CheckoutDate.Before(from) && !o.CheckoutDate.After(to)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
}

// matchesProductType classifies by inspecting line item product names for the
// alkansya keyword. An order with no items belongs to neither specialised bucket.
func matchesProductType(o Order, productType ProductType) bool {
	switch productType {
	case ProductTypeFurniture:
		for _, item := range o.Items {
			if item.Product != nil && item.Product.Name != "" &&
				!strings.Contains(strings.ToLower(item.Product.Name), alkansyaKeyword) {
				return true
			}
		}
		return false
	case ProductTypeAlkansya:
		for _, item := range o.Items {
			if item.Product != nil &&
				strings.Contains(strings.ToLower(item.Product.Name), alkansyaKeyword) {
				return true
			}
		}
		return false
	}
	return true
}
