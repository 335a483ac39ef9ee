package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

const maxQuantity = 99

// Cart accumulates desired quantities against a catalog snapshot and turns
// them into a validated, frozen order request. Inactive products are dropped
// from the snapshot up front so they can never be ordered.
type Cart struct {
	catalog []domain.Product
	qty     map[string]int
}

func NewCart(catalog []domain.Product) *Cart {
	snap := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Active {
			snap = append(snap, p)
		}
	}
	sort.SliceStable(snap, func(i, j int) bool {
		return snap[i].UnitPrice.LessThan(snap[j].UnitPrice)
	})
	return &Cart{catalog: snap, qty: map[string]int{}}
}

// SetQuantity records the desired quantity for a product. Negative input is
// coerced to 0 and anything above 99 is capped; this is a sanity bound, not
// a stock check.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty < 0 {
		qty = 0
	}
	if qty > maxQuantity {
		qty = maxQuantity
	}
	if qty == 0 {
		delete(c.qty, productID)
		return
	}
	c.qty[productID] = qty
}

// Total recomputes the order total from the current quantities every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.catalog {
		if q := c.qty[p.ID]; q > 0 {
			total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(q))))
		}
	}
	return total
}

// LineItems returns the selected products as frozen snapshots, in catalog
// (price ascending) order.
func (c *Cart) LineItems() []domain.LineItem {
	var items []domain.LineItem
	for _, p := range c.catalog {
		if q := c.qty[p.ID]; q > 0 {
			items = append(items, domain.LineItem{
				Name:      p.Name,
				SizeLabel: p.SizeLabel,
				UnitPrice: p.UnitPrice,
				Quantity:  q,
			})
		}
	}
	return items
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

type DeliveryInfo struct {
	Type          domain.DeliveryType
	Address       string
	PreferredDate time.Time
}

// Validate checks the order request and fails on the first violated rule.
func (c *Cart) Validate(cust CustomerInfo, del DeliveryInfo) error {
	if len(c.LineItems()) == 0 {
		return invalid("items", "select at least one product")
	}
	if strings.TrimSpace(cust.Name) == "" {
		return invalid("customerName", "name is required")
	}
	if strings.TrimSpace(cust.Phone) == "" {
		return invalid("customerPhone", "phone is required")
	}
	if del.Type == domain.DeliveryHome && strings.TrimSpace(del.Address) == "" {
		return invalid("deliveryAddress", "address is required for delivery")
	}
	if del.PreferredDate.IsZero() {
		return invalid("preferredDate", "preferred delivery date is required")
	}
	return nil
}
