package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderInTransit OrderStatus = "in_transit"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type DeliveryType string

const (
	DeliveryHome   DeliveryType = "delivery"
	DeliveryPickup DeliveryType = "pickup"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// orderSuccessors is the single source of truth for legal order status
// changes. The flow is forward-only (skipping ahead is allowed, e.g.
// pending -> delivered) and cancellation is open from any non-terminal state.
var orderSuccessors = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderInTransit, OrderDelivered, OrderCancelled},
	OrderConfirmed: {OrderInTransit, OrderDelivered, OrderCancelled},
	OrderInTransit: {OrderDelivered, OrderCancelled},
	OrderDelivered: {},
	OrderCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderSuccessors[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	next, ok := orderSuccessors[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderSuccessors[s] {
		if n == next {
			return true
		}
	}
	return false
}

// LineItem is a snapshot of a product at order time. Name and price are
// copied, not referenced, so later catalog edits never rewrite history.
type LineItem struct {
	Name      string          `json:"name"`
	SizeLabel string          `json:"size"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItemsTotal sums price*quantity over the given items.
func LineItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

const PaymentCash = "cash"

type Order struct {
	ID              string
	OrderNumber     string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryType    DeliveryType
	DeliveryAddress string
	PreferredDate   time.Time
	Items           []LineItem
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	PaymentMethod   string
	// ConfirmationSent guards the one confirmation email an order ever gets.
	ConfirmationSent bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
