package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

type EventKind string

const (
	EventOrderConfirmed        EventKind = "order-confirmed"
	EventOrderDelivered        EventKind = "order-delivered"
	EventOrderCancelled        EventKind = "order-cancelled"
	EventSubscriptionPaused    EventKind = "subscription-paused"
	EventSubscriptionResumed   EventKind = "subscription-resumed"
	EventSubscriptionCancelled EventKind = "subscription-cancelled"
)

type ItemPayload struct {
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type OrderPayload struct {
	OrderNumber     string          `json:"orderNumber"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Items           []ItemPayload   `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	DeliveryType    string          `json:"deliveryType"`
}

type SubscriptionPayload struct {
	SubscriptionID  string          `json:"subscriptionId"`
	CustomerName    string          `json:"customerName"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Frequency       string          `json:"frequency"`
	FrequencyLabel  string          `json:"frequencyLabel"`
	Items           []ItemPayload   `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	NextDelivery    *time.Time      `json:"nextDelivery,omitempty"`
}

// NotificationMsg is the wire payload for the notification queue. A message
// with an empty recipient is skipped by the dispatcher, not an error.
type NotificationMsg struct {
	Kind         EventKind            `json:"kind"`
	Recipient    string               `json:"recipient"`
	Order        *OrderPayload        `json:"order,omitempty"`
	Subscription *SubscriptionPayload `json:"subscription,omitempty"`
}

func itemPayloads(items []domain.LineItem) []ItemPayload {
	out := make([]ItemPayload, 0, len(items))
	for _, li := range items {
		out = append(out, ItemPayload{
			Name:     li.Name,
			Size:     li.SizeLabel,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
		})
	}
	return out
}

// OrderEvent snapshots an order into a notification request.
func OrderEvent(kind EventKind, o *domain.Order) NotificationMsg {
	return NotificationMsg{
		Kind:      kind,
		Recipient: o.CustomerEmail,
		Order: &OrderPayload{
			OrderNumber:     o.OrderNumber,
			CustomerName:    o.CustomerName,
			CustomerEmail:   o.CustomerEmail,
			CustomerPhone:   o.CustomerPhone,
			DeliveryAddress: o.DeliveryAddress,
			Items:           itemPayloads(o.Items),
			TotalAmount:     o.TotalAmount,
			PaymentMethod:   o.PaymentMethod,
			DeliveryType:    string(o.DeliveryType),
		},
	}
}

// SubscriptionEvent snapshots a subscription into a notification request.
func SubscriptionEvent(kind EventKind, s *domain.Subscription) NotificationMsg {
	return NotificationMsg{
		Kind:      kind,
		Recipient: s.CustomerEmail,
		Subscription: &SubscriptionPayload{
			SubscriptionID:  s.ID,
			CustomerName:    s.CustomerName,
			DeliveryAddress: s.DeliveryAddress,
			Frequency:       string(s.Frequency),
			FrequencyLabel:  s.Frequency.Label(),
			Items:           itemPayloads(s.Items),
			TotalAmount:     s.TotalAmount,
			NextDelivery:    s.NextDelivery,
		},
	}
}
