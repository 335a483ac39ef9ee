package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

type SubmitOrderInput struct {
	Cart     *Cart
	Customer CustomerInfo
	Delivery DeliveryInfo
	// OrderNumber is normally left empty and generated here. Retried
	// submissions may carry the number from the first attempt; the guard
	// then returns the stored order instead of creating a duplicate.
	OrderNumber string
}

// SubmitOrder builds and persists an order from a validated cart. Stock is
// informational only and deliberately not reserved here.
type SubmitOrder struct {
	orders   OrderRepo
	settings SettingsStore
	guard    SubmitGuard
	notifier *Notifier
	now      func() time.Time
}

func NewSubmitOrder(orders OrderRepo, settings SettingsStore, guard SubmitGuard, notifier *Notifier) *SubmitOrder {
	return &SubmitOrder{orders: orders, settings: settings, guard: guard, notifier: notifier, now: time.Now}
}

func (uc *SubmitOrder) Execute(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	if err := in.Cart.Validate(in.Customer, in.Delivery); err != nil {
		return nil, err
	}

	open, err := uc.settings.ReceiveOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("check receive_orders: %w", err)
	}
	if !open {
		return nil, ErrOrdersClosed
	}

	number := in.OrderNumber
	if number == "" {
		number = uc.newOrderNumber()
	}

	ok, err := uc.guard.TryLock(ctx, "order:submit:"+number)
	if err != nil {
		return nil, fmt.Errorf("submit guard: %w", err)
	}
	if !ok {
		// Duplicate submit: hand back the first result, enqueue nothing.
		return uc.orders.GetByNumber(ctx, number)
	}

	items := in.Cart.LineItems()
	now := uc.now()
	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		CustomerName:    strings.TrimSpace(in.Customer.Name),
		CustomerEmail:   strings.TrimSpace(in.Customer.Email),
		CustomerPhone:   strings.TrimSpace(in.Customer.Phone),
		DeliveryType:    in.Delivery.Type,
		DeliveryAddress: strings.TrimSpace(in.Delivery.Address),
		PreferredDate:   in.Delivery.PreferredDate,
		Items:           items,
		TotalAmount:     domain.LineItemsTotal(items),
		Status:          domain.OrderPending,
		PaymentMethod:   domain.PaymentCash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, OrderEvent(EventOrderConfirmed, order))
	return order, nil
}

func (uc *SubmitOrder) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("AQ-%s-%s", uc.now().Format("20060102"), suffix)
}
