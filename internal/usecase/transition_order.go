package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

// TransitionOrder is the single entry point for order status changes. The
// allowed-successor graph lives in the domain; illegal moves are rejected
// here uniformly instead of wherever a code path happens to compare strings.
type TransitionOrder struct {
	orders   OrderRepo
	notifier *Notifier
	now      func() time.Time
}

func NewTransitionOrder(orders OrderRepo, notifier *Notifier) *TransitionOrder {
	return &TransitionOrder{orders: orders, notifier: notifier, now: time.Now}
}

func (uc *TransitionOrder) Execute(ctx context.Context, id string, next domain.OrderStatus) (*domain.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, o, next)
}

// ExecuteByNumber serves callers that only know the order number, such as
// the courier feed.
func (uc *TransitionOrder) ExecuteByNumber(ctx context.Context, number string, next domain.OrderStatus) (*domain.Order, error) {
	o, err := uc.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, o, next)
}

func (uc *TransitionOrder) apply(ctx context.Context, o *domain.Order, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, next)
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, next)
	}

	ok, err := uc.orders.UpdateStatusIf(ctx, o.ID, o.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another session; the stored status moved on.
		return nil, fmt.Errorf("%w: order %s changed concurrently", domain.ErrInvalidTransition, o.OrderNumber)
	}
	o.Status = next
	o.UpdatedAt = uc.now()

	// Customers only hear about the outcomes. The one confirmation email is
	// sent at creation time, not on intermediate status changes.
	switch next {
	case domain.OrderDelivered:
		uc.notifier.Notify(ctx, OrderEvent(EventOrderDelivered, o))
	case domain.OrderCancelled:
		uc.notifier.Notify(ctx, OrderEvent(EventOrderCancelled, o))
	}
	return o, nil
}
