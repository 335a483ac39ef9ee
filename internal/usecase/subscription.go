package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

type CreateSubscriptionInput struct {
	Cart         *Cart
	Customer     CustomerInfo
	Delivery     DeliveryInfo
	Frequency    domain.Frequency
	PreferredDay time.Weekday
	WeekOfMonth  int
}

// SubscriptionLifecycle owns subscription creation and the
// active/paused/cancelled state machine.
type SubscriptionLifecycle struct {
	subs     SubscriptionRepo
	notifier *Notifier
	now      func() time.Time
}

func NewSubscriptionLifecycle(subs SubscriptionRepo, notifier *Notifier) *SubscriptionLifecycle {
	return &SubscriptionLifecycle{subs: subs, notifier: notifier, now: time.Now}
}

func (uc *SubscriptionLifecycle) Create(ctx context.Context, in CreateSubscriptionInput) (*domain.Subscription, error) {
	if err := in.Cart.Validate(in.Customer, in.Delivery); err != nil {
		return nil, err
	}
	switch in.Frequency {
	case domain.FrequencyBiweekly, domain.FrequencyMonthly:
	default:
		return nil, invalid("frequency", "must be biweekly or monthly")
	}
	if in.Frequency == domain.FrequencyMonthly && (in.WeekOfMonth < 1 || in.WeekOfMonth > 4) {
		return nil, invalid("weekOfMonth", "must be between 1 and 4")
	}

	items := in.Cart.LineItems()
	now := uc.now()
	next := domain.NextDeliveryDate(in.Frequency, in.PreferredDay, in.WeekOfMonth, now)
	sub := &domain.Subscription{
		ID:              uuid.NewString(),
		CustomerName:    in.Customer.Name,
		CustomerEmail:   in.Customer.Email,
		CustomerPhone:   in.Customer.Phone,
		DeliveryType:    in.Delivery.Type,
		DeliveryAddress: in.Delivery.Address,
		Frequency:       in.Frequency,
		PreferredDay:    in.PreferredDay,
		WeekOfMonth:     in.WeekOfMonth,
		Items:           items,
		TotalAmount:     domain.LineItemsTotal(items),
		Status:          domain.SubscriptionActive,
		NextDelivery:    &next,
		StartDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Pause stops scheduling deliveries. Valid only from active.
func (uc *SubscriptionLifecycle) Pause(ctx context.Context, id string) (*domain.Subscription, error) {
	sub, err := uc.transition(ctx, id, domain.SubscriptionPaused, nil)
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, SubscriptionEvent(EventSubscriptionPaused, sub))
	return sub, nil
}

// Resume reactivates a paused subscription and recomputes the next delivery
// date from the schedule relative to now.
func (uc *SubscriptionLifecycle) Resume(ctx context.Context, id string) (*domain.Subscription, error) {
	cur, err := uc.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := domain.NextDeliveryDate(cur.Frequency, cur.PreferredDay, cur.WeekOfMonth, uc.now())
	sub, err := uc.transition(ctx, id, domain.SubscriptionActive, &next)
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, SubscriptionEvent(EventSubscriptionResumed, sub))
	return sub, nil
}

// Cancel is terminal. Cancelling an already-cancelled subscription fails
// rather than silently succeeding.
func (uc *SubscriptionLifecycle) Cancel(ctx context.Context, id string) (*domain.Subscription, error) {
	sub, err := uc.transition(ctx, id, domain.SubscriptionCancelled, nil)
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, SubscriptionEvent(EventSubscriptionCancelled, sub))
	return sub, nil
}

func (uc *SubscriptionLifecycle) transition(ctx context.Context, id string, next domain.SubscriptionStatus, nextDelivery *time.Time) (*domain.Subscription, error) {
	sub, err := uc.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sub.Status, next)
	}
	ok, err := uc.subs.UpdateStatusIf(ctx, id, sub.Status, next, nextDelivery)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: subscription %s changed concurrently", domain.ErrInvalidTransition, id)
	}
	sub.Status = next
	sub.NextDelivery = nextDelivery
	sub.UpdatedAt = uc.now()
	return sub, nil
}
