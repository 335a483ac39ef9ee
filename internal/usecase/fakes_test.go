package usecase

import (
	"context"
	"errors"
	"time"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

var errNotFound = errors.New("not found")

type fakeOrderRepo struct {
	byID        map[string]*domain.Order
	byNumber    map[string]*domain.Order
	createCalls int
	createErr   error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[string]*domain.Order{}, byNumber: map[string]*domain.Order{}}
}

func (r *fakeOrderRepo) put(o *domain.Order) {
	r.byID[o.ID] = o
	r.byNumber[o.OrderNumber] = o
}

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	cp := *o
	r.put(&cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	o, ok := r.byNumber[number]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	o, ok := r.byID[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *fakeOrderRepo) ClaimConfirmation(_ context.Context, number string) (bool, error) {
	o, ok := r.byNumber[number]
	if !ok || o.ConfirmationSent {
		return false, nil
	}
	o.ConfirmationSent = true
	return true, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return errNotFound
	}
	delete(r.byID, id)
	delete(r.byNumber, o.OrderNumber)
	return nil
}

type fakeSubscriptionRepo struct {
	byID map[string]*domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byID: map[string]*domain.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, s *domain.Subscription) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubscriptionRepo) List(_ context.Context, _ domain.SubscriptionStatus) ([]domain.Subscription, error) {
	var out []domain.Subscription
	for _, s := range r.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.SubscriptionStatus, next *time.Time) (bool, error) {
	s, ok := r.byID[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	s.NextDelivery = next
	return true, nil
}

type fakeSettings struct {
	open bool
	err  error
}

func (s *fakeSettings) ReceiveOrders(context.Context) (bool, error) { return s.open, s.err }
func (s *fakeSettings) SetReceiveOrders(_ context.Context, open bool) error {
	s.open = open
	return nil
}

type fakeGuard struct {
	locked map[string]bool
	err    error
}

func newFakeGuard() *fakeGuard { return &fakeGuard{locked: map[string]bool{}} }

func (g *fakeGuard) TryLock(_ context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.locked[key] {
		return false, nil
	}
	g.locked[key] = true
	return true, nil
}

type fakeQueue struct {
	msgs []NotificationMsg
	err  error
}

func (q *fakeQueue) Publish(_ context.Context, msg NotificationMsg) error {
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *fakeQueue) kinds() []EventKind {
	out := make([]EventKind, 0, len(q.msgs))
	for _, m := range q.msgs {
		out = append(out, m.Kind)
	}
	return out
}

type fakeOutbox struct {
	payloads [][]byte
	err      error
}

func (o *fakeOutbox) InsertNotification(_ context.Context, payload []byte) error {
	if o.err != nil {
		return o.err
	}
	o.payloads = append(o.payloads, payload)
	return nil
}
