package usecase

import (
	"context"
	"time"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

type OrderFilter struct {
	Status domain.OrderStatus // zero value = all statuses
	From   time.Time
	To     time.Time
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	// UpdateStatusIf is a compare-and-set: it only moves id from `from` to
	// `to` and reports whether a row changed.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
	// ClaimConfirmation flips the persisted confirmation-sent marker and
	// reports whether this caller won the claim. At most one caller ever does.
	ClaimConfirmation(ctx context.Context, orderNumber string) (bool, error)
	// Delete is the destructive admin escape hatch, not a lifecycle step.
	Delete(ctx context.Context, id string) error
}

type SubscriptionRepo interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	List(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error)
	// UpdateStatusIf moves id from `from` to `to` and stores next (nil clears
	// the next delivery date). Reports whether a row changed.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.SubscriptionStatus, next *time.Time) (bool, error)
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// ListActive returns active products in unit-price ascending order, the
	// display convention used everywhere.
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type TestimonialRepo interface {
	Create(ctx context.Context, t *domain.Testimonial) error
	ListActive(ctx context.Context) ([]domain.Testimonial, error)
	ListAll(ctx context.Context) ([]domain.Testimonial, error)
	Update(ctx context.Context, t *domain.Testimonial) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type MessageRepo interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	List(ctx context.Context, status domain.MessageStatus) ([]domain.ContactMessage, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.MessageStatus) (bool, error)
}

// SettingsStore exposes the admin-controlled kill switch gating new orders.
// Injected so tests can flip it without a store.
type SettingsStore interface {
	ReceiveOrders(ctx context.Context) (bool, error)
	SetReceiveOrders(ctx context.Context, open bool) error
}

// SubmitGuard deduplicates order submission by order number (SetNX-style).
type SubmitGuard interface {
	TryLock(ctx context.Context, key string) (bool, error)
}

// NotificationQueue carries notification requests to the email dispatcher.
type NotificationQueue interface {
	Publish(ctx context.Context, msg NotificationMsg) error
}

// OutboxRepo parks notification payloads that could not be published, for a
// later drain. Insert failures are logged and swallowed by the Notifier.
type OutboxRepo interface {
	InsertNotification(ctx context.Context, payload []byte) error
}

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	Perms        []string
}

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
}
