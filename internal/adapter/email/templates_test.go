package email

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavi/delivery-api/internal/usecase"
)

func TestRenderOrderConfirmed(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, body, err := r.Render(usecase.NotificationMsg{
		Kind:      usecase.EventOrderConfirmed,
		Recipient: "maria@example.com",
		Order: &usecase.OrderPayload{
			OrderNumber:     "AQ-20240301-AAAAAA",
			CustomerName:    "Maria Santos",
			DeliveryAddress: "12 Harbor Rd",
			Items: []usecase.ItemPayload{
				{Name: "5 Gallon Refill", Size: "5 gal", Price: decimal.RequireFromString("3.99"), Quantity: 2},
			},
			TotalAmount:   decimal.RequireFromString("7.98"),
			PaymentMethod: "cash",
			DeliveryType:  "delivery",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, subject, "AQ-20240301-AAAAAA")
	assert.Contains(t, body, "Maria Santos")
	assert.Contains(t, body, "5 Gallon Refill (5 gal) x2")
	assert.Contains(t, body, "Delivery to: 12 Harbor Rd")
}

func TestRenderSubscriptionPickupAndUnknownKind(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, body, err := r.Render(usecase.NotificationMsg{
		Kind: usecase.EventSubscriptionPaused,
		Subscription: &usecase.SubscriptionPayload{
			CustomerName:   "Maria Santos",
			FrequencyLabel: "Bi-weekly",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Bi-weekly delivery subscription is paused")

	_, _, err = r.Render(usecase.NotificationMsg{Kind: usecase.EventKind("unknown")})
	assert.Error(t, err)
}
