package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavi/delivery-api/internal/adapter/repo"
	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type memSubRepo struct {
	byID map[string]*domain.Subscription
}

func newMemSubRepo() *memSubRepo { return &memSubRepo{byID: map[string]*domain.Subscription{}} }

func (r *memSubRepo) Create(_ context.Context, s *domain.Subscription) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *memSubRepo) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSubRepo) List(_ context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error) {
	var out []domain.Subscription
	for _, s := range r.byID {
		if status == "" || s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSubRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.SubscriptionStatus, next *time.Time) (bool, error) {
	s, ok := r.byID[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	s.NextDelivery = next
	return true, nil
}

func newSubscriptionFixture(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := &memProductRepo{products: []domain.Product{
		{ID: "refill", Name: "5 Gallon Refill", SizeLabel: "5 gal",
			UnitPrice: decimal.RequireFromString("3.99"), Active: true},
	}}
	notifier := usecase.NewNotifier(&stubQueue{}, stubOutbox{})
	h := NewSubscriptionHandler(usecase.NewSubscriptionLifecycle(newMemSubRepo(), notifier), newMemSubRepo(), products)

	r := gin.New()
	r.POST("/v1/subscriptions", h.CreateSubscription)
	r.POST("/v1/admin/subscriptions/:id/pause", h.Pause)
	r.POST("/v1/admin/subscriptions/:id/resume", h.Resume)
	r.POST("/v1/admin/subscriptions/:id/cancel", h.Cancel)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validSubscriptionBody() gin.H {
	return gin.H{
		"customerName":    "Maria Santos",
		"customerEmail":   "maria@example.com",
		"customerPhone":   "555-0101",
		"deliveryType":    "delivery",
		"deliveryAddress": "12 Harbor Rd",
		"frequency":       "biweekly",
		"preferredDay":    "Monday",
		"items":           []gin.H{{"productId": "refill", "quantity": 2}},
	}
}

func TestCreateSubscriptionEndpoint(t *testing.T) {
	r := newSubscriptionFixture(t)

	w := postJSON(t, r, "/v1/subscriptions", validSubscriptionBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Subscription struct {
			ID           string `json:"id"`
			Status       string `json:"status"`
			NextDelivery string `json:"nextDelivery"`
		} `json:"subscription"`
		ConfirmationQuery string `json:"confirmationQuery"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Subscription.Status)
	assert.NotEmpty(t, resp.Subscription.NextDelivery)

	q, err := url.ParseQuery(resp.ConfirmationQuery)
	require.NoError(t, err)
	assert.Equal(t, "true", q.Get("isSubscription"))
	assert.Equal(t, "biweekly", q.Get("frequency"))
	assert.Equal(t, "Bi-weekly on Monday", q.Get("subscriptionSummary"))
}

func TestCreateSubscriptionUnknownDay(t *testing.T) {
	r := newSubscriptionFixture(t)
	body := validSubscriptionBody()
	body["preferredDay"] = "Someday"
	w := postJSON(t, r, "/v1/subscriptions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSubscriptionBadFrequency(t *testing.T) {
	r := newSubscriptionFixture(t)
	body := validSubscriptionBody()
	body["frequency"] = "weekly"
	w := postJSON(t, r, "/v1/subscriptions", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"frequency"`)
}

func TestSubscriptionLifecycleEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	subs := newMemSubRepo()
	notifier := usecase.NewNotifier(&stubQueue{}, stubOutbox{})
	h := NewSubscriptionHandler(usecase.NewSubscriptionLifecycle(subs, notifier), subs, &memProductRepo{})

	r := gin.New()
	r.POST("/v1/admin/subscriptions/:id/pause", h.Pause)
	r.POST("/v1/admin/subscriptions/:id/resume", h.Resume)
	r.POST("/v1/admin/subscriptions/:id/cancel", h.Cancel)

	next := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, subs.Create(context.Background(), &domain.Subscription{
		ID: "sub-1", Status: domain.SubscriptionActive,
		Frequency: domain.FrequencyBiweekly, PreferredDay: time.Monday,
		NextDelivery: &next, TotalAmount: decimal.Zero,
	}))

	w := postJSON(t, r, "/v1/admin/subscriptions/sub-1/pause", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"paused"`)

	w = postJSON(t, r, "/v1/admin/subscriptions/sub-1/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)
	assert.Contains(t, w.Body.String(), "nextDelivery")

	w = postJSON(t, r, "/v1/admin/subscriptions/sub-1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/v1/admin/subscriptions/sub-1/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, r, "/v1/admin/subscriptions/missing/pause", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
