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

type memOrderRepo struct {
	byID     map[string]*domain.Order
	byNumber map[string]*domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: map[string]*domain.Order{}, byNumber: map[string]*domain.Order{}}
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	cp := *o
	r.byID[o.ID] = &cp
	r.byNumber[o.OrderNumber] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	o, ok := r.byNumber[number]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) List(_ context.Context, _ usecase.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memOrderRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	o, ok := r.byID[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *memOrderRepo) ClaimConfirmation(_ context.Context, number string) (bool, error) {
	o, ok := r.byNumber[number]
	if !ok || o.ConfirmationSent {
		return false, nil
	}
	o.ConfirmationSent = true
	return true, nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byNumber, o.OrderNumber)
	return nil
}

type memProductRepo struct {
	products []domain.Product
}

func (r *memProductRepo) ListActive(context.Context) ([]domain.Product, error) {
	return r.products, nil
}
func (r *memProductRepo) ListAll(context.Context) ([]domain.Product, error) {
	return r.products, nil
}
func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			return &r.products[i], nil
		}
	}
	return nil, repo.ErrNotFound
}
func (r *memProductRepo) Create(context.Context, *domain.Product) error { return nil }
func (r *memProductRepo) Update(context.Context, *domain.Product) error { return nil }
func (r *memProductRepo) SetActive(context.Context, string, bool) error { return nil }
func (r *memProductRepo) Delete(context.Context, string) error          { return nil }

type stubSettings struct{ open bool }

func (s *stubSettings) ReceiveOrders(context.Context) (bool, error)  { return s.open, nil }
func (s *stubSettings) SetReceiveOrders(context.Context, bool) error { return nil }

type stubGuard struct{ locked map[string]bool }

func (g *stubGuard) TryLock(_ context.Context, key string) (bool, error) {
	if g.locked == nil {
		g.locked = map[string]bool{}
	}
	if g.locked[key] {
		return false, nil
	}
	g.locked[key] = true
	return true, nil
}

type stubQueue struct{ msgs []usecase.NotificationMsg }

func (q *stubQueue) Publish(_ context.Context, msg usecase.NotificationMsg) error {
	q.msgs = append(q.msgs, msg)
	return nil
}

type stubOutbox struct{}

func (stubOutbox) InsertNotification(context.Context, []byte) error { return nil }

type orderFixture struct {
	router *gin.Engine
	orders *memOrderRepo
	queue  *stubQueue
	open   *stubSettings
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := newMemOrderRepo()
	products := &memProductRepo{products: []domain.Product{
		{ID: "refill", Name: "5 Gallon Refill", SizeLabel: "5 gal",
			UnitPrice: decimal.RequireFromString("3.99"), Active: true},
		{ID: "new-bottle", Name: "5 Gallon New Bottle", SizeLabel: "5 gal",
			UnitPrice: decimal.RequireFromString("6.99"), Active: true},
	}}
	queue := &stubQueue{}
	open := &stubSettings{open: true}
	notifier := usecase.NewNotifier(queue, stubOutbox{})

	h := NewOrderHandler(
		usecase.NewSubmitOrder(orders, open, &stubGuard{}, notifier),
		usecase.NewTransitionOrder(orders, notifier),
		orders, products)

	r := gin.New()
	r.POST("/v1/orders", h.CreateOrder)
	r.GET("/v1/admin/orders/:id", h.GetOrder)
	r.PATCH("/v1/admin/orders/:id/status", h.UpdateStatus)
	r.GET("/v1/admin/orders/export", h.ExportCSV)

	return &orderFixture{router: r, orders: orders, queue: queue, open: open}
}

func (f *orderFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func validOrderBody() gin.H {
	return gin.H{
		"customerName":    "Maria Santos",
		"customerEmail":   "maria@example.com",
		"customerPhone":   "555-0101",
		"deliveryType":    "delivery",
		"deliveryAddress": "12 Harbor Rd",
		"preferredDate":   "2024-03-04",
		"items": []gin.H{
			{"productId": "refill", "quantity": 2},
			{"productId": "new-bottle", "quantity": 1},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(t, http.MethodPost, "/v1/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OrderNumber       string `json:"orderNumber"`
		Status            string `json:"status"`
		TotalAmount       string `json:"totalAmount"`
		ConfirmationQuery string `json:"confirmationQuery"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "14.97", resp.TotalAmount)
	assert.NotEmpty(t, resp.OrderNumber)

	q, err := url.ParseQuery(resp.ConfirmationQuery)
	require.NoError(t, err)
	assert.Equal(t, "false", q.Get("isSubscription"))
	assert.Equal(t, resp.OrderNumber, q.Get("orderNumber"))
	assert.Equal(t, "14.97", q.Get("total"))
	assert.Equal(t, "5 Gallon Refill x2, 5 Gallon New Bottle x1", q.Get("items"))

	require.Len(t, f.queue.msgs, 1)
	assert.Equal(t, usecase.EventOrderConfirmed, f.queue.msgs[0].Kind)
}

func TestCreateOrderValidationFailure(t *testing.T) {
	f := newOrderFixture(t)

	body := validOrderBody()
	body["customerPhone"] = ""
	w := f.do(t, http.MethodPost, "/v1/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Equal(t, "customerPhone", resp.Field)
	assert.Empty(t, f.queue.msgs)
}

func TestCreateOrderWhenClosed(t *testing.T) {
	f := newOrderFixture(t)
	f.open.open = false

	w := f.do(t, http.MethodPost, "/v1/orders", validOrderBody())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "orders_closed")
}

func TestCreateOrderBadDate(t *testing.T) {
	f := newOrderFixture(t)

	body := validOrderBody()
	body["preferredDate"] = "03/04/2024"
	w := f.do(t, http.MethodPost, "/v1/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	w := f.do(t, http.MethodGet, "/v1/admin/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.byID["ord-1"] = &domain.Order{ID: "ord-1", OrderNumber: "AQ-X", Status: domain.OrderDelivered}
	f.orders.byNumber["AQ-X"] = f.orders.byID["ord-1"]

	w := f.do(t, http.MethodPatch, "/v1/admin/orders/ord-1/status", gin.H{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}

func TestUpdateStatusHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.byID["ord-1"] = &domain.Order{
		ID: "ord-1", OrderNumber: "AQ-X", Status: domain.OrderPending,
		CreatedAt: time.Now(), PreferredDate: time.Now(),
		TotalAmount: decimal.Zero,
	}
	f.orders.byNumber["AQ-X"] = f.orders.byID["ord-1"]

	w := f.do(t, http.MethodPatch, "/v1/admin/orders/ord-1/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestExportCSVEndpoint(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.byID["ord-1"] = &domain.Order{
		ID: "ord-1", OrderNumber: "AQ-20240301-AAAAAA", CustomerName: "Maria Santos",
		Status: domain.OrderDelivered, TotalAmount: decimal.RequireFromString("14.97"),
		CreatedAt: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}

	w := f.do(t, http.MethodGet, "/v1/admin/orders/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Order #,Customer,Items,Total,Status,Date,Address")
	assert.Contains(t, w.Body.String(), "AQ-20240301-AAAAAA")
}
