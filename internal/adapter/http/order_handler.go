package http

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type OrderHandler struct {
	submit     *usecase.SubmitOrder
	transition *usecase.TransitionOrder
	orders     usecase.OrderRepo
	products   usecase.ProductRepo
}

func NewOrderHandler(submit *usecase.SubmitOrder, transition *usecase.TransitionOrder,
	orders usecase.OrderRepo, products usecase.ProductRepo) *OrderHandler {
	return &OrderHandler{submit: submit, transition: transition, orders: orders, products: products}
}

type orderItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type createOrderReq struct {
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone"`
	DeliveryType    string         `json:"deliveryType" binding:"required,oneof=delivery pickup"`
	DeliveryAddress string         `json:"deliveryAddress"`
	PreferredDate   string         `json:"preferredDate"` // YYYY-MM-DD
	Items           []orderItemReq `json:"items"`
	// OrderNumber lets a retried submission reuse its first order number so
	// the guard can return the original order instead of duplicating it.
	OrderNumber string `json:"orderNumber"`
}

// CreateOrder is the public storefront submission endpoint.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	catalog, err := h.products.ListActive(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	cart := usecase.NewCart(catalog)
	for _, it := range req.Items {
		cart.SetQuantity(it.ProductID, it.Quantity)
	}

	var preferred time.Time
	if req.PreferredDate != "" {
		if preferred, err = time.Parse("2006-01-02", req.PreferredDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "preferredDate must be YYYY-MM-DD"})
			return
		}
	}

	order, err := h.submit.Execute(ctx, usecase.SubmitOrderInput{
		Cart: cart,
		Customer: usecase.CustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Delivery: usecase.DeliveryInfo{
			Type:          domain.DeliveryType(req.DeliveryType),
			Address:       req.DeliveryAddress,
			PreferredDate: preferred,
		},
		OrderNumber: req.OrderNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderNumber":       order.OrderNumber,
		"status":            order.Status,
		"totalAmount":       order.TotalAmount,
		"confirmationQuery": confirmationQuery(order, nil).Encode(),
	})
}

// confirmationQuery builds the query string the confirmation page renders
// from, so no follow-up fetch is needed.
func confirmationQuery(o *domain.Order, sub *domain.Subscription) url.Values {
	q := url.Values{}
	if o != nil {
		q.Set("orderNumber", o.OrderNumber)
		q.Set("customerName", o.CustomerName)
		q.Set("total", o.TotalAmount.StringFixed(2))
		q.Set("items", usecase.JoinItems(o.Items))
		q.Set("deliveryAddress", o.DeliveryAddress)
		q.Set("customerPhone", o.CustomerPhone)
	}
	if sub == nil {
		q.Set("isSubscription", "false")
		return q
	}
	q.Set("isSubscription", "true")
	q.Set("customerName", sub.CustomerName)
	q.Set("total", sub.TotalAmount.StringFixed(2))
	q.Set("items", usecase.JoinItems(sub.Items))
	q.Set("deliveryAddress", sub.DeliveryAddress)
	q.Set("customerPhone", sub.CustomerPhone)
	q.Set("frequency", string(sub.Frequency))
	q.Set("subscriptionSummary", subscriptionSummary(sub))
	return q
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	o, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(o))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	filter, err := parseOrderFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}
	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(orders))
	for i := range orders {
		views = append(views, orderView(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies a lifecycle transition from the admin console.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	o, err := h.transition.Execute(ctx, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(o))
}

// DeleteOrder is the destructive admin escape hatch, not a lifecycle step.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.orders.Delete(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCSV streams the filtered order list as a CSV download.
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	filter, err := parseOrderFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}
	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	w := csv.NewWriter(c.Writer)
	_ = w.Write(usecase.ExportHeader)
	for _, row := range usecase.ExportRows(orders, usecase.OrderFilter{}) {
		_ = w.Write(row)
	}
	w.Flush()
}

func parseOrderFilter(c *gin.Context) (usecase.OrderFilter, error) {
	var f usecase.OrderFilter
	if s := c.Query("status"); s != "" {
		f.Status = domain.OrderStatus(s)
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, err
		}
		f.From = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, err
		}
		// inclusive end of day
		f.To = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return f, nil
}

func orderView(o *domain.Order) gin.H {
	return gin.H{
		"id":               o.ID,
		"orderNumber":      o.OrderNumber,
		"customerName":     o.CustomerName,
		"customerEmail":    o.CustomerEmail,
		"customerPhone":    o.CustomerPhone,
		"deliveryType":     o.DeliveryType,
		"deliveryAddress":  o.DeliveryAddress,
		"preferredDate":    o.PreferredDate.Format("2006-01-02"),
		"items":            o.Items,
		"totalAmount":      o.TotalAmount,
		"status":           o.Status,
		"paymentMethod":    o.PaymentMethod,
		"confirmationSent": o.ConfirmationSent,
		"createdAt":        o.CreatedAt,
		"updatedAt":        o.UpdatedAt,
	}
}
