package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type SubscriptionHandler struct {
	lifecycle *usecase.SubscriptionLifecycle
	subs      usecase.SubscriptionRepo
	products  usecase.ProductRepo
}

func NewSubscriptionHandler(lifecycle *usecase.SubscriptionLifecycle,
	subs usecase.SubscriptionRepo, products usecase.ProductRepo) *SubscriptionHandler {
	return &SubscriptionHandler{lifecycle: lifecycle, subs: subs, products: products}
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

type createSubscriptionReq struct {
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	CustomerPhone   string         `json:"customerPhone"`
	DeliveryType    string         `json:"deliveryType" binding:"required,oneof=delivery pickup"`
	DeliveryAddress string         `json:"deliveryAddress"`
	Frequency       string         `json:"frequency" binding:"required"`
	PreferredDay    string         `json:"preferredDay" binding:"required"`
	WeekOfMonth     int            `json:"weekOfMonth"`
	Items           []orderItemReq `json:"items"`
}

// CreateSubscription is the public recurring-delivery signup.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	day, ok := weekdays[strings.ToLower(req.PreferredDay)]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "unknown preferredDay"})
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

	sub, err := h.lifecycle.Create(ctx, usecase.CreateSubscriptionInput{
		Cart: cart,
		Customer: usecase.CustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Delivery: usecase.DeliveryInfo{
			Type:    domain.DeliveryType(req.DeliveryType),
			Address: req.DeliveryAddress,
			// Subscriptions schedule by weekday, not a one-off date; the
			// computed first delivery stands in for the preferred date.
			PreferredDate: time.Now(),
		},
		Frequency:    domain.Frequency(req.Frequency),
		PreferredDay: day,
		WeekOfMonth:  req.WeekOfMonth,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"subscription":      subscriptionView(sub),
		"confirmationQuery": confirmationQuery(nil, sub).Encode(),
	})
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	subs, err := h.subs.List(ctx, domain.SubscriptionStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(subs))
	for i := range subs {
		views = append(views, subscriptionView(&subs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}

func (h *SubscriptionHandler) Pause(c *gin.Context) {
	h.runTransition(c, h.lifecycle.Pause)
}

func (h *SubscriptionHandler) Resume(c *gin.Context) {
	h.runTransition(c, h.lifecycle.Resume)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.lifecycle.Cancel)
}

func (h *SubscriptionHandler) runTransition(c *gin.Context,
	fn func(context.Context, string) (*domain.Subscription, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sub, err := fn(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscriptionView(sub))
}

func subscriptionView(s *domain.Subscription) gin.H {
	v := gin.H{
		"id":              s.ID,
		"customerName":    s.CustomerName,
		"customerEmail":   s.CustomerEmail,
		"customerPhone":   s.CustomerPhone,
		"deliveryType":    s.DeliveryType,
		"deliveryAddress": s.DeliveryAddress,
		"frequency":       s.Frequency,
		"frequencyLabel":  s.Frequency.Label(),
		"preferredDay":    s.PreferredDay.String(),
		"weekOfMonth":     s.WeekOfMonth,
		"items":           s.Items,
		"totalAmount":     s.TotalAmount,
		"status":          s.Status,
		"startDate":       s.StartDate.Format("2006-01-02"),
		"createdAt":       s.CreatedAt,
		"updatedAt":       s.UpdatedAt,
	}
	if s.NextDelivery != nil {
		v["nextDelivery"] = s.NextDelivery.Format("2006-01-02")
	}
	return v
}

func subscriptionSummary(s *domain.Subscription) string {
	if s.Frequency == domain.FrequencyMonthly {
		return fmt.Sprintf("%s, week %d on %s", s.Frequency.Label(), s.WeekOfMonth, s.PreferredDay)
	}
	return fmt.Sprintf("%s on %s", s.Frequency.Label(), s.PreferredDay)
}
