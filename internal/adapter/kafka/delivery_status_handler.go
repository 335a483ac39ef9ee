package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/logging"
)

// OrderTransitioner is the central lifecycle entry point; the courier feed
// goes through it so illegal moves are rejected the same way everywhere.
type OrderTransitioner interface {
	ExecuteByNumber(ctx context.Context, orderNumber string, next domain.OrderStatus) (*domain.Order, error)
}

type DeliveryStatusHandler struct {
	orders OrderTransitioner
	log    *slog.Logger
}

func NewDeliveryStatusHandler(orders OrderTransitioner) *DeliveryStatusHandler {
	return &DeliveryStatusHandler{orders: orders, log: logging.New("courier-feed")}
}

func (h *DeliveryStatusHandler) Handle(ctx context.Context, ev DeliveryStatusMsg) error {
	var next domain.OrderStatus
	switch ev.Status {
	case "PICKED_UP":
		next = domain.OrderInTransit
	case "DELIVERED":
		next = domain.OrderDelivered
	default:
		h.log.Warn("unknown courier status, ignoring",
			"order", ev.OrderNumber, "status", ev.Status)
		return nil
	}

	_, err := h.orders.ExecuteByNumber(ctx, ev.OrderNumber, next)
	if errors.Is(err, domain.ErrInvalidTransition) {
		// Stale or duplicate event (e.g. DELIVERED after an admin cancel).
		// Retrying won't make it legal, so mark it and move on.
		h.log.Warn("courier event rejected", "order", ev.OrderNumber,
			"status", ev.Status, "err", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply courier event %s for %s: %w", ev.Status, ev.OrderNumber, err)
	}
	return nil
}
