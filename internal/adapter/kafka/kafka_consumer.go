package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/aquavi/delivery-api/internal/logging"
)

// DeliveryStatusMsg is published by the courier app when a driver scans an
// order in or out of the van.
type DeliveryStatusMsg struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"` // PICKED_UP | DELIVERED
	DriverID    string `json:"driverId,omitempty"`
}

// HandlerFunc processes a decoded courier event.
type HandlerFunc func(ctx context.Context, ev DeliveryStatusMsg) error

// Consumer consumes the delivery-events topic with a single handler.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
	Logger *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
		Logger: logging.New("kafka-consumer"),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			return err
		}
		// Consume returns on ctx cancellation or a rebalance.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev DeliveryStatusMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.logger.Warn("decode error, marking poison message",
				"err", err, "offset", msg.Offset)
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			h.logger.Warn("handler error, will retry",
				"err", err, "key", string(msg.Key), "offset", msg.Offset)
			// Not marked; retried on the next poll.
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
