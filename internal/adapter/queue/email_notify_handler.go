package queue

import (
	"context"
	"log/slog"

	"github.com/aquavi/delivery-api/internal/logging"
	"github.com/aquavi/delivery-api/internal/usecase"
)

// EmailSender is the port to the SMTP adapter.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Renderer turns a notification request into an email subject and body.
type Renderer interface {
	Render(msg usecase.NotificationMsg) (subject, body string, err error)
}

// ConfirmationClaimer is the persisted at-most-once guard for the
// order-confirmed event.
type ConfirmationClaimer interface {
	ClaimConfirmation(ctx context.Context, orderNumber string) (bool, error)
}

// EmailNotifyHandler consumes notification requests and sends email.
// Intended for use with queue.JSONHandler[usecase.NotificationMsg].
type EmailNotifyHandler struct {
	sender   EmailSender
	renderer Renderer
	orders   ConfirmationClaimer
	log      *slog.Logger
}

func NewEmailNotifyHandler(sender EmailSender, renderer Renderer, orders ConfirmationClaimer) *EmailNotifyHandler {
	return &EmailNotifyHandler{
		sender:   sender,
		renderer: renderer,
		orders:   orders,
		log:      logging.New("email-notify"),
	}
}

func (h *EmailNotifyHandler) HandleNotify(ctx context.Context, msg usecase.NotificationMsg) error {
	if msg.Recipient == "" {
		// Email is optional; a request without an address is a no-op.
		return nil
	}

	// An order gets exactly one confirmation email. The claim is checked
	// right before sending so a redelivered message cannot double-send.
	if msg.Kind == usecase.EventOrderConfirmed && msg.Order != nil {
		won, err := h.orders.ClaimConfirmation(ctx, msg.Order.OrderNumber)
		if err != nil {
			return err
		}
		if !won {
			h.log.Info("confirmation already sent, skipping",
				"order", msg.Order.OrderNumber)
			return nil
		}
	}

	subject, body, err := h.renderer.Render(msg)
	if err != nil {
		h.log.Error("render failed, dropping message", "kind", msg.Kind, "err", err)
		// A template bug would poison the queue; ack and move on.
		return nil
	}
	return h.sender.Send(ctx, msg.Recipient, subject, body)
}
