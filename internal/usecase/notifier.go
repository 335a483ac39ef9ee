package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aquavi/delivery-api/internal/logging"
)

// Notifier issues best-effort notification requests after a mutation has
// committed. A failure here is logged and swallowed; it must never bubble up
// into the lifecycle transition that triggered it. If the queue is down the
// payload is parked in the outbox table for a later drain.
type Notifier struct {
	queue  NotificationQueue
	outbox OutboxRepo
	log    *slog.Logger
}

func NewNotifier(queue NotificationQueue, outbox OutboxRepo) *Notifier {
	return &Notifier{queue: queue, outbox: outbox, log: logging.New("notifier")}
}

func (n *Notifier) Notify(ctx context.Context, msg NotificationMsg) {
	if msg.Recipient == "" {
		// Email is optional throughout this domain; nothing to send.
		return
	}
	if err := n.queue.Publish(ctx, msg); err == nil {
		return
	} else {
		n.log.Warn("notification publish failed, parking in outbox",
			"kind", msg.Kind, "err", err)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		n.log.Error("notification marshal failed", "kind", msg.Kind, "err", err)
		return
	}
	if err := n.outbox.InsertNotification(ctx, payload); err != nil {
		n.log.Error("notification outbox insert failed", "kind", msg.Kind, "err", err)
	}
}
