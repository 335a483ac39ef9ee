package repo

import (
	"context"
	"database/sql"

	"github.com/aquavi/delivery-api/internal/usecase"
)

// MySQLOutboxRepo parks notification payloads the queue refused, so a drain
// job can retry them.
type MySQLOutboxRepo struct{ db *sql.DB }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) InsertNotification(ctx context.Context, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO outbox (channel, payload, status, retry_count, next_attempt_at, created_at)
VALUES ('notify.email', ?, 'PENDING', 0, NOW(), NOW())`, payload)
	return err
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)
