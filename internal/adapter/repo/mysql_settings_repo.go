package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aquavi/delivery-api/internal/usecase"
)

// MySQLSettingsRepo reads and writes named flags in the settings table.
// receive_orders defaults to open when the row has never been written.
type MySQLSettingsRepo struct{ db *sql.DB }

func NewMySQLSettingsRepo(db *sql.DB) *MySQLSettingsRepo { return &MySQLSettingsRepo{db: db} }

const receiveOrdersKey = "receive_orders"

func (r *MySQLSettingsRepo) ReceiveOrders(ctx context.Context) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name=?`, receiveOrdersKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return value == "1" || value == "true", nil
}

func (r *MySQLSettingsRepo) SetReceiveOrders(ctx context.Context, open bool) error {
	value := "0"
	if open {
		value = "1"
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (name, value, updated_at) VALUES (?,?,NOW())
ON DUPLICATE KEY UPDATE value=VALUES(value), updated_at=NOW()`,
		receiveOrdersKey, value)
	return err
}

var _ usecase.SettingsStore = (*MySQLSettingsRepo)(nil)
