package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type MySQLSubscriptionRepo struct{ db *sql.DB }

func NewMySQLSubscriptionRepo(db *sql.DB) *MySQLSubscriptionRepo {
	return &MySQLSubscriptionRepo{db: db}
}

const subscriptionColumns = `id, customer_name, customer_email, customer_phone,
delivery_type, delivery_address, frequency, preferred_day, week_of_month,
items_json, total_amount, status, next_delivery, start_date, created_at, updated_at`

func (r *MySQLSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO subscriptions (id, customer_name, customer_email, customer_phone,
delivery_type, delivery_address, frequency, preferred_day, week_of_month,
items_json, total_amount, status, next_delivery, start_date, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		s.ID, s.CustomerName, s.CustomerEmail, s.CustomerPhone,
		s.DeliveryType, s.DeliveryAddress, s.Frequency, int(s.PreferredDay), s.WeekOfMonth,
		items, s.TotalAmount.String(), s.Status, s.NextDelivery, s.StartDate)
	return err
}

func (r *MySQLSubscriptionRepo) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id=?`, id)
	return scanSubscription(row)
}

func (r *MySQLSubscriptionRepo) List(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	var args []any
	if status != "" {
		q += ` WHERE status=?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *MySQLSubscriptionRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.SubscriptionStatus, next *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE subscriptions SET status = ?, next_delivery = ?, updated_at = NOW()
WHERE id = ? AND status = ?`, to, next, id, from)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var s domain.Subscription
	var itemsJSON []byte
	var total string
	var day int
	var next sql.NullTime
	err := row.Scan(&s.ID, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
		&s.DeliveryType, &s.DeliveryAddress, &s.Frequency, &day, &s.WeekOfMonth,
		&itemsJSON, &total, &s.Status, &next, &s.StartDate, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.PreferredDay = time.Weekday(day)
	if next.Valid {
		t := next.Time
		s.NextDelivery = &t
	}
	if err := json.Unmarshal(itemsJSON, &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if s.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	return &s, nil
}

var _ usecase.SubscriptionRepo = (*MySQLSubscriptionRepo)(nil)
