package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type MySQLMessageRepo struct{ db *sql.DB }

func NewMySQLMessageRepo(db *sql.DB) *MySQLMessageRepo { return &MySQLMessageRepo{db: db} }

const messageColumns = `id, name, email, phone, body, status, created_at, updated_at`

func (r *MySQLMessageRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO contact_messages (id, name, email, phone, body, status, created_at, updated_at)
VALUES (?,?,?,?,?,?,NOW(),NOW())`,
		m.ID, m.Name, m.Email, m.Phone, m.Body, m.Status)
	return err
}

func (r *MySQLMessageRepo) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := r.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM contact_messages WHERE id=?`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Body, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MySQLMessageRepo) List(ctx context.Context, status domain.MessageStatus) ([]domain.ContactMessage, error) {
	q := `SELECT ` + messageColumns + ` FROM contact_messages`
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

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Body, &m.Status,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MySQLMessageRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.MessageStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE contact_messages SET status = ?, updated_at = NOW()
WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

var _ usecase.MessageRepo = (*MySQLMessageRepo)(nil)
