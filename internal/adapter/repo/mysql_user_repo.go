package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aquavi/delivery-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*usecase.AdminUser, error) {
	var u usecase.AdminUser
	var perms string
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, perms FROM admin_users WHERE email=?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &perms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// perms stored as a comma-separated list, e.g. "orders.read,orders.write"
	for _, p := range strings.Split(perms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			u.Perms = append(u.Perms, p)
		}
	}
	return &u, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
