package repo

import (
	"context"
	"database/sql"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type MySQLTestimonialRepo struct{ db *sql.DB }

func NewMySQLTestimonialRepo(db *sql.DB) *MySQLTestimonialRepo {
	return &MySQLTestimonialRepo{db: db}
}

const testimonialColumns = `id, name, location, review, rating, avatar_url, verified, active, created_at, updated_at`

func (r *MySQLTestimonialRepo) Create(ctx context.Context, t *domain.Testimonial) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO testimonials (id, name, location, review, rating, avatar_url, verified, active, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,NOW(),NOW())`,
		t.ID, t.Name, t.Location, t.Review, t.Rating, t.AvatarURL, t.Verified, t.Active)
	return err
}

func (r *MySQLTestimonialRepo) ListActive(ctx context.Context) ([]domain.Testimonial, error) {
	return r.list(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE active=1 ORDER BY created_at DESC`)
}

func (r *MySQLTestimonialRepo) ListAll(ctx context.Context) ([]domain.Testimonial, error) {
	return r.list(ctx, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`)
}

func (r *MySQLTestimonialRepo) list(ctx context.Context, q string) ([]domain.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Testimonial
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.Review, &t.Rating,
			&t.AvatarURL, &t.Verified, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *MySQLTestimonialRepo) Update(ctx context.Context, t *domain.Testimonial) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE testimonials SET name=?, location=?, review=?, rating=?, avatar_url=?, verified=?, active=?, updated_at=NOW()
WHERE id=?`, t.Name, t.Location, t.Review, t.Rating, t.AvatarURL, t.Verified, t.Active, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *MySQLTestimonialRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE testimonials SET active=?, updated_at=NOW() WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *MySQLTestimonialRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

var _ usecase.TestimonialRepo = (*MySQLTestimonialRepo)(nil)
