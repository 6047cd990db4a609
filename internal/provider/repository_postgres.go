package provider

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const providerColumns = `id, user_id, business_name, description, logo_url, rating, total_reviews, verified, address, delivery_available`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+providerColumns+` FROM providers ORDER BY rating DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Provider, error) {
	p, err := scanProvider(r.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Provider{}, ErrNotFound
		}
		return Provider{}, err
	}
	return p, nil
}

func (r *PostgresRepository) SetDelivery(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE providers SET delivery_available = $1 WHERE id = $2`, available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Reviews(ctx context.Context, providerID string, limit int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT r.id, r.provider_id, r.user_id, u."fullName", r.rating, r.comment, r.created_at
		FROM reviews r
		LEFT JOIN users u ON u."userId" = r.user_id
		WHERE r.provider_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`, providerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var (
			rv      Review
			author  sql.NullString
			comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.ProviderID, &rv.UserID, &author, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		if author.Valid {
			v := author.String
			rv.AuthorName = &v
		}
		if comment.Valid {
			v := comment.String
			rv.Comment = &v
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProvider(s scanner) (Provider, error) {
	var (
		p       Provider
		userID  sql.NullInt64
		desc    sql.NullString
		logo    sql.NullString
		address sql.NullString
	)
	if err := s.Scan(&p.ID, &userID, &p.BusinessName, &desc, &logo, &p.Rating, &p.TotalReviews, &p.Verified, &address, &p.DeliveryAvailable); err != nil {
		return Provider{}, err
	}
	if userID.Valid {
		v := int(userID.Int64)
		p.UserID = &v
	}
	if desc.Valid {
		s := desc.String
		p.Description = &s
	}
	if logo.Valid {
		s := logo.String
		p.LogoURL = &s
	}
	if address.Valid {
		s := address.String
		p.Address = &s
	}
	return p, nil
}
