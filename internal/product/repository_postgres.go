package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `id, provider_id, category, name, description, price, discount_percentage, stock, photos, trending, featured`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Trending {
		where = append(where, "trending = true")
	}
	if f.Featured {
		where = append(where, "featured = true")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (Product, error) {
	var (
		p          Product
		providerID sql.NullString
		desc       sql.NullString
		photos     pq.StringArray
	)
	if err := s.Scan(&p.ID, &providerID, &p.Category, &p.Name, &desc, &p.Price, &p.DiscountPercentage, &p.Stock, &photos, &p.Trending, &p.Featured); err != nil {
		return Product{}, err
	}
	if providerID.Valid {
		v := providerID.String
		p.ProviderID = &v
	}
	if desc.Valid {
		v := desc.String
		p.Description = &v
	}
	p.Photos = []string(photos)
	if p.Photos == nil {
		p.Photos = []string{}
	}
	return p, nil
}
