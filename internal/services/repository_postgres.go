package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const serviceColumns = `id, provider_id, category, name, description, price, duration_minutes, species_allowed, photos, active, created_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string, limit int) ([]PetService, error) {
	args := []any{}
	query := `SELECT ` + serviceColumns + ` FROM services WHERE active = true`
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += ` ORDER BY price ASC, id`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) ListByProvider(ctx context.Context, providerID string) ([]PetService, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services
		WHERE provider_id = $1 AND active = true
		ORDER BY price ASC, id`, providerID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (PetService, error) {
	s, err := scanService(r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PetService{}, ErrNotFound
		}
		return PetService{}, err
	}
	return s, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]PetService, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PetService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanService(sc scanner) (PetService, error) {
	var (
		s        PetService
		desc     sql.NullString
		duration sql.NullInt64
		species  pq.StringArray
		photos   pq.StringArray
	)
	if err := sc.Scan(&s.ID, &s.ProviderID, &s.Category, &s.Name, &desc, &s.Price, &duration, &species, &photos, &s.Active, &s.CreatedAt); err != nil {
		return PetService{}, err
	}
	if desc.Valid {
		v := desc.String
		s.Description = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		s.DurationMinutes = &v
	}
	s.SpeciesAllowed = orEmpty(species)
	s.Photos = orEmpty(photos)
	return s, nil
}

func orEmpty(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
