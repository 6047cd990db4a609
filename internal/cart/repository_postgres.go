package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PostgresRepository stores the cart in the jsonb `cart` column of users.
type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int) (*Cart, error) {
	var raw sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !raw.Valid || raw.String == "" {
		return New(), nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw.String), &lines); err != nil {
		return nil, fmt.Errorf("decode cart for user %d: %w", userID, err)
	}
	return FromLines(lines), nil
}

func (r *PostgresRepository) Save(ctx context.Context, userID int, c *Cart) error {
	data, err := json.Marshal(c.Lines())
	if err != nil {
		return err
	}
	return r.write(ctx, userID, string(data))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int) error {
	return r.write(ctx, userID, "[]")
}

func (r *PostgresRepository) write(ctx context.Context, userID int, cartJSON string) error {
	updatedAt := r.now().UTC().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET cart = $1, "updateAt" = $2 WHERE "userId" = $3`, cartJSON, updatedAt, userID)
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
