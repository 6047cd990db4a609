package points

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Entries(ctx context.Context, userID int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, points, transaction_type, description, created_at
		FROM kunapuntos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Type, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Insert(ctx context.Context, e Entry) (Entry, error) {
	err := r.db.QueryRowContext(ctx, `INSERT INTO kunapuntos (user_id, points, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, e.UserID, e.Points, e.Type, e.Description, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Spend holds a per-user advisory lock for the transaction so balance checks
// from other app instances queue behind it.
func (r *PostgresRepository) Spend(ctx context.Context, e Entry) (Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('kunapuntos'), $1)`, e.UserID); err != nil {
		return Entry{}, err
	}
	var balance int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(points), 0) FROM kunapuntos WHERE user_id = $1`, e.UserID).Scan(&balance); err != nil {
		return Entry{}, err
	}
	if balance+e.Points < 0 {
		return Entry{}, ErrInsufficientPoints
	}
	err = tx.QueryRowContext(ctx, `INSERT INTO kunapuntos (user_id, points, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, e.UserID, e.Points, e.Type, e.Description, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresRepository) Rewards(ctx context.Context) ([]Reward, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, points_required, active
		FROM kunapuntos_rewards
		WHERE active = true
		ORDER BY points_required ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reward, 0)
	for rows.Next() {
		var rw Reward
		if err := rows.Scan(&rw.ID, &rw.Name, &rw.Description, &rw.PointsRequired, &rw.Active); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) RewardByID(ctx context.Context, id int) (Reward, error) {
	var rw Reward
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, points_required, active FROM kunapuntos_rewards WHERE id = $1`, id).
		Scan(&rw.ID, &rw.Name, &rw.Description, &rw.PointsRequired, &rw.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reward{}, ErrRewardNotFound
		}
		return Reward{}, err
	}
	return rw, nil
}
