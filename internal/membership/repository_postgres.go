package membership

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

func (r *PostgresRepository) Get(ctx context.Context, userID int) (Membership, error) {
	var (
		m   Membership
		end sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `SELECT user_id, plan_type, status, start_date, end_date, auto_renew FROM memberships WHERE user_id = $1`, userID).
		Scan(&m.UserID, &m.PlanType, &m.Status, &m.StartDate, &end, &m.AutoRenew)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Membership{}, ErrNotFound
		}
		return Membership{}, err
	}
	if end.Valid {
		t := end.Time
		m.EndDate = &t
	}
	return m, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, m Membership) error {
	var end sql.NullTime
	if m.EndDate != nil {
		end = sql.NullTime{Time: *m.EndDate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO memberships (user_id, plan_type, status, start_date, end_date, auto_renew)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET plan_type = EXCLUDED.plan_type,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			auto_renew = EXCLUDED.auto_renew`,
		m.UserID, m.PlanType, m.Status, m.StartDate, end, m.AutoRenew)
	return err
}
