package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	getUserByIDQuery = `
		SELECT "userId", email, password, "fullName", phone, "userType", "createAt", "updateAt"
		FROM users
		WHERE "userId" = $1
	`
	getUserByEmailQuery = `
		SELECT "userId", email, password, "fullName", phone, "userType", "createAt", "updateAt"
		FROM users
		WHERE lower(email) = lower($1)
	`
	insertUserQuery = `
		INSERT INTO users (email, password, "fullName", phone, "userType", "createAt", "updateAt")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING "userId"
	`
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, getUserByEmailQuery, email)
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		insertUserQuery,
		user.Email,
		user.Password,
		user.FullName,
		nullString(user.Phone),
		user.UserType,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var (
		fullName  sql.NullString
		phone     sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&fullName,
		&phone,
		&user.UserType,
		&createdAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}
	user.FullName = fullName.String
	user.Phone = phone.String
	user.CreatedAt = createdAt.String
	user.UpdatedAt = updatedAt.String
	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
