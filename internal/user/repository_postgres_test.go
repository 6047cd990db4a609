package user

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"userId", "email", "password", "fullName", "phone", "userType", "createAt", "updateAt"}).
		AddRow(3, "a@example.com", "$2a$hash", "Ana", nil, "customer", "2024-01-01T00:00:00Z", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE lower(email) = lower($1)`)).WithArgs("a@example.com").WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, u.ID)
	assert.Equal(t, "Ana", u.FullName)
	assert.Empty(t, u.Phone)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE "userId" = $1`)).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"userId"}))
	_, err = repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	_, err = repo.Create(context.Background(), User{Email: "a@example.com", UserType: TypeCustomer})
	assert.ErrorIs(t, err, ErrEmailExists)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{"userId"}).AddRow(11))
	u, err := repo.Create(context.Background(), User{Email: "b@example.com", UserType: TypeCustomer})
	require.NoError(t, err)
	assert.Equal(t, 11, u.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
