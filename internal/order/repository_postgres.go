package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `"orderID", "userID", "bookingCode", cart, quantity, "totalPrice", "shippingPrice", "grandPrice", "paymentMethod", "paymentReference", "providerID", "serviceID", status, "createdAt", "updatedAt"`

type rowScanner interface {
	Scan(dest ...any) error
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	cartJSON, err := json.Marshal(ord.Cart)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRowContext(ctx, `INSERT INTO orders ("userID", "bookingCode", cart, quantity, "totalPrice", "shippingPrice", "grandPrice", "paymentMethod", "paymentReference", "providerID", "serviceID", status, "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING "orderID"`,
		ord.UserID, ord.BookingCode, string(cartJSON), ord.Quantity, ord.TotalPrice, ord.ShippingPrice, ord.GrandPrice,
		ord.PaymentMethod, nullable(ord.PaymentReference), nullable(ord.ProviderID), nullable(ord.ServiceID), ord.Status, ord.CreatedAt, ord.UpdatedAt,
	).Scan(&ord.OrderID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+`
		FROM orders
		WHERE "userID" = $1
		ORDER BY "orderID" DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetByBookingCode(ctx context.Context, code string) (Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE "bookingCode" = $1`, code)
	ord, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}

func scanOrder(s rowScanner) (Order, error) {
	var (
		ord       Order
		code      sql.NullString
		cartJSON  []byte
		method    sql.NullString
		reference sql.NullString
		provider  sql.NullString
		service   sql.NullString
		status    sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := s.Scan(&ord.OrderID, &ord.UserID, &code, &cartJSON, &ord.Quantity, &ord.TotalPrice, &ord.ShippingPrice, &ord.GrandPrice,
		&method, &reference, &provider, &service, &status, &createdAt, &updatedAt); err != nil {
		return Order{}, err
	}
	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &ord.Cart); err != nil {
			return Order{}, err
		}
	}
	ord.BookingCode = code.String
	ord.PaymentMethod = method.String
	ord.PaymentReference = ptr(reference)
	ord.ProviderID = ptr(provider)
	ord.ServiceID = ptr(service)
	ord.Status = status.String
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	return ord, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
