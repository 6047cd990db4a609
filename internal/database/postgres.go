package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx database/sql driver and pings it.
func Open(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		"userId" SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		"fullName" TEXT,
		phone TEXT,
		"userType" TEXT NOT NULL DEFAULT 'customer',
		"createAt" TEXT,
		"updateAt" TEXT
	)`,
	// cart lines are an ordered JSON array of {id,name,unitPrice,image,quantity}
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS cart jsonb NOT NULL DEFAULT '[]'`,
	`CREATE TABLE IF NOT EXISTS providers (
		id TEXT PRIMARY KEY,
		user_id INT,
		business_name TEXT NOT NULL,
		description TEXT,
		logo_url TEXT,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		total_reviews INT NOT NULL DEFAULT 0,
		verified BOOLEAN NOT NULL DEFAULT false,
		address TEXT,
		delivery_available BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		provider_id TEXT,
		category TEXT,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		discount_percentage INT NOT NULL DEFAULT 0,
		stock INT NOT NULL DEFAULT 0,
		photos TEXT[] NOT NULL DEFAULT '{}',
		trending BOOLEAN NOT NULL DEFAULT false,
		featured BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		duration_minutes INT,
		species_allowed TEXT[] NOT NULL DEFAULT '{}',
		photos TEXT[] NOT NULL DEFAULT '{}',
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS services_provider_idx ON services (provider_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		provider_id TEXT NOT NULL,
		user_id INT NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		"orderID" SERIAL PRIMARY KEY,
		"userID" INT NOT NULL,
		cart jsonb NOT NULL DEFAULT '[]',
		quantity INT NOT NULL DEFAULT 0,
		"totalPrice" numeric NOT NULL DEFAULT 0,
		"shippingPrice" numeric NOT NULL DEFAULT 0,
		"grandPrice" numeric NOT NULL DEFAULT 0,
		status TEXT,
		"createdAt" TEXT,
		"updatedAt" TEXT
	)`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS "bookingCode" TEXT`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS "paymentMethod" TEXT`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS "paymentReference" TEXT`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS "providerID" TEXT`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS "serviceID" TEXT`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_booking_code_idx ON orders ("bookingCode")`,
	`CREATE TABLE IF NOT EXISTS kunapuntos (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL,
		points INT NOT NULL,
		transaction_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS kunapuntos_rewards (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		points_required INT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS memberships (
		user_id INT PRIMARY KEY,
		plan_type TEXT NOT NULL DEFAULT 'free',
		status TEXT NOT NULL DEFAULT 'active',
		start_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		end_date TIMESTAMPTZ,
		auto_renew BOOLEAN NOT NULL DEFAULT false
	)`,
}

// EnsureSchema creates missing tables and columns.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
