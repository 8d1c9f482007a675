// Package duckdb persists products, sales and users in an embedded DuckDB
// database over database/sql.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema.
// An empty path opens an in-memory database.
func New(path string) (*Repository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	r := &Repository{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) initSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS products_id_seq`,
		`CREATE TABLE IF NOT EXISTS products (
			id          BIGINT PRIMARY KEY DEFAULT nextval('products_id_seq'),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       DOUBLE NOT NULL,
			quantity    INTEGER NOT NULL DEFAULT 0,
			is_deleted  BOOLEAN NOT NULL DEFAULT false,
			created_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		)`,
		`CREATE SEQUENCE IF NOT EXISTS sales_id_seq`,
		`CREATE TABLE IF NOT EXISTS sales (
			id         BIGINT PRIMARY KEY DEFAULT nextval('sales_id_seq'),
			product_id BIGINT NOT NULL,
			quantity   INTEGER NOT NULL,
			sale_price DOUBLE NOT NULL,
			sale_date  TIMESTAMP NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq`,
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
