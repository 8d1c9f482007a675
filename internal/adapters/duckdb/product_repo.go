package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

const productColumns = `id, name, description, price, quantity, is_deleted, created_at, updated_at`

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, quantity, is_deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, false, ?, ?)
		RETURNING id`,
		p.Name, p.Description, p.Price, p.Quantity, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ? AND NOT is_deleted`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context, offset, limit int) ([]domain.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM products WHERE NOT is_deleted`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE NOT is_deleted ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, quantity = ?, is_deleted = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price, p.Quantity, p.Deleted, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM products WHERE name = ? AND NOT is_deleted AND id <> ?`,
		name, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check product name: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
