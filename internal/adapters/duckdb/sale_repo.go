package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

const saleColumns = `id, product_id, quantity, sale_price, sale_date, is_deleted`

func (r *Repository) CreateSale(ctx context.Context, s *domain.Sale) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sales (product_id, quantity, sale_price, sale_date, is_deleted)
		VALUES (?, ?, ?, ?, false)
		RETURNING id`,
		s.ProductID, s.Quantity, s.SalePrice, s.SaleDate,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *Repository) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = ? AND NOT is_deleted`, id)

	s, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	if err != nil {
		return domain.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSales(ctx context.Context, offset, limit int) ([]domain.Sale, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sales WHERE NOT is_deleted`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE NOT is_deleted ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}

func (r *Repository) ListSalesByProduct(ctx context.Context, productID int64) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE product_id = ? AND NOT is_deleted ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list sales by product: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *Repository) UpdateSale(ctx context.Context, s domain.Sale) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales
		SET quantity = ?, sale_price = ?, sale_date = ?, is_deleted = ?
		WHERE id = ?`,
		s.Quantity, s.SalePrice, s.SaleDate, s.Deleted, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *Repository) RevenueByProduct(ctx context.Context, productID int64) (float64, error) {
	var revenue float64
	err := r.db.QueryRowContext(ctx,
		`SELECT coalesce(sum(sale_price * quantity), 0) FROM sales WHERE product_id = ? AND NOT is_deleted`,
		productID,
	).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("revenue by product: %w", err)
	}
	return revenue, nil
}

func (r *Repository) RevenueTotal(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.QueryRowContext(ctx,
		`SELECT coalesce(sum(sale_price * quantity), 0) FROM sales WHERE NOT is_deleted`,
	).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("revenue total: %w", err)
	}
	return revenue, nil
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.SalePrice, &s.SaleDate, &s.Deleted)
	return s, err
}
