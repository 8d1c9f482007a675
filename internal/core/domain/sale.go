package domain

import (
	"errors"
	"time"
)

// Sale records a sale of a product. SalePrice is frozen at the product's
// price when the sale was made, so later price changes don't rewrite revenue.
type Sale struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	SalePrice float64   `json:"sale_price"`
	SaleDate  time.Time `json:"sale_date"`
	Deleted   bool      `json:"-"`
}

// CreateSale carries the fields accepted when recording a sale.
type CreateSale struct {
	ProductID int64
	Quantity  int
	SaleDate  time.Time
}

// UpdateSale carries a partial sale update; nil fields are left untouched.
// The sale price is managed internally and never updatable.
type UpdateSale struct {
	Quantity *int
	SaleDate *time.Time
}

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
