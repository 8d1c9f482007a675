package domain

import (
	"errors"
	"time"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSummary is the flattened shape the report renderer consumes:
// one row per product with its accumulated revenue.
type ProductSummary struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Quantity    int
	Revenue     float64
}

// CreateProduct carries the fields accepted on product creation.
type CreateProduct struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// UpdateProduct carries a partial update; nil fields are left untouched.
type UpdateProduct struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
}

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateProductName = errors.New("product name already exists")
)
