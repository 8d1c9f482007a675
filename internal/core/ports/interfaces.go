package ports

import (
	"context"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

// ProductRepository abstracts product persistence (DuckDB).
// All reads ignore soft-deleted rows unless stated otherwise.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	// ListProducts returns a page of live products plus the total live
	// count. A limit <= 0 returns everything.
	ListProducts(ctx context.Context, offset, limit int) ([]domain.Product, int, error)
	UpdateProduct(ctx context.Context, p domain.Product) error

	// NameExists reports whether a live product with the given name exists,
	// excluding the product with excludeID (pass 0 to exclude nothing).
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
}

// SaleRepository abstracts sale persistence.
type SaleRepository interface {
	CreateSale(ctx context.Context, s *domain.Sale) error
	GetSale(ctx context.Context, id int64) (domain.Sale, error)
	ListSales(ctx context.Context, offset, limit int) ([]domain.Sale, int, error)
	ListSalesByProduct(ctx context.Context, productID int64) ([]domain.Sale, error)
	UpdateSale(ctx context.Context, s domain.Sale) error

	// RevenueByProduct sums sale_price*quantity over live sales for one
	// product; RevenueTotal does the same over all live sales.
	RevenueByProduct(ctx context.Context, productID int64) (float64, error)
	RevenueTotal(ctx context.Context) (float64, error)
}

// UserRepository abstracts user persistence for authentication.
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// StoredArtifact is one finished report on disk, with its age at the time
// of enumeration.
type StoredArtifact struct {
	JobID string
	Age   time.Duration
}

// ResultStore holds finished report artifacts keyed by job id.
type ResultStore interface {
	Write(jobID string, data []byte) error
	// Read returns domain.ErrArtifactNotFound when no artifact exists.
	Read(jobID string) ([]byte, error)
	Exists(jobID string) bool
	// Delete is idempotent: deleting an absent artifact is a no-op.
	Delete(jobID string) error
	// ListWithAge is a single pass over current store state.
	ListWithAge() ([]StoredArtifact, error)
}

// ReportRenderer turns a product listing into a finished PDF document.
// An empty listing must still yield a valid document.
type ReportRenderer interface {
	Render(products []domain.ProductSummary) ([]byte, error)
}
