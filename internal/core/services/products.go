package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

// ProductService implements product CRUD over the repository, with soft
// deletes and revenue aggregation. Deleted products are invisible to every
// read path; duplicate names are only rejected among live products.
type ProductService struct {
	logger   *slog.Logger
	products ports.ProductRepository
	sales    ports.SaleRepository
}

func NewProductService(logger *slog.Logger, products ports.ProductRepository, sales ports.SaleRepository) *ProductService {
	return &ProductService{logger: logger, products: products, sales: sales}
}

func (s *ProductService) List(ctx context.Context, page, size int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.products.ListProducts(ctx, (page-1)*size, size)
}

func (s *ProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in domain.CreateProduct) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	exists, err := s.products.NameExists(ctx, name, 0)
	if err != nil {
		return domain.Product{}, err
	}
	if exists {
		return domain.Product{}, domain.ErrDuplicateProductName
	}

	now := time.Now().UTC()
	p := domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Quantity:    in.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.CreateProduct(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in domain.UpdateProduct) (domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name := strings.TrimSpace(*in.Name)
		exists, err := s.products.NameExists(ctx, name, id)
		if err != nil {
			return domain.Product{}, err
		}
		if exists {
			return domain.Product{}, domain.ErrDuplicateProductName
		}
		p.Name = name
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete soft-deletes a product. The row stays for sale history; a second
// delete reports not found like any other read of a deleted product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	p.Deleted = true
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *ProductService) TotalRevenue(ctx context.Context) (float64, error) {
	return s.sales.RevenueTotal(ctx)
}

func (s *ProductService) RevenueByProduct(ctx context.Context, productID int64) (float64, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.sales.RevenueByProduct(ctx, productID)
}

// ListSummaries builds the report render input: every live product with
// its accumulated revenue.
func (s *ProductService) ListSummaries(ctx context.Context) ([]domain.ProductSummary, error) {
	products, _, err := s.products.ListProducts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		revenue, err := s.sales.RevenueByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ProductSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Revenue:     revenue,
		})
	}
	return summaries, nil
}
