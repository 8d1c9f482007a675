package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

// SaleService records sales against products. Recording a sale freezes the
// product's current price on the sale and decrements stock; deleting a sale
// restores the stock, treating the sale as if it never happened.
type SaleService struct {
	logger   *slog.Logger
	sales    ports.SaleRepository
	products ports.ProductRepository
}

func NewSaleService(logger *slog.Logger, sales ports.SaleRepository, products ports.ProductRepository) *SaleService {
	return &SaleService{logger: logger, sales: sales, products: products}
}

func (s *SaleService) Create(ctx context.Context, in domain.CreateSale) (domain.Sale, error) {
	product, err := s.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return domain.Sale{}, err
	}
	if product.Quantity < in.Quantity {
		return domain.Sale{}, domain.ErrInsufficientStock
	}

	product.Quantity -= in.Quantity
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return domain.Sale{}, err
	}

	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now().UTC()
	}
	sale := domain.Sale{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		SalePrice: product.Price,
		SaleDate:  saleDate,
	}
	if err := s.sales.CreateSale(ctx, &sale); err != nil {
		return domain.Sale{}, err
	}
	s.logger.Info("sale recorded", "sale_id", sale.ID, "product_id", in.ProductID, "quantity", in.Quantity)
	return sale, nil
}

func (s *SaleService) Update(ctx context.Context, id int64, in domain.UpdateSale) (domain.Sale, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}

	if in.Quantity != nil && *in.Quantity != sale.Quantity {
		product, err := s.products.GetProduct(ctx, sale.ProductID)
		if err != nil {
			return domain.Sale{}, err
		}

		// Selling more takes from stock, selling less gives back
		diff := *in.Quantity - sale.Quantity
		if diff > 0 && product.Quantity < diff {
			return domain.Sale{}, domain.ErrInsufficientStock
		}
		product.Quantity -= diff
		product.UpdatedAt = time.Now().UTC()
		if err := s.products.UpdateProduct(ctx, product); err != nil {
			return domain.Sale{}, err
		}
		sale.Quantity = *in.Quantity
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}

	if err := s.sales.UpdateSale(ctx, sale); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

// Delete soft-deletes a sale and restores its quantity to product stock.
func (s *SaleService) Delete(ctx context.Context, id int64) error {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return err
	}

	product, err := s.products.GetProduct(ctx, sale.ProductID)
	if err == nil {
		product.Quantity += sale.Quantity
		product.UpdatedAt = time.Now().UTC()
		if err := s.products.UpdateProduct(ctx, product); err != nil {
			return err
		}
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return err
	}

	sale.Deleted = true
	if err := s.sales.UpdateSale(ctx, sale); err != nil {
		return err
	}
	s.logger.Info("sale deleted", "sale_id", id, "restored_quantity", sale.Quantity)
	return nil
}

func (s *SaleService) List(ctx context.Context, page, size int) ([]domain.Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.sales.ListSales(ctx, (page-1)*size, size)
}

func (s *SaleService) ListByProduct(ctx context.Context, productID int64) ([]domain.Sale, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.sales.ListSalesByProduct(ctx, productID)
}
