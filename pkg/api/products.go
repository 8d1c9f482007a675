package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/stockroomd/stockroom/internal/core/domain"
)

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func pageParams(r *http.Request) (page, size int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	size, _ = strconv.Atoi(q.Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	products, total, err := s.products.List(r.Context(), page, size)
	if err != nil {
		s.logger.Error("listing products", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: products, Total: total, Page: page, Size: size})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.Context(), pathID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	product, err := s.products.Create(r.Context(), domain.CreateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info("product created", "id", product.ID, "name", product.Name)
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	product, err := s.products.Update(r.Context(), pathID(r), domain.UpdateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), pathID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProductSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.sales.ListByProduct(r.Context(), pathID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (s *Server) handleTotalRevenue(w http.ResponseWriter, r *http.Request) {
	total, err := s.products.TotalRevenue(r.Context())
	if err != nil {
		s.logger.Error("computing total revenue", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"total_revenue": total})
}

func (s *Server) handleProductRevenue(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	revenue, err := s.products.RevenueByProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "revenue": revenue})
}
