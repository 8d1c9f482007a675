package api

import (
	"net/http"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	sales, total, err := s.sales.List(r.Context(), page, size)
	if err != nil {
		s.logger.Error("listing sales", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Items: sales, Total: total, Page: page, Size: size})
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	in := domain.CreateSale{ProductID: req.ProductID, Quantity: req.Quantity}
	if req.SaleDate != nil {
		in.SaleDate = *req.SaleDate
	} else {
		in.SaleDate = time.Now()
	}

	sale, err := s.sales.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info("sale recorded", "id", sale.ID, "product_id", sale.ProductID, "quantity", sale.Quantity)
	writeJSON(w, http.StatusCreated, sale)
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	var req updateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "quantity must be greater than 0")
		return
	}

	sale, err := s.sales.Update(r.Context(), pathID(r), domain.UpdateSale{
		Quantity: req.Quantity,
		SaleDate: req.SaleDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := s.sales.Delete(r.Context(), pathID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
