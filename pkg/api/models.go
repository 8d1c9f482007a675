package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

// Request/response shapes and the error-to-HTTP mapping. Every failure
// surfaces as {status, error, message}; internals never leak.

type errorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (r *createProductRequest) validate() error {
	if len(r.Name) < 2 || len(r.Name) > 100 {
		return fmt.Errorf("name must be between 2 and 100 characters")
	}
	if len(r.Description) < 2 || len(r.Description) > 255 {
		return fmt.Errorf("description must be between 2 and 255 characters")
	}
	if r.Price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity must be >= 0")
	}
	return nil
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

func (r *updateProductRequest) validate() error {
	if r.Name != nil && (len(*r.Name) < 2 || len(*r.Name) > 100) {
		return fmt.Errorf("name must be between 2 and 100 characters")
	}
	if r.Price != nil && *r.Price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return fmt.Errorf("quantity must be >= 0")
	}
	return nil
}

type createSaleRequest struct {
	ProductID int64      `json:"product_id"`
	Quantity  int        `json:"quantity"`
	SaleDate  *time.Time `json:"sale_date"`
}

func (r *createSaleRequest) validate() error {
	if r.ProductID <= 0 {
		return fmt.Errorf("product_id is required")
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	return nil
}

type updateSaleRequest struct {
	Quantity *int       `json:"quantity"`
	SaleDate *time.Time `json:"sale_date"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *credentialsRequest) validate() error {
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type pageResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

type jobResponse struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errName, message string) {
	writeJSON(w, code, errorResponse{
		Status:  http.StatusText(code),
		Error:   errName,
		Message: message,
	})
}

// writeDomainError maps domain sentinels onto HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, domain.ErrSaleNotFound):
		writeError(w, http.StatusNotFound, "sale_not_found", "sale not found")
	case errors.Is(err, domain.ErrDuplicateProductName):
		writeError(w, http.StatusBadRequest, "duplicate_name", "a product with that name already exists")
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", "not enough stock for this sale")
	case errors.Is(err, domain.ErrDuplicateUsername):
		writeError(w, http.StatusBadRequest, "duplicate_username", "username already exists")
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, domain.ErrQueueFull):
		writeError(w, http.StatusServiceUnavailable, "queue_full", "report queue is full, try again later")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
