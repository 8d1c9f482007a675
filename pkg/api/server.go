// Package api exposes the REST surface: products, sales, revenue,
// authentication and the async report protocol.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stockroomd/stockroom/internal/auth"
	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
	"github.com/stockroomd/stockroom/internal/core/services"
)

type Server struct {
	logger   *slog.Logger
	products *services.ProductService
	sales    *services.SaleService
	reports  *services.ReportService
	users    ports.UserRepository
	tokens   *auth.Tokens
}

func NewServer(
	logger *slog.Logger,
	products *services.ProductService,
	sales *services.SaleService,
	reports *services.ReportService,
	users ports.UserRepository,
	tokens *auth.Tokens,
) *Server {
	return &Server{
		logger:   logger,
		products: products,
		sales:    sales,
		reports:  reports,
		users:    users,
		tokens:   tokens,
	}
}

// Handler builds the router. Everything under /api except /api/auth
// requires a valid token; mutations additionally require the ADMIN role.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	public := r.PathPrefix("/api/auth").Subrouter()
	public.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	public.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(s.tokens.Middleware))

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth.RequireRole(domain.RoleAdmin, h)
	}

	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", admin(s.handleCreateProduct)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", admin(s.handleUpdateProduct)).Methods(http.MethodPut)
	api.HandleFunc("/products/{id:[0-9]+}", admin(s.handleDeleteProduct)).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id:[0-9]+}/sales", s.handleListProductSales).Methods(http.MethodGet)

	api.HandleFunc("/sales", s.handleListSales).Methods(http.MethodGet)
	api.HandleFunc("/sales", admin(s.handleCreateSale)).Methods(http.MethodPost)
	api.HandleFunc("/sales/{id:[0-9]+}", admin(s.handleUpdateSale)).Methods(http.MethodPut)
	api.HandleFunc("/sales/{id:[0-9]+}", admin(s.handleDeleteSale)).Methods(http.MethodDelete)

	api.HandleFunc("/revenue/total", s.handleTotalRevenue).Methods(http.MethodGet)
	api.HandleFunc("/revenue/products/{id:[0-9]+}", s.handleProductRevenue).Methods(http.MethodGet)

	api.HandleFunc("/reports/generate", s.handleGenerateReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/status/{jobId}", s.handleReportStatus).Methods(http.MethodGet)
	api.HandleFunc("/reports/file/{jobId}", s.handleReportFile).Methods(http.MethodGet)
	api.HandleFunc("/reports/download", s.handleReportDownload).Methods(http.MethodGet)

	return r
}
