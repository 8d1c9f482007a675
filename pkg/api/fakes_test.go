package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stockroomd/stockroom/internal/auth"
	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
	"github.com/stockroomd/stockroom/internal/core/services"
)

// In-memory repositories backing the handler tests. Same shape as the
// DuckDB adapters, minus the database.

type memProductRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{rows: make(map[int64]domain.Product)}
}

func (r *memProductRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = *p
	return nil
}

func (r *memProductRepo) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || p.Deleted {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *memProductRepo) ListProducts(_ context.Context, offset, limit int) ([]domain.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.Product
	for _, p := range r.rows {
		if !p.Deleted {
			live = append(live, p)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	total := len(live)
	if offset > len(live) {
		offset = len(live)
	}
	live = live[offset:]
	if limit > 0 && limit < len(live) {
		live = live[:limit]
	}
	return live, total, nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.rows[p.ID] = p
	return nil
}

func (r *memProductRepo) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if !p.Deleted && p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memSaleRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{rows: make(map[int64]domain.Sale)}
}

func (r *memSaleRepo) CreateSale(_ context.Context, s *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.rows[s.ID] = *s
	return nil
}

func (r *memSaleRepo) GetSale(_ context.Context, id int64) (domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.Deleted {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	return s, nil
}

func (r *memSaleRepo) ListSales(_ context.Context, offset, limit int) ([]domain.Sale, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.Sale
	for _, s := range r.rows {
		if !s.Deleted {
			live = append(live, s)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	total := len(live)
	if offset > len(live) {
		offset = len(live)
	}
	live = live[offset:]
	if limit > 0 && limit < len(live) {
		live = live[:limit]
	}
	return live, total, nil
}

func (r *memSaleRepo) ListSalesByProduct(_ context.Context, productID int64) ([]domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Sale
	for _, s := range r.rows {
		if !s.Deleted && s.ProductID == productID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSaleRepo) UpdateSale(_ context.Context, s domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[s.ID]; !ok {
		return domain.ErrSaleNotFound
	}
	r.rows[s.ID] = s
	return nil
}

func (r *memSaleRepo) RevenueByProduct(_ context.Context, productID int64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, s := range r.rows {
		if !s.Deleted && s.ProductID == productID {
			total += s.SalePrice * float64(s.Quantity)
		}
	}
	return total, nil
}

func (r *memSaleRepo) RevenueTotal(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, s := range r.rows {
		if !s.Deleted {
			total += s.SalePrice * float64(s.Quantity)
		}
	}
	return total, nil
}

type memUserRepo struct {
	mu   sync.Mutex
	rows map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{rows: make(map[string]domain.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	u.ID = int64(len(r.rows) + 1)
	u.CreatedAt = time.Now()
	r.rows[u.Username] = *u
	return nil
}

func (r *memUserRepo) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Write(jobID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[jobID] = data
	return nil
}

func (m *memStore) Read(jobID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[jobID]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return data, nil
}

func (m *memStore) Exists(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[jobID]
	return ok
}

func (m *memStore) Delete(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, jobID)
	return nil
}

func (m *memStore) ListWithAge() ([]ports.StoredArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.StoredArtifact
	for id := range m.blobs {
		out = append(out, ports.StoredArtifact{JobID: id})
	}
	return out, nil
}

var fakePDF = []byte("%PDF-1.4\nfake report\n%%EOF")

type stubRenderer struct{}

func (stubRenderer) Render([]domain.ProductSummary) ([]byte, error) {
	return fakePDF, nil
}

// testEnv wires a full server against in-memory backends and exposes the
// pieces the tests poke at directly.
type testEnv struct {
	server   *httptest.Server
	products *memProductRepo
	sales    *memSaleRepo
	users    *memUserRepo
	store    *memStore
	registry *services.TaskRegistry
	reports  *services.ReportService
	tokens   *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	products := newMemProductRepo()
	sales := newMemSaleRepo()
	users := newMemUserRepo()
	store := newMemStore()
	registry := services.NewTaskRegistry()

	productSvc := services.NewProductService(logger, products, sales)
	saleSvc := services.NewSaleService(logger, sales, products)
	reportSvc := services.NewReportService(logger, registry, store, stubRenderer{}, productSvc, services.ReportConfig{
		MaxConcurrentRenders: 2,
		QueueSize:            16,
	})

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("building tokens: %v", err)
	}

	srv := NewServer(logger, productSvc, saleSvc, reportSvc, users, tokens)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		server:   ts,
		products: products,
		sales:    sales,
		users:    users,
		store:    store,
		registry: registry,
		reports:  reportSvc,
		tokens:   tokens,
	}
}

func testLoggerDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (e *testEnv) token(role domain.Role) string {
	signed, _ := e.tokens.Issue(domain.User{Username: "tester", Role: role})
	return signed
}
