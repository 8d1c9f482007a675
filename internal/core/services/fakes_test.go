package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

// In-memory repository fakes shared by the service tests.

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
	if offset > total {
		offset = total
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
	if offset > total {
		offset = total
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
	var sum float64
	for _, s := range r.rows {
		if !s.Deleted && s.ProductID == productID {
			sum += s.SalePrice * float64(s.Quantity)
		}
	}
	return sum, nil
}

func (r *memSaleRepo) RevenueTotal(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, s := range r.rows {
		if !s.Deleted {
			sum += s.SalePrice * float64(s.Quantity)
		}
	}
	return sum, nil
}

// memStore is an in-memory ResultStore with controllable artifact ages.
type memStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	ages     map[string]time.Duration
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte), ages: make(map[string]time.Duration)}
}

func (m *memStore) Write(jobID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.blobs[jobID] = data
	m.ages[jobID] = 0
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
	delete(m.ages, jobID)
	return nil
}

func (m *memStore) ListWithAge() ([]ports.StoredArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.StoredArtifact, 0, len(m.blobs))
	for id := range m.blobs {
		out = append(out, ports.StoredArtifact{JobID: id, Age: m.ages[id]})
	}
	return out, nil
}

func (m *memStore) setAge(jobID string, age time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ages[jobID] = age
}

var _ ports.ResultStore = (*memStore)(nil)
var _ ports.ProductRepository = (*memProductRepo)(nil)
var _ ports.SaleRepository = (*memSaleRepo)(nil)
