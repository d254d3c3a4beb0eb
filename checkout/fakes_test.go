package checkout

import (
	"context"
	"sync"

	"github.com/junaidrashid-git/autoparts-api/models"
)

type memCarts struct {
	mu        sync.Mutex
	data      map[string][]models.LineItem
	saves     int
	saveErr   error
	deleteErr error
}

func newMemCarts() *memCarts { return &memCarts{data: make(map[string][]models.LineItem)} }

func (m *memCarts) LoadCart(_ context.Context, key string) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.data[key]
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (m *memCarts) SaveCart(_ context.Context, key string, items []models.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := make([]models.LineItem, len(items))
	copy(cp, items)
	m.data[key] = cp
	return nil
}

func (m *memCarts) DeleteCart(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

type fakeProducts struct {
	byCode map[string]*models.Product
	err    error
}

func (f *fakeProducts) FindByDiscountCode(_ context.Context, code string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byCode[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

type fakeMarketers struct {
	byCode map[string]*models.Marketer
	err    error
}

func (f *fakeMarketers) FindMarketerByCode(_ context.Context, code string) (*models.Marketer, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.byCode[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	return m, nil
}

type storedOrder struct {
	ledger   models.Ledger
	order    models.Order
	approval *models.AdminRequest
}

type fakeOrders struct {
	mu      sync.Mutex
	stored  []storedOrder
	err     error
	getErr  error
	current map[string]*models.Order
}

func newFakeOrders() *fakeOrders { return &fakeOrders{current: make(map[string]*models.Order)} }

func (f *fakeOrders) CreateOrder(_ context.Context, ledger models.Ledger, order *models.Order, approval *models.AdminRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, storedOrder{ledger: ledger, order: *order, approval: approval})
	cp := *order
	f.current[ledger.Path()+"#"+order.ID] = &cp
	return nil
}

func (f *fakeOrders) GetOrder(_ context.Context, ledger models.Ledger, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.current[ledger.Path()+"#"+id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}
