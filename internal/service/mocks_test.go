package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCatalogStore mocks store.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) Create(ctx context.Context, item *domain.CatalogItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCatalogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogStore) GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error) {
	args := m.Called(ctx, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogStore) GetAll(ctx context.Context) ([]*domain.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogStore) Update(ctx context.Context, item *domain.CatalogItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCatalogStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogStore) UpdateCount(ctx context.Context, id uuid.UUID, count int) error {
	return m.Called(ctx, id, count).Error(0)
}

func (m *MockCatalogStore) DecrementCount(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockCatalogStore) Search(ctx context.Context, query string) ([]*domain.CatalogItem, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogStore) DistinctProviders(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogStore) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogStore) DistinctManufacturers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogStore) WithTx(*sql.Tx) store.CatalogStore {
	return m
}

// MockOrderStore mocks store.OrderStore
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderStore) GetAll(ctx context.Context) ([]*domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderStore) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderStore) Update(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderStore) IsItemReferenced(ctx context.Context, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStore) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OrderLine), args.Error(1)
}

func (m *MockOrderStore) AddOrderLine(ctx context.Context, line *domain.OrderLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockOrderStore) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockOrderStore) WithTx(*sql.Tx) store.OrderStore {
	return m
}

// MockPickupPointStore mocks store.PickupPointStore
type MockPickupPointStore struct {
	mock.Mock
}

func (m *MockPickupPointStore) Create(ctx context.Context, point *domain.PickupPoint) error {
	return m.Called(ctx, point).Error(0)
}

func (m *MockPickupPointStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupPoint), args.Error(1)
}

func (m *MockPickupPointStore) GetAll(ctx context.Context) ([]*domain.PickupPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PickupPoint), args.Error(1)
}

func (m *MockPickupPointStore) Update(ctx context.Context, point *domain.PickupPoint) error {
	return m.Called(ctx, point).Error(0)
}

func (m *MockPickupPointStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPickupPointStore) WithTx(*sql.Tx) store.PickupPointStore {
	return m
}

// MockAccountStore mocks store.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) GetByFullName(ctx context.Context, fullName string) ([]*domain.Account, error) {
	args := m.Called(ctx, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountStore) GetAll(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAccountStore) WithTx(*sql.Tx) store.AccountStore {
	return m
}

// MockPasswordHasher mocks auth.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

func (m *MockPasswordHasher) CompareDummy(password string) {
	m.Called(password)
}

// fakeTransactor runs fn directly with a nil transaction. Mock stores ignore
// the transaction in WithTx. committed counts successful runs.
type fakeTransactor struct {
	runs      int
	committed int
}

func (f *fakeTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	f.runs++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	f.committed++
	return nil
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
