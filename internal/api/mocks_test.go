package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Login(ctx context.Context, login, password string) (*domain.Account, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountService) Register(ctx context.Context, in service.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountService) GetAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *mockAccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) items(args mock.Arguments) ([]*domain.CatalogItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CatalogItem), args.Error(1)
}

func (m *mockCatalogService) item(args mock.Arguments) (*domain.CatalogItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *mockCatalogService) strings(args mock.Arguments) ([]string, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCatalogService) GetAll(ctx context.Context) ([]*domain.CatalogItem, error) {
	return m.items(m.Called(ctx))
}

func (m *mockCatalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, id))
}

func (m *mockCatalogService) GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, article))
}

func (m *mockCatalogService) Search(ctx context.Context, query string, acct *domain.Account) ([]*domain.CatalogItem, error) {
	return m.items(m.Called(ctx, query, acct))
}

func (m *mockCatalogService) FilterAndSort(ctx context.Context, opts service.FilterOptions, acct *domain.Account) ([]*domain.CatalogItem, error) {
	return m.items(m.Called(ctx, opts, acct))
}

func (m *mockCatalogService) Create(ctx context.Context, in service.CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, in, acct))
}

func (m *mockCatalogService) Update(ctx context.Context, item *domain.CatalogItem, acct *domain.Account) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, item, acct))
}

func (m *mockCatalogService) UpdateByID(ctx context.Context, id uuid.UUID, in service.CatalogItemInput, acct *domain.Account) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, id, in, acct))
}

func (m *mockCatalogService) Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error {
	return m.Called(ctx, id, acct).Error(0)
}

func (m *mockCatalogService) AdjustStock(ctx context.Context, id uuid.UUID, newCount int) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, id, newCount))
}

func (m *mockCatalogService) PriceWithDiscount(price decimal.Decimal, discount *decimal.Decimal) decimal.Decimal {
	return domain.PriceWithDiscount(price, discount)
}

func (m *mockCatalogService) Providers(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

func (m *mockCatalogService) Categories(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

func (m *mockCatalogService) Manufacturers(ctx context.Context) ([]string, error) {
	return m.strings(m.Called(ctx))
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) order(args mock.Arguments) (*domain.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderService) orders(args mock.Arguments) ([]*domain.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *mockOrderService) GetAll(ctx context.Context, acct *domain.Account) ([]*domain.Order, error) {
	return m.orders(m.Called(ctx, acct))
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *mockOrderService) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error) {
	return m.orders(m.Called(ctx, accountID))
}

func (m *mockOrderService) GetOrdersForAccount(ctx context.Context, acct *domain.Account) ([]*domain.Order, error) {
	return m.orders(m.Called(ctx, acct))
}

func (m *mockOrderService) Create(ctx context.Context, in service.CreateOrderInput, acct *domain.Account) (*domain.Order, error) {
	return m.order(m.Called(ctx, in, acct))
}

func (m *mockOrderService) CreateForAdmin(ctx context.Context, in service.AdminOrderInput, acct *domain.Account) (*domain.Order, error) {
	return m.order(m.Called(ctx, in, acct))
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	return m.order(m.Called(ctx, orderID, status))
}

func (m *mockOrderService) Update(ctx context.Context, order *domain.Order, acct *domain.Account) (*domain.Order, error) {
	return m.order(m.Called(ctx, order, acct))
}

func (m *mockOrderService) UpdateData(ctx context.Context, orderID uuid.UUID, patch service.OrderPatch, acct *domain.Account) (*domain.Order, error) {
	return m.order(m.Called(ctx, orderID, patch, acct))
}

func (m *mockOrderService) Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error {
	return m.Called(ctx, id, acct).Error(0)
}

func (m *mockOrderService) CalculateTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockOrderService) CalculateCartTotal(ctx context.Context, lines []domain.LineRequest) (decimal.Decimal, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockOrderService) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OrderLine), args.Error(1)
}

func (m *mockOrderService) GetAllPickupPoints(ctx context.Context) ([]*domain.PickupPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PickupPoint), args.Error(1)
}

var (
	_ service.AccountService = (*mockAccountService)(nil)
	_ service.CatalogService = (*mockCatalogService)(nil)
	_ service.OrderService   = (*mockOrderService)(nil)
)
