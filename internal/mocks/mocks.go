package mocks

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.OrderRepository      = (*MockOrderRepository)(nil)
	_ repository.OrderSequence        = (*MockOrderSequence)(nil)
	_ repository.OrderStatsRepository = (*MockOrderStatsRepository)(nil)
	_ repository.CartRepository       = (*MockCartRepository)(nil)
	_ repository.ProductRepository    = (*MockProductRepository)(nil)
	_ repository.CategoryRepository   = (*MockCategoryRepository)(nil)
	_ infra.PaymentGateway            = (*MockPaymentGateway)(nil)
	_ infra.Notifier                  = (*MockNotifier)(nil)
	_ infra.EventPublisher            = (*MockPublisher)(nil)
	_ infra.Locker                    = (*MockLocker)(nil)
	_ infra.Cache                     = (*MockCache)(nil)
	_ infra.CouponPolicy              = (*MockCouponPolicy)(nil)
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) SaveAndClearCart(ctx context.Context, order *domain.Order, cart *domain.Cart) error {
	args := m.Called(ctx, order, cart)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ApplyTransition(ctx context.Context, order *domain.Order, ev *domain.StockEvent) error {
	args := m.Called(ctx, order, ev)
	return args.Error(0)
}

type MockOrderSequence struct {
	mock.Mock
}

func (m *MockOrderSequence) Next(ctx context.Context, day string) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderStatsRepository struct {
	mock.Mock
}

func (m *MockOrderStatsRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderStatsRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderStatsRepository) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderStatsRepository) StatusBreakdown(ctx context.Context) ([]domain.StatusBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusBreakdown), args.Error(1)
}

func (m *MockOrderStatsRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyRevenue), args.Error(1)
}

func (m *MockOrderStatsRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopProduct), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint64]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uint64, delta, soldDelta int) error {
	args := m.Called(ctx, id, delta, soldDelta)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, in infra.PaymentIntentRequest) (*infra.PaymentIntent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.PaymentIntent), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, userID string, order *domain.Order) error {
	args := m.Called(ctx, userID, order)
	return args.Error(0)
}

func (m *MockNotifier) SendOrderStatusUpdate(ctx context.Context, userID string, order *domain.Order) error {
	args := m.Called(ctx, userID, order)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

// Acquire returns a release func that records a "Release" call with the key.
func (m *MockLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		return m.MethodCalled("Release", key).Error(0)
	}, nil
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockCouponPolicy struct {
	mock.Mock
}

func (m *MockCouponPolicy) Evaluate(code string) (domain.CouponRule, error) {
	args := m.Called(code)
	return args.Get(0).(domain.CouponRule), args.Error(1)
}
