package repository

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ErrDuplicateOrderNumber is returned by SaveAndClearCart when the order
// number is taken.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type OrderRepository interface {
	// SaveAndClearCart inserts the order and empties the cart it was built
	// from in one transaction. The cart write is guarded by its version, so
	// a cart changed since it was read fails the whole checkout.
	SaveAndClearCart(ctx context.Context, order *domain.Order, cart *domain.Cart) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	// ApplyTransition persists a status change guarded by the order's version
	// and, in the same transaction, applies the stock event it raised.
	ApplyTransition(ctx context.Context, order *domain.Order, ev *domain.StockEvent) error
}

// OrderSequence hands out per-day order number sequences atomically.
type OrderSequence interface {
	Next(ctx context.Context, day string) (int64, error)
}

type OrderStatsRepository interface {
	// CountSince and RevenueSince cover all orders when since is zero.
	CountSince(ctx context.Context, since time.Time) (int64, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	AverageOrderValue(ctx context.Context) (decimal.Decimal, error)
	StatusBreakdown(ctx context.Context) ([]domain.StatusBreakdown, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
}
