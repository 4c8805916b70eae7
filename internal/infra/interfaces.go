package infra

import (
	"context"
	"errors"
	"time"

	"storefront-service/internal/domain"
)

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentRequest) (*PaymentIntent, error)
}

// EventPublisher delivers a JSON message under a routing pattern.
type EventPublisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, userID string, order *domain.Order) error
	SendOrderStatusUpdate(ctx context.Context, userID string, order *domain.Order) error
}

var (
	_ PaymentGateway = (*PaymentClient)(nil)
	_ Notifier       = (*BrokerNotifier)(nil)
)

// ErrLockNotAcquired is returned when a lock stays held past the wait budget.
var ErrLockNotAcquired = errors.New("lock not acquired")

// Cache is a string key/value store with expiry. A miss is "", nil.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Locker serializes work on a key across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// CouponPolicy resolves a coupon code to its rule. It does not check the
// minimum purchase; callers hold the subtotal that matters to them.
type CouponPolicy interface {
	Evaluate(code string) (domain.CouponRule, error)
}
