package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	// AdjustStock adds delta to stock and soldDelta to sold. A negative delta
	// only applies when enough stock remains.
	AdjustStock(ctx context.Context, id uint64, delta, soldDelta int) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}
