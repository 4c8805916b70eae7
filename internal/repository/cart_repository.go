package repository

import (
	"context"

	"storefront-service/internal/domain"
)

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// Save creates the cart or replaces its contents, failing with a conflict
	// when the stored version moved since the cart was read.
	Save(ctx context.Context, cart *domain.Cart) error
}
