package mysql

import "storefront-service/internal/domain"

// Models lists every table this package reads or writes, for AutoMigrate.
func Models() []any {
	return []any{
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&cartLine{},
		&domain.Order{},
		&domain.OrderItem{},
		&orderSequence{},
	}
}
