package mysql

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

// cartLine persists the position of a cart item so lines keep their order.
type cartLine struct {
	domain.CartItem
	Position int `gorm:"not null;default:0"`
}

func (cartLine) TableName() string { return "cart_items" }

func (r *cartRepo) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find cart of user %s: %w", userID, err)
	}

	var lines []cartLine
	if err := r.db.WithContext(ctx).Where("cart_id = ?", c.ID).Order("position").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("load cart %d items: %w", c.ID, err)
	}
	c.Items = make([]domain.CartItem, 0, len(lines))
	for _, l := range lines {
		c.Items = append(c.Items, l.CartItem)
	}
	return &c, nil
}

func (r *cartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	next := cart.Version + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveCart(tx, cart)
	})
	if err != nil {
		return err
	}
	cart.Version = next
	return nil
}

// saveCart writes the cart row under its version check and replaces the
// lines. It must run inside a transaction; the caller bumps cart.Version
// after commit.
func saveCart(tx *gorm.DB, cart *domain.Cart) error {
	next := cart.Version + 1
	if cart.ID == 0 {
		cart.Version = next
		err := tx.Omit(clause.Associations).Create(cart).Error
		cart.Version = next - 1
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.Conflict("cart")
			}
			return fmt.Errorf("create cart: %w", err)
		}
	} else {
		res := tx.Model(&domain.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"coupon_code":             cart.Coupon.Code,
				"coupon_value":            cart.Coupon.Value,
				"coupon_type":             cart.Coupon.Type,
				"coupon_minimum_purchase": cart.Coupon.MinimumPurchase,
				"coupon_expires_at":       cart.Coupon.ExpiresAt,
				"notes":                   cart.Notes,
				"version":                 next,
			})
		if res.Error != nil {
			return fmt.Errorf("update cart %d: %w", cart.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.Conflict("cart")
		}
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&cartLine{}).Error; err != nil {
		return fmt.Errorf("clear cart %d items: %w", cart.ID, err)
	}
	if len(cart.Items) == 0 {
		return nil
	}
	lines := make([]cartLine, len(cart.Items))
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
		lines[i] = cartLine{CartItem: cart.Items[i], Position: i}
	}
	if err := tx.Create(&lines).Error; err != nil {
		return fmt.Errorf("write cart %d items: %w", cart.ID, err)
	}
	return nil
}
