package services

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"go.uber.org/zap"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	coupons  infra.CouponPolicy
	locker   infra.Locker
	log      *zap.Logger
	now      func() time.Time
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	coupons infra.CouponPolicy,
	locker infra.Locker,
	log *zap.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		coupons:  coupons,
		locker:   locker,
		log:      log,
		now:      time.Now,
	}
}

type AddItemInput struct {
	ProductID uint64
	Quantity  int
	Variant   domain.Variant
}

// GuestItem is a line carried over from an anonymous session.
type GuestItem struct {
	ProductID uint64
	Quantity  int
	Variant   domain.Variant
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = domain.NewCart(userID)
	}
	return cart, nil
}

func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	v := cart.View(products, s.now())
	return &v, nil
}

// mutate loads the cart under the user's lock, applies fn and saves the
// result when fn reports a change.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(*domain.Cart) (bool, error)) (*domain.CartView, error) {
	var out *domain.CartView
	err := withUserLock(ctx, s.locker, s.log, userID, func(ctx context.Context) error {
		cart, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		changed, opErr := fn(cart)
		if changed {
			if err := s.carts.Save(ctx, cart); err != nil {
				return err
			}
		}
		if opErr != nil {
			return opErr
		}
		out, err = s.view(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the cart with its products populated. Lines whose product was
// deleted or deactivated are dropped and the pruned cart is saved; a second
// read finds nothing to prune.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.CartView, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		if len(cart.Items) == 0 {
			return false, nil
		}
		products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
		if err != nil {
			return false, err
		}
		removed := cart.Prune(products)
		if removed > 0 {
			s.log.Info("pruned unavailable cart lines",
				zap.String("user_id", userID), zap.Int("removed", removed))
		}
		return removed > 0, nil
	})
}

func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.CartView, error) {
	if in.Quantity < 1 {
		return nil, domain.InvalidQuantity(in.Quantity)
	}
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		p, err := s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return false, err
		}
		if p == nil {
			return false, domain.NotFound("product")
		}
		if err := cart.Add(p, in.Quantity, in.Variant, s.now()); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.CartView, error) {
	if quantity < 1 {
		return nil, domain.InvalidQuantity(quantity)
	}
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		item, ok := cart.Item(itemID)
		if !ok {
			return false, domain.NotFound("cart item")
		}
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return false, err
		}
		evicted, err := cart.SetQuantity(itemID, quantity, p, s.now())
		if err != nil {
			return evicted, err
		}
		return true, nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.CartView, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		if err := cart.Remove(itemID); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) (*domain.CartView, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		cart.Clear()
		return cart.ID != 0, nil
	})
}

func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (*domain.CartView, error) {
	rule, err := s.coupons.Evaluate(code)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		subtotal := cart.Subtotal()
		if subtotal.LessThan(rule.MinimumPurchase) {
			return false, domain.MinimumPurchaseNotMet(rule.Code, rule.MinimumPurchase, subtotal)
		}
		cart.Coupon = domain.AttachCoupon(rule, s.now())
		return true, nil
	})
}

func (s *CartService) RemoveCoupon(ctx context.Context, userID string) (*domain.CartView, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		if !cart.Coupon.Attached() {
			return false, domain.NoCouponApplied()
		}
		cart.Coupon = domain.CartCoupon{}
		return true, nil
	})
}

// Merge folds a guest cart into the user's cart. Lines for unavailable
// products are skipped and quantities are capped at stock, so the merge as a
// whole never fails on a single line.
func (s *CartService) Merge(ctx context.Context, userID string, items []GuestItem) (*domain.CartView, error) {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return s.mutate(ctx, userID, func(cart *domain.Cart) (bool, error) {
		if len(items) == 0 {
			return false, nil
		}
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return false, err
		}
		now := s.now()
		changed := false
		for _, it := range items {
			if cart.Merge(products[it.ProductID], it.Quantity, it.Variant, now) {
				changed = true
			} else {
				s.log.Debug("skipped guest cart line",
					zap.String("user_id", userID), zap.Uint64("product_id", it.ProductID))
			}
		}
		return changed, nil
	})
}
