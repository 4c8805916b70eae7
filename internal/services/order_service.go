package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderNumberAttempts = 3

// StockObserver is told which products had their stock moved by a status
// transition.
type StockObserver interface {
	InvalidateProducts(ctx context.Context, ids []uint64)
}

type OrderServiceDeps struct {
	Orders   repository.OrderRepository
	Sequence repository.OrderSequence
	Carts    repository.CartRepository
	Products repository.ProductRepository
	Coupons  infra.CouponPolicy
	Payments infra.PaymentGateway
	Notifier infra.Notifier
	Locker   infra.Locker
	Logger   *zap.Logger
	Currency string
}

type OrderService struct {
	repo     repository.OrderRepository
	seq      repository.OrderSequence
	carts    repository.CartRepository
	products repository.ProductRepository
	coupons  infra.CouponPolicy
	payments infra.PaymentGateway
	notifier infra.Notifier
	locker   infra.Locker
	stock    StockObserver
	log      *zap.Logger
	currency string
	now      func() time.Time
}

func NewOrderService(d OrderServiceDeps) *OrderService {
	currency := d.Currency
	if currency == "" {
		currency = "USD"
	}
	return &OrderService{
		repo:     d.Orders,
		seq:      d.Sequence,
		carts:    d.Carts,
		products: d.Products,
		coupons:  d.Coupons,
		payments: d.Payments,
		notifier: d.Notifier,
		locker:   d.Locker,
		log:      d.Logger,
		currency: currency,
		now:      time.Now,
	}
}

func (s *OrderService) SetStockObserver(o StockObserver) {
	s.stock = o
}

// CreateOrder turns the user's cart into a pending order. Every line is
// checked against live stock, the coupon is re-evaluated against the fresh
// subtotal and, for card payments, a payment intent is opened before
// anything is written. Stock moves only when the order is confirmed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req domain.CheckoutRequest) (*domain.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, domain.InvalidRequest("unsupported payment method %q", req.PaymentMethod)
	}

	var order *domain.Order
	err := withUserLock(ctx, s.locker, s.log, userID, func(ctx context.Context) error {
		cart, err := s.carts.FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return domain.EmptyCart()
		}

		items, err := s.snapshot(ctx, cart)
		if err != nil {
			return err
		}

		now := s.now()
		order = s.draft(userID, req, items, s.checkoutCoupon(cart, items, now))

		if req.PaymentMethod.RequiresIntent() {
			pi, err := s.payments.CreatePaymentIntent(ctx, infra.PaymentIntentRequest{
				Amount:   domain.MinorUnits(order.Total),
				Currency: s.currency,
				Metadata: map[string]string{"userId": userID, "cartId": strconv.FormatUint(cart.ID, 10)},
			})
			if err != nil {
				s.log.Error("payment intent failed", zap.String("user_id", userID), zap.Error(err))
				return domain.PaymentInitiationFailed(err)
			}
			order.PaymentResult = domain.PaymentResult{ID: pi.ID, Status: pi.Status, ClientSecret: pi.ClientSecret}
		}

		return s.saveWithNumber(ctx, order, cart, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)))

	if err := s.notifier.SendOrderConfirmation(ctx, userID, order); err != nil {
		s.log.Warn("order confirmation not sent", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	return order, nil
}

// snapshot re-reads every product and captures the lines as order items.
// Lines of the same product in different variants are checked against the
// stock together.
func (s *OrderService) snapshot(ctx context.Context, cart *domain.Cart) ([]domain.OrderItem, error) {
	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}

	required := make(map[uint64]int, len(cart.Items))
	for _, it := range cart.Items {
		required[it.ProductID] += it.Quantity
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			name := ""
			if ok {
				name = p.Name
			}
			return nil, domain.ProductUnavailable(it.ProductID, name)
		}
		if p.Stock < required[p.ID] {
			return nil, domain.InsufficientStock(p.ID, p.Name, required[p.ID], p.Stock)
		}
		items = append(items, domain.OrderItem{
			ProductID:     p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			Image:         p.Image,
			Quantity:      it.Quantity,
			Price:         p.Price,
			DiscountPrice: p.DiscountPrice,
			Variant:       it.Variant,
		})
	}
	return items, nil
}

// checkoutCoupon returns the rule to price the order with, or nil. A coupon
// that no longer qualifies is dropped without failing the checkout.
func (s *OrderService) checkoutCoupon(cart *domain.Cart, items []domain.OrderItem, now time.Time) *domain.CouponRule {
	if !cart.Coupon.Attached() {
		return nil
	}
	code := cart.Coupon.Code

	rule, err := s.coupons.Evaluate(code)
	if err != nil {
		s.log.Info("dropping coupon at checkout", zap.String("code", code), zap.String("reason", "unknown code"))
		return nil
	}
	if exp := cart.Coupon.ExpiresAt; exp != nil && !now.Before(*exp) {
		s.log.Info("dropping coupon at checkout", zap.String("code", code), zap.String("reason", "expired"))
		return nil
	}
	subtotal := itemsSubtotal(items)
	if subtotal.LessThan(rule.MinimumPurchase) {
		s.log.Info("dropping coupon at checkout", zap.String("code", code), zap.String("reason", "minimum purchase not met"),
			zap.String("subtotal", subtotal.StringFixed(2)))
		return nil
	}
	return &rule
}

func itemsSubtotal(items []domain.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].LineTotal())
	}
	return sum
}

func (s *OrderService) draft(userID string, req domain.CheckoutRequest, items []domain.OrderItem, rule *domain.CouponRule) *domain.Order {
	pricing := domain.Price(itemsSubtotal(items), rule)

	billing := domain.BillingAddress{SameAsShipping: true, Address: req.ShippingAddress}
	if req.BillingAddress != nil && !req.BillingAddress.SameAsShipping {
		billing = *req.BillingAddress
	}

	o := &domain.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		ContactInfo:     req.ContactInfo,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        pricing.Subtotal,
		Discount:        pricing.Discount,
		Tax:             pricing.Tax,
		Shipping:        pricing.Shipping,
		Total:           pricing.GrandTotal,
		Currency:        s.currency,
		Status:          domain.StatusPending,
		Notes:           req.Notes,
		RefundAmount:    decimal.Zero,
	}
	if rule != nil {
		o.Coupon = domain.CouponSnapshot{Code: rule.Code, Value: rule.Value, Type: rule.Type}
	}
	return o
}

// saveWithNumber draws the next number of the day, then inserts the order and
// empties the cart together, drawing again if the number turns out to be taken.
func (s *OrderService) saveWithNumber(ctx context.Context, order *domain.Order, cart *domain.Cart, now time.Time) error {
	day := domain.OrderDay(now)
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		seq, err := s.seq.Next(ctx, day)
		if err != nil {
			return err
		}
		order.OrderNumber = domain.FormatOrderNumber(day, seq)

		err = s.repo.SaveAndClearCart(ctx, order, cart)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			return err
		}
		s.log.Warn("order number collision", zap.String("order_number", order.OrderNumber), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("no free order number for %s after %d attempts: %w", day, orderNumberAttempts, repository.ErrDuplicateOrderNumber)
}

func (s *OrderService) find(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order")
	}
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64, who domain.Identity) (*domain.Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(o.UserID) {
		return nil, domain.NotAuthorized("view this order")
	}
	return o, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *OrderService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

// transition loads the order, applies change and persists the result with
// its stock event in one step. Customers may only touch their own orders.
func (s *OrderService) transition(ctx context.Context, id uint64, who domain.Identity, action string,
	change func(*domain.Order, time.Time) (*domain.StockEvent, error)) (*domain.Order, error) {

	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(o.UserID) {
		return nil, domain.NotAuthorized(action)
	}

	from := o.Status
	ev, err := change(o, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyTransition(ctx, o, ev); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("order_number", o.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	}
	if ev != nil {
		fields = append(fields, zap.String("stock_event", string(ev.Kind)))
		if s.stock != nil {
			ids := make([]uint64, 0, len(ev.Lines))
			for _, l := range ev.Lines {
				ids = append(ids, l.ProductID)
			}
			s.stock.InvalidateProducts(ctx, ids)
		}
	}
	s.log.Info("order transitioned", fields...)

	if err := s.notifier.SendOrderStatusUpdate(ctx, o.UserID, o); err != nil {
		s.log.Warn("order status update not sent", zap.String("order_number", o.OrderNumber), zap.Error(err))
	}
	return o, nil
}

// Pay records a payment. Cash on delivery orders become confirmed, all
// others processing.
func (s *OrderService) Pay(ctx context.Context, id uint64, who domain.Identity, result domain.PaymentResult) (*domain.Order, error) {
	return s.transition(ctx, id, who, "pay for this order", func(o *domain.Order, now time.Time) (*domain.StockEvent, error) {
		if result.EmailAddress == "" {
			result.EmailAddress = o.ContactInfo.Email
		}
		return o.MarkPaid(result, now)
	})
}

func (s *OrderService) Cancel(ctx context.Context, id uint64, who domain.Identity, reason string) (*domain.Order, error) {
	return s.transition(ctx, id, who, "cancel this order", func(o *domain.Order, now time.Time) (*domain.StockEvent, error) {
		return o.Cancel(reason, who.IsAdmin(), now)
	})
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, who domain.Identity, u domain.StatusUpdate) (*domain.Order, error) {
	if !who.IsAdmin() {
		return nil, domain.NotAuthorized("update order status")
	}
	if !u.Status.Valid() {
		return nil, domain.InvalidRequest("unknown order status %q", u.Status)
	}
	return s.transition(ctx, id, who, "update order status", func(o *domain.Order, now time.Time) (*domain.StockEvent, error) {
		return o.ApplyUpdate(u, now)
	})
}

func (s *OrderService) Deliver(ctx context.Context, id uint64, who domain.Identity) (*domain.Order, error) {
	if !who.IsAdmin() {
		return nil, domain.NotAuthorized("mark orders delivered")
	}
	return s.transition(ctx, id, who, "mark orders delivered", func(o *domain.Order, now time.Time) (*domain.StockEvent, error) {
		return o.Deliver(now)
	})
}

// CreatePaymentIntent opens a payment intent for an arbitrary amount, for
// clients that collect card details before checkout.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, userID string, amount decimal.Decimal, currency string) (*infra.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, domain.InvalidRequest("invalid amount")
	}
	if currency == "" {
		currency = s.currency
	}
	pi, err := s.payments.CreatePaymentIntent(ctx, infra.PaymentIntentRequest{
		Amount:   domain.MinorUnits(amount),
		Currency: currency,
		Metadata: map[string]string{"userId": userID},
	})
	if err != nil {
		s.log.Error("payment intent failed", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.PaymentInitiationFailed(err)
	}
	return pi, nil
}
