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

type OrderRepo struct {
	db *gorm.DB
}

var (
	_ repository.OrderRepository      = (*OrderRepo)(nil)
	_ repository.OrderSequence        = (*OrderRepo)(nil)
	_ repository.OrderStatsRepository = (*OrderRepo)(nil)
)

func NewOrderRepository(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// orderSequence is one counter row per order day.
type orderSequence struct {
	Day   string `gorm:"primaryKey;size:6"`
	Value int64  `gorm:"not null"`
}

func (orderSequence) TableName() string { return "order_sequences" }

// SaveAndClearCart inserts the order with its items and writes the emptied
// cart in the same transaction. The order ID is assigned by the database.
// On success cart holds the cleared state and its new version; on failure
// neither argument's persisted state has changed.
func (r *OrderRepo) SaveAndClearCart(ctx context.Context, order *domain.Order, cart *domain.Cart) error {
	cleared := *cart
	cleared.Clear()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return repository.ErrDuplicateOrderNumber
			}
			return fmt.Errorf("save order: %w", err)
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}
		return saveCart(tx, &cleared)
	})
	if err != nil {
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID, order.Items[i].OrderID = 0, 0
		}
		return err
	}
	cleared.Version++
	*cart = cleared
	return nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	return &o, nil
}

func (r *OrderRepo) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("find orders of user %s: %w", userID, err)
	}
	return out, nil
}

func (r *OrderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return out, nil
}

// ApplyTransition is the only place order stock events touch the catalog.
// The order row is compare-and-swapped on its version so a transition that
// lost a race applies neither its fields nor its stock movement.
func (r *OrderRepo) ApplyTransition(ctx context.Context, order *domain.Order, ev *domain.StockEvent) error {
	expected := order.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(transitionColumns(order, expected+1))
		if res.Error != nil {
			return fmt.Errorf("update order %d: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.Conflict("order")
		}
		if ev == nil {
			return nil
		}
		for _, line := range ev.Lines {
			stock, sold := ev.Delta(line)
			if err := adjustStock(tx, line.ProductID, stock, sold); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.Version = expected + 1
	return nil
}

func transitionColumns(o *domain.Order, version int) map[string]any {
	return map[string]any{
		"status":                o.Status,
		"stock_reserved":        o.StockReserved,
		"is_paid":               o.IsPaid,
		"paid_at":               o.PaidAt,
		"is_delivered":          o.IsDelivered,
		"delivered_at":          o.DeliveredAt,
		"payment_id":            o.PaymentResult.ID,
		"payment_status":        o.PaymentResult.Status,
		"payment_update_time":   o.PaymentResult.UpdateTime,
		"payment_email_address": o.PaymentResult.EmailAddress,
		"payment_receipt_url":   o.PaymentResult.ReceiptURL,
		"tracking_number":       o.TrackingNumber,
		"carrier":               o.Carrier,
		"admin_notes":           o.AdminNotes,
		"cancellation_reason":   o.CancellationReason,
		"refund_reason":         o.RefundReason,
		"refund_amount":         o.RefundAmount,
		"refunded_at":           o.RefundedAt,
		"version":               version,
	}
}

// Next bumps the day's counter and reads it back inside one transaction;
// the upsert holds the row lock until commit, so concurrent callers never
// observe the same value.
func (r *OrderRepo) Next(ctx context.Context, day string) (int64, error) {
	var seq orderSequence
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("value + 1")}),
		}).Create(&orderSequence{Day: day, Value: 1}).Error
		if err != nil {
			return err
		}
		return tx.Where("day = ?", day).First(&seq).Error
	})
	if err != nil {
		return 0, fmt.Errorf("next order sequence for %s: %w", day, err)
	}
	return seq.Value, nil
}
