package mysql

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *OrderRepo) ordersSince(ctx context.Context, since time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	return q
}

func (r *OrderRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.ordersSince(ctx, since).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.ordersSince(ctx, since).Select("COALESCE(SUM(total), 0)").Row().Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return sum, nil
}

func (r *OrderRepo) AverageOrderValue(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	if err := r.ordersSince(ctx, time.Time{}).Select("COALESCE(AVG(total), 0)").Row().Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("average order value: %w", err)
	}
	return avg.Round(2), nil
}

func (r *OrderRepo) StatusBreakdown(ctx context.Context) ([]domain.StatusBreakdown, error) {
	var out []domain.StatusBreakdown
	err := r.ordersSince(ctx, time.Time{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Group("status").
		Order("count DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	return out, nil
}

func (r *OrderRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error) {
	var out []domain.MonthlyRevenue
	err := r.ordersSince(ctx, since).
		Select("MONTH(created_at) AS month, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS orders").
		Group("MONTH(created_at)").
		Order("month").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return out, nil
}

func (r *OrderRepo) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	var out []domain.TopProduct
	err := r.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("product_id, MAX(name) AS product_name, SUM(quantity) AS quantity, " +
			"SUM(COALESCE(discount_price, price) * quantity) AS revenue").
		Group("product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return out, nil
}
