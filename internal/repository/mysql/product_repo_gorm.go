package mysql

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*domain.Product, error) {
	out := make(map[uint64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (r *productRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var out []domain.Product
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id uint64, delta, soldDelta int) error {
	return adjustStock(r.db.WithContext(ctx), id, delta, soldDelta)
}

// adjustStock is a single conditional UPDATE: a decrement only matches the
// row while stock covers it, so concurrent decrements cannot oversell.
// Returning units to a product that no longer exists is a no-op; a cancel or
// refund must not fail because the catalog moved on.
func adjustStock(db *gorm.DB, id uint64, delta, soldDelta int) error {
	q := db.Model(&domain.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.UpdateColumns(map[string]any{
		"stock": gorm.Expr("stock + ?", delta),
		"sold":  gorm.Expr("GREATEST(sold + ?, 0)", soldDelta),
	})
	if res.Error != nil {
		return fmt.Errorf("adjust stock of product %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if delta >= 0 {
		db.Logger.Warn(db.Statement.Context, "stock release skipped, product %d not found", id)
		return nil
	}

	var p domain.Product
	if err := db.Select("id", "name", "stock").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("product")
		}
		return fmt.Errorf("load product %d: %w", id, err)
	}
	return domain.InsufficientStock(p.ID, p.Name, -delta, p.Stock)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}
