package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultProductCacheTTL = time.Minute
	warmupProductCacheTTL  = 5 * time.Minute
	maxProductPageSize     = 100
)

// CatalogService serves the read side of the catalog. Cached products are
// for display only; cart and checkout always read the store.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      infra.Cache
	cacheTTL   time.Duration
	log        *zap.Logger
}

func NewCatalogService(p repository.ProductRepository, c repository.CategoryRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   p,
		categories: c,
		cacheTTL:   defaultProductCacheTTL,
		log:        log,
	}
}

func (s *CatalogService) SetCache(cache infra.Cache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 || filter.Limit > maxProductPageSize {
		filter.Limit = maxProductPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.products.List(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.getProductWithCache(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.NotFound("product")
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *CatalogService) getProductWithCache(ctx context.Context, id uint64) (*domain.Product, error) {
	key := productCacheKey(id)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("product cache read failed", zap.Uint64("product_id", id), zap.Error(err))
		} else if cached != "" {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && p != nil {
		s.store(ctx, p, s.cacheTTL)
	}
	return p, nil
}

func (s *CatalogService) store(ctx context.Context, p *domain.Product, ttl time.Duration) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productCacheKey(p.ID), data, ttl); err != nil {
		s.log.Warn("product cache write failed", zap.Uint64("product_id", p.ID), zap.Error(err))
	}
}

// WarmupProductCache preloads the given products. Individual failures are
// logged and skipped.
func (s *CatalogService) WarmupProductCache(ctx context.Context, ids []uint64) error {
	if s.cache == nil || len(ids) == 0 {
		return nil
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("warm up product cache: %w", err)
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			s.log.Warn("warmup product not found", zap.Uint64("product_id", id))
			continue
		}
		s.store(ctx, p, warmupProductCacheTTL)
	}
	s.log.Info("product cache warmed", zap.Int("products", len(found)))
	return nil
}

// InvalidateProducts drops cached entries after their stock moved.
func (s *CatalogService) InvalidateProducts(ctx context.Context, ids []uint64) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productCacheKey(id)
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.Warn("product cache invalidation failed", zap.Error(err))
	}
}
