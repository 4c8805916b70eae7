package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogService_GetProduct(t *testing.T) {
	phone := CreateMockProduct(1, "Phone X", "60.00", 3)
	cachedJSON, err := json.Marshal(phone)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setupMocks func(*mocks.MockProductRepository, *mocks.MockCache)
		withCache  bool
		wantErr    error
	}{
		{
			name:      "cache hit skips the store",
			withCache: true,
			setupMocks: func(repo *mocks.MockProductRepository, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything, "product:1").Return(string(cachedJSON), nil)
			},
		},
		{
			name:      "cache miss reads through and fills",
			withCache: true,
			setupMocks: func(repo *mocks.MockProductRepository, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything, "product:1").Return("", nil)
				repo.On("FindByID", mock.Anything, uint64(1)).Return(phone, nil)
				cache.On("Set", mock.Anything, "product:1", mock.Anything, time.Minute).Return(nil)
			},
		},
		{
			name:      "broken cache falls back to the store",
			withCache: true,
			setupMocks: func(repo *mocks.MockProductRepository, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything, "product:1").Return("", errors.New("connection refused"))
				repo.On("FindByID", mock.Anything, uint64(1)).Return(phone, nil)
				cache.On("Set", mock.Anything, "product:1", mock.Anything, time.Minute).Return(errors.New("connection refused"))
			},
		},
		{
			name: "no cache configured",
			setupMocks: func(repo *mocks.MockProductRepository, _ *mocks.MockCache) {
				repo.On("FindByID", mock.Anything, uint64(1)).Return(phone, nil)
			},
		},
		{
			name: "missing product",
			setupMocks: func(repo *mocks.MockProductRepository, _ *mocks.MockCache) {
				repo.On("FindByID", mock.Anything, uint64(1)).Return(nil, nil)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockProductRepository{}
			cache := &mocks.MockCache{}
			tt.setupMocks(repo, cache)

			svc := NewCatalogService(repo, &mocks.MockCategoryRepository{}, zap.NewNop())
			if tt.withCache {
				svc.SetCache(cache, 0)
			}

			got, err := svc.GetProduct(context.Background(), 1)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Phone X", got.Name)
			assert.Equal(t, "60.00", got.Price.StringFixed(2))
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_InactiveProductIsHidden(t *testing.T) {
	p := CreateMockProduct(1, "Phone X", "60.00", 3)
	p.IsActive = false
	repo := &mocks.MockProductRepository{}
	repo.On("FindByID", mock.Anything, uint64(1)).Return(p, nil)
	svc := NewCatalogService(repo, &mocks.MockCategoryRepository{}, zap.NewNop())

	_, err := svc.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_ListProductsClampsPage(t *testing.T) {
	repo := &mocks.MockProductRepository{}
	repo.On("List", mock.Anything, domain.ProductFilter{Brand: "Acme", Limit: maxProductPageSize}).Return([]domain.Product{}, nil)
	svc := NewCatalogService(repo, &mocks.MockCategoryRepository{}, zap.NewNop())

	_, err := svc.ListProducts(context.Background(), domain.ProductFilter{Brand: "Acme", Limit: 5000, Offset: -3})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCatalogService_WarmupProductCache(t *testing.T) {
	repo := &mocks.MockProductRepository{}
	cache := &mocks.MockCache{}
	repo.On("FindByIDs", mock.Anything, []uint64{1, 2}).Return(map[uint64]*domain.Product{
		1: CreateMockProduct(1, "Phone X", "60.00", 3),
	}, nil)
	cache.On("Set", mock.Anything, "product:1", mock.Anything, warmupProductCacheTTL).Return(nil).Once()

	svc := NewCatalogService(repo, &mocks.MockCategoryRepository{}, zap.NewNop())
	svc.SetCache(cache, time.Minute)

	require.NoError(t, svc.WarmupProductCache(context.Background(), []uint64{1, 2}))
	cache.AssertExpectations(t)
}

func TestCatalogService_InvalidateProducts(t *testing.T) {
	cache := &mocks.MockCache{}
	cache.On("Del", mock.Anything, []string{"product:1", "product:4"}).Return(nil)

	svc := NewCatalogService(&mocks.MockProductRepository{}, &mocks.MockCategoryRepository{}, zap.NewNop())
	svc.SetCache(cache, 0)
	svc.InvalidateProducts(context.Background(), []uint64{1, 4})

	cache.AssertExpectations(t)
}
