package services

import (
	"context"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const topProductsLimit = 10

type StatsService struct {
	repo repository.OrderStatsRepository
	now  func() time.Time
}

func NewStatsService(r repository.OrderStatsRepository) *StatsService {
	return &StatsService{repo: r, now: time.Now}
}

// GetOrderStats builds the admin dashboard report. The queries are
// independent and run concurrently; the first failure cancels the rest.
func (s *StatsService) GetOrderStats(ctx context.Context) (*domain.OrderStats, error) {
	w := domain.WindowsAt(s.now())
	var stats domain.OrderStats

	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, since time.Time) {
		g.Go(func() error {
			n, err := s.repo.CountSince(ctx, since)
			*dst = n
			return err
		})
	}
	count(&stats.Counts.Total, time.Time{})
	count(&stats.Counts.Today, w.Today)
	count(&stats.Counts.Week, w.Week)
	count(&stats.Counts.Month, w.Month)
	count(&stats.Counts.Year, w.Year)

	revenue := func(dst *decimal.Decimal, since time.Time) {
		g.Go(func() error {
			v, err := s.repo.RevenueSince(ctx, since)
			*dst = v
			return err
		})
	}
	revenue(&stats.Revenue.TotalRevenue, time.Time{})
	revenue(&stats.Revenue.DailyRevenue, w.Today)
	revenue(&stats.Revenue.WeeklyRevenue, w.Week)
	revenue(&stats.Revenue.MonthlyRevenue, w.Month)
	revenue(&stats.Revenue.YearlyRevenue, w.Year)

	g.Go(func() error {
		v, err := s.repo.AverageOrderValue(ctx)
		stats.Revenue.AverageOrderValue = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.StatusBreakdown(ctx)
		stats.OrdersByStatus = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.MonthlyRevenue(ctx, w.Year)
		stats.MonthlyRevenueChart = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.TopProducts(ctx, topProductsLimit)
		stats.TopProducts = v
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
