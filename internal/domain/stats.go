package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsWindows are the period starts the order report aggregates over.
type StatsWindows struct {
	Today time.Time
	Week  time.Time
	Month time.Time
	Year  time.Time
}

// WindowsAt computes the report windows in now's location. Weeks start on
// Sunday.
func WindowsAt(now time.Time) StatsWindows {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return StatsWindows{
		Today: today,
		Week:  today.AddDate(0, 0, -int(today.Weekday())),
		Month: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		Year:  time.Date(y, 1, 1, 0, 0, 0, 0, loc),
	}
}

type OrderCounts struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	Year  int64 `json:"year"`
}

type RevenueStats struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	DailyRevenue      decimal.Decimal `json:"dailyRevenue"`
	WeeklyRevenue     decimal.Decimal `json:"weeklyRevenue"`
	MonthlyRevenue    decimal.Decimal `json:"monthlyRevenue"`
	YearlyRevenue     decimal.Decimal `json:"yearlyRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type StatusBreakdown struct {
	Status  OrderStatus     `json:"status"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

type TopProduct struct {
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type OrderStats struct {
	Counts              OrderCounts       `json:"counts"`
	Revenue             RevenueStats      `json:"revenue"`
	OrdersByStatus      []StatusBreakdown `json:"ordersByStatus"`
	MonthlyRevenueChart []MonthlyRevenue  `json:"monthlyRevenueChart"`
	TopProducts         []TopProduct      `json:"topProducts"`
}
