package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Slug      string    `json:"slug" gorm:"size:140;uniqueIndex"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Product is the catalog record and the source of truth for price and stock.
// DiscountPrice, when valid, never exceeds Price.
type Product struct {
	ID            uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string              `json:"name" gorm:"size:200;not null"`
	Slug          string              `json:"slug" gorm:"size:220;uniqueIndex"`
	SKU           string              `json:"sku" gorm:"size:64;index"`
	Brand         string              `json:"brand" gorm:"size:80;index"`
	CategoryID    uint64              `json:"categoryId" gorm:"index"`
	Image         string              `json:"image" gorm:"size:500"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" gorm:"type:decimal(12,2)"`
	Stock         int                 `json:"stock" gorm:"not null;default:0"`
	Sold          int                 `json:"sold" gorm:"not null;default:0"`
	IsActive      bool                `json:"isActive" gorm:"not null;default:true;index"`
	CreatedAt     time.Time           `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time           `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.DiscountPrice)
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Brand:         p.Brand,
		Image:         p.Image,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.Stock,
	}
}

// EffectivePrice is the discount price when present, else the list price.
func EffectivePrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if discount.Valid {
		return discount.Decimal
	}
	return price
}

// ProductSummary is the slice of a product shown next to a cart line.
type ProductSummary struct {
	ID            uint64              `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Brand         string              `json:"brand"`
	Image         string              `json:"image"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Stock         int                 `json:"stock"`
}

type ProductFilter struct {
	CategoryID uint64
	Brand      string
	Limit      int
	Offset     int
}
