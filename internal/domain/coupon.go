package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CouponTTL is how long an applied coupon stays attached to a cart.
const CouponTTL = 30 * 24 * time.Hour

// CouponRule is the descriptor a coupon policy returns for a code.
type CouponRule struct {
	Code            string          `json:"code"`
	Value           decimal.Decimal `json:"value"`
	Type            DiscountType    `json:"type"`
	MinimumPurchase decimal.Decimal `json:"minimumPurchase"`
}

// DiscountFor returns the discount the rule grants on subtotal, rounded to
// cents. Fixed discounts are not capped here; totals clamp at zero.
func (r CouponRule) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch r.Type {
	case DiscountPercentage:
		return subtotal.Mul(r.Value).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		return r.Value.Round(2)
	default:
		return decimal.Zero
	}
}

// CartCoupon is the coupon attached to a cart. An empty Code means none.
type CartCoupon struct {
	Code            string          `json:"code,omitempty" gorm:"size:40"`
	Value           decimal.Decimal `json:"value" gorm:"type:decimal(12,2)"`
	Type            DiscountType    `json:"type,omitempty" gorm:"size:20"`
	MinimumPurchase decimal.Decimal `json:"minimumPurchase" gorm:"type:decimal(12,2)"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty"`
}

func (c CartCoupon) Attached() bool { return c.Code != "" }

func (c CartCoupon) Rule() CouponRule {
	return CouponRule{Code: c.Code, Value: c.Value, Type: c.Type, MinimumPurchase: c.MinimumPurchase}
}

// Qualifies reports whether the coupon may discount subtotal at now. An
// expired or under-threshold coupon is inert, whatever storage says.
func (c CartCoupon) Qualifies(subtotal decimal.Decimal, now time.Time) bool {
	if !c.Attached() {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	return subtotal.GreaterThanOrEqual(c.MinimumPurchase)
}

func AttachCoupon(rule CouponRule, now time.Time) CartCoupon {
	expires := now.Add(CouponTTL)
	return CartCoupon{
		Code:            rule.Code,
		Value:           rule.Value,
		Type:            rule.Type,
		MinimumPurchase: rule.MinimumPurchase,
		ExpiresAt:       &expires,
	}
}

// CouponSnapshot is the coupon as it was priced into an order.
type CouponSnapshot struct {
	Code  string          `json:"code,omitempty" gorm:"size:40"`
	Value decimal.Decimal `json:"value" gorm:"type:decimal(12,2)"`
	Type  DiscountType    `json:"type,omitempty" gorm:"size:20"`
}
