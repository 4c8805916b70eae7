package domain

import "github.com/shopspring/decimal"

var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingFee       = decimal.NewFromInt(10)
)

type Pricing struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	TotalAfterDiscount decimal.Decimal `json:"totalAfterDiscount"`
	Tax                decimal.Decimal `json:"tax"`
	Shipping           decimal.Decimal `json:"shipping"`
	GrandTotal         decimal.Decimal `json:"grandTotal"`
}

// Price derives every total from a subtotal and an optional coupon rule.
// A nil rule means no discount.
func Price(subtotal decimal.Decimal, rule *CouponRule) Pricing {
	discount := decimal.Zero
	if rule != nil {
		discount = rule.DiscountFor(subtotal)
	}
	afterDiscount := decimal.Max(decimal.Zero, subtotal.Sub(discount))

	shipping := FlatShippingFee
	if afterDiscount.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := afterDiscount.Mul(TaxRate).Round(2)

	return Pricing{
		Subtotal:           subtotal,
		Discount:           discount,
		TotalAfterDiscount: afterDiscount,
		Tax:                tax,
		Shipping:           shipping,
		GrandTotal:         afterDiscount.Add(tax).Add(shipping),
	}
}

// MinorUnits converts an amount to the smallest currency unit, rounding
// half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
