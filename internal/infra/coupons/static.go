package coupons

import (
	"fmt"
	"os"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Static is a fixed coupon table keyed by upper-cased code.
type Static struct {
	rules map[string]domain.CouponRule
}

var _ infra.CouponPolicy = (*Static)(nil)

type fileRule struct {
	Code            string  `yaml:"code"`
	Value           float64 `yaml:"value"`
	Type            string  `yaml:"type"`
	MinimumPurchase float64 `yaml:"minimum_purchase"`
}

type file struct {
	Coupons []fileRule `yaml:"coupons"`
}

func Defaults() []domain.CouponRule {
	return []domain.CouponRule{
		{Code: "WELCOME10", Value: decimal.NewFromInt(10), Type: domain.DiscountPercentage, MinimumPurchase: decimal.NewFromInt(50)},
		{Code: "SUMMER20", Value: decimal.NewFromInt(20), Type: domain.DiscountPercentage, MinimumPurchase: decimal.NewFromInt(100)},
		{Code: "BLACKFRIDAY30", Value: decimal.NewFromInt(30), Type: domain.DiscountPercentage, MinimumPurchase: decimal.NewFromInt(200)},
		{Code: "FREESHIP", Value: decimal.NewFromInt(10), Type: domain.DiscountFixed, MinimumPurchase: decimal.NewFromInt(50)},
	}
}

func NewStatic(rules []domain.CouponRule) *Static {
	s := &Static{rules: make(map[string]domain.CouponRule, len(rules))}
	for _, r := range rules {
		r.Code = normalize(r.Code)
		s.rules[r.Code] = r
	}
	return s
}

// Load reads the coupon table from path, or returns the built-in table when
// path is empty.
func Load(path string) (*Static, error) {
	if path == "" {
		return NewStatic(Defaults()), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coupons file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Static, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse coupons: %w", err)
	}

	rules := make([]domain.CouponRule, 0, len(f.Coupons))
	for i, fr := range f.Coupons {
		rule := domain.CouponRule{
			Code:            normalize(fr.Code),
			Value:           decimal.NewFromFloat(fr.Value),
			Type:            domain.DiscountType(fr.Type),
			MinimumPurchase: decimal.NewFromFloat(fr.MinimumPurchase),
		}
		if err := validate(rule); err != nil {
			return nil, fmt.Errorf("coupon #%d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	return NewStatic(rules), nil
}

func validate(r domain.CouponRule) error {
	if r.Code == "" {
		return fmt.Errorf("missing code")
	}
	switch r.Type {
	case domain.DiscountPercentage:
		if r.Value.LessThanOrEqual(decimal.Zero) || r.Value.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%s: percentage must be in (0, 100]", r.Code)
		}
	case domain.DiscountFixed:
		if r.Value.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%s: fixed value must be positive", r.Code)
		}
	default:
		return fmt.Errorf("%s: unknown discount type %q", r.Code, r.Type)
	}
	if r.MinimumPurchase.IsNegative() {
		return fmt.Errorf("%s: negative minimum purchase", r.Code)
	}
	return nil
}

func (s *Static) Evaluate(code string) (domain.CouponRule, error) {
	rule, ok := s.rules[normalize(code)]
	if !ok {
		return domain.CouponRule{}, domain.InvalidCoupon(code)
	}
	return rule, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
