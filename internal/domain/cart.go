package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is the customer-selected configuration of a line.
type Variant struct {
	Color   string `json:"color,omitempty" gorm:"size:40"`
	Storage string `json:"storage,omitempty" gorm:"size:40"`
}

type CartItem struct {
	ID            string              `json:"id" gorm:"primaryKey;size:36"`
	CartID        uint64              `json:"-" gorm:"index;not null"`
	ProductID     uint64              `json:"productId" gorm:"index;not null"`
	Quantity      int                 `json:"quantity" gorm:"not null"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" gorm:"type:decimal(12,2)"`
	Variant       `gorm:"embedded"`
	AddedAt       time.Time `json:"addedAt"`
}

func (i *CartItem) EffectivePrice() decimal.Decimal {
	return EffectivePrice(i.Price, i.DiscountPrice)
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the single active cart of a user. Totals are derived, never stored.
type Cart struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string     `json:"userId" gorm:"size:64;uniqueIndex;not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Coupon    CartCoupon `json:"coupon" gorm:"embedded;embeddedPrefix:coupon_"`
	Notes     string     `json:"notes,omitempty" gorm:"size:500"`
	Version   int        `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.Items {
		sum = sum.Add(c.Items[i].LineTotal())
	}
	return sum
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Totals prices the cart at now. A coupon that is expired or under its
// minimum contributes nothing.
func (c *Cart) Totals(now time.Time) Pricing {
	subtotal := c.Subtotal()
	if c.Coupon.Qualifies(subtotal, now) {
		rule := c.Coupon.Rule()
		return Price(subtotal, &rule)
	}
	return Price(subtotal, nil)
}

func (c *Cart) lineIndex(productID uint64, v Variant) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.Variant == v {
			return i
		}
	}
	return -1
}

func (c *Cart) itemIndex(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) Item(itemID string) (*CartItem, bool) {
	if i := c.itemIndex(itemID); i >= 0 {
		return &c.Items[i], true
	}
	return nil, false
}

// Add puts quantity of p into the cart, merging with an existing line of the
// same product and variant. The combined quantity must fit the live stock.
func (c *Cart) Add(p *Product, quantity int, v Variant, now time.Time) error {
	if quantity < 1 {
		return InvalidQuantity(quantity)
	}
	if !p.IsActive {
		return ProductInactive(p.ID)
	}

	idx := c.lineIndex(p.ID, v)
	requested := quantity
	if idx >= 0 {
		requested += c.Items[idx].Quantity
	}
	if p.Stock < requested {
		return InsufficientStock(p.ID, p.Name, requested, p.Stock)
	}

	if idx >= 0 {
		c.Items[idx].Quantity = requested
		c.Items[idx].AddedAt = now
		return nil
	}
	c.appendLine(p, quantity, v, now)
	return nil
}

// Merge folds a guest line into the cart. Unavailable products are skipped
// and quantities are capped at the live stock. It reports whether the cart
// changed.
func (c *Cart) Merge(p *Product, quantity int, v Variant, now time.Time) bool {
	if p == nil || !p.IsActive || p.Stock < 1 || quantity < 1 {
		return false
	}
	if idx := c.lineIndex(p.ID, v); idx >= 0 {
		c.Items[idx].Quantity = min(c.Items[idx].Quantity+quantity, p.Stock)
		return true
	}
	c.appendLine(p, min(quantity, p.Stock), v, now)
	return true
}

func (c *Cart) appendLine(p *Product, quantity int, v Variant, now time.Time) {
	c.Items = append(c.Items, CartItem{
		ID:            uuid.NewString(),
		CartID:        c.ID,
		ProductID:     p.ID,
		Quantity:      quantity,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Variant:       v,
		AddedAt:       now,
	})
}

// SetQuantity changes a line's quantity against the live product. A missing
// or inactive product evicts the line; evicted is true in that case and the
// caller must persist the cart even though an error is returned.
func (c *Cart) SetQuantity(itemID string, quantity int, p *Product, now time.Time) (evicted bool, err error) {
	if quantity < 1 {
		return false, InvalidQuantity(quantity)
	}
	idx := c.itemIndex(itemID)
	if idx < 0 {
		return false, NotFound("cart item")
	}
	if p == nil || !p.IsActive {
		productID := c.Items[idx].ProductID
		c.removeAt(idx)
		name := ""
		if p != nil {
			name = p.Name
		}
		return true, ProductUnavailable(productID, name)
	}
	if quantity > p.Stock {
		return false, InsufficientStock(p.ID, p.Name, quantity, p.Stock)
	}
	c.Items[idx].Quantity = quantity
	c.Items[idx].AddedAt = now
	return false, nil
}

func (c *Cart) Remove(itemID string) error {
	idx := c.itemIndex(itemID)
	if idx < 0 {
		return NotFound("cart item")
	}
	c.removeAt(idx)
	return nil
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// Prune drops lines whose product is gone or inactive and reports how many
// were removed.
func (c *Cart) Prune(products map[uint64]*Product) int {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if p, ok := products[it.ProductID]; ok && p.IsActive {
			kept = append(kept, it)
		}
	}
	removed := len(c.Items) - len(kept)
	c.Items = kept
	return removed
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Coupon = CartCoupon{}
}

func (c *Cart) ProductIDs() []uint64 {
	ids := make([]uint64, 0, len(c.Items))
	seen := make(map[uint64]struct{}, len(c.Items))
	for _, it := range c.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// CartLine is a cart item with its product populated for display.
type CartLine struct {
	CartItem
	Product ProductSummary `json:"product"`
}

type CartView struct {
	ID         uint64     `json:"id"`
	UserID     string     `json:"userId"`
	Items      []CartLine `json:"items"`
	Coupon     CartCoupon `json:"coupon"`
	TotalItems int        `json:"totalItems"`
	Pricing
}

func (c *Cart) View(products map[uint64]*Product, now time.Time) CartView {
	lines := make([]CartLine, 0, len(c.Items))
	for _, it := range c.Items {
		line := CartLine{CartItem: it}
		if p, ok := products[it.ProductID]; ok {
			line.Product = p.Summary()
		}
		lines = append(lines, line)
	}
	return CartView{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      lines,
		Coupon:     c.Coupon,
		TotalItems: c.TotalItems(),
		Pricing:    c.Totals(now),
	}
}
