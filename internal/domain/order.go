package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentCard         PaymentMethod = "card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentStripe       PaymentMethod = "stripe"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentPayPal, PaymentStripe, PaymentBankTransfer:
		return true
	}
	return false
}

// RequiresIntent reports whether checkout must open a gateway payment intent.
func (m PaymentMethod) RequiresIntent() bool {
	return m == PaymentCard || m == PaymentStripe
}

type Address struct {
	Type    string `json:"type,omitempty" gorm:"size:20"`
	Street  string `json:"street" gorm:"size:200"`
	City    string `json:"city" gorm:"size:100"`
	State   string `json:"state" gorm:"size:100"`
	Country string `json:"country" gorm:"size:100"`
	ZipCode string `json:"zipCode" gorm:"size:20"`
	Phone   string `json:"phone,omitempty" gorm:"size:40"`
}

type BillingAddress struct {
	SameAsShipping bool `json:"sameAsShipping"`
	Address        `gorm:"embedded"`
}

type ContactInfo struct {
	Email string `json:"email,omitempty" gorm:"size:200"`
	Phone string `json:"phone,omitempty" gorm:"size:40"`
}

type PaymentResult struct {
	ID           string `json:"id,omitempty" gorm:"size:120"`
	Status       string `json:"status,omitempty" gorm:"size:40"`
	UpdateTime   string `json:"updateTime,omitempty" gorm:"size:60"`
	EmailAddress string `json:"emailAddress,omitempty" gorm:"size:200"`
	ReceiptURL   string `json:"receiptUrl,omitempty" gorm:"size:500"`
	ClientSecret string `json:"clientSecret,omitempty" gorm:"-"`
}

// OrderItem is captured at checkout and never follows later product edits.
type OrderItem struct {
	ID            uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64              `json:"-" gorm:"index;not null"`
	ProductID     uint64              `json:"productId" gorm:"index;not null"`
	Name          string              `json:"name" gorm:"size:200;not null"`
	SKU           string              `json:"sku" gorm:"size:64"`
	Image         string              `json:"image,omitempty" gorm:"size:500"`
	Quantity      int                 `json:"quantity" gorm:"not null"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" gorm:"type:decimal(12,2)"`
	Variant       `gorm:"embedded"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return EffectivePrice(i.Price, i.DiscountPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID                 uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber        string          `json:"orderNumber" gorm:"size:20;uniqueIndex;not null"`
	UserID             string          `json:"userId" gorm:"size:64;index;not null"`
	Items              []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress    Address         `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress     BillingAddress  `json:"billingAddress" gorm:"embedded;embeddedPrefix:billing_"`
	ContactInfo        ContactInfo     `json:"contactInfo" gorm:"embedded;embeddedPrefix:contact_"`
	PaymentMethod      PaymentMethod   `json:"paymentMethod" gorm:"size:20;not null"`
	PaymentResult      PaymentResult   `json:"paymentResult" gorm:"embedded;embeddedPrefix:payment_"`
	Subtotal           decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Discount           decimal.Decimal `json:"discount" gorm:"type:decimal(12,2);not null"`
	Coupon             CouponSnapshot  `json:"coupon" gorm:"embedded;embeddedPrefix:coupon_"`
	Tax                decimal.Decimal `json:"taxPrice" gorm:"type:decimal(12,2);not null"`
	Shipping           decimal.Decimal `json:"shippingPrice" gorm:"type:decimal(12,2);not null"`
	Total              decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
	Currency           string          `json:"currency" gorm:"size:3;not null"`
	IsPaid             bool            `json:"isPaid" gorm:"not null;default:false"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	IsDelivered        bool            `json:"isDelivered" gorm:"not null;default:false"`
	DeliveredAt        *time.Time      `json:"deliveredAt,omitempty"`
	Status             OrderStatus     `json:"status" gorm:"size:20;not null;index;default:'pending'"`
	StockReserved      bool            `json:"-" gorm:"not null;default:false"`
	TrackingNumber     string          `json:"trackingNumber,omitempty" gorm:"size:80"`
	Carrier            string          `json:"carrier,omitempty" gorm:"size:80"`
	Notes              string          `json:"notes,omitempty" gorm:"size:1000"`
	AdminNotes         string          `json:"adminNotes,omitempty" gorm:"size:1000"`
	CancellationReason string          `json:"cancellationReason,omitempty" gorm:"size:500"`
	RefundReason       string          `json:"refundReason,omitempty" gorm:"size:500"`
	RefundAmount       decimal.Decimal `json:"refundAmount" gorm:"type:decimal(12,2);not null;default:0"`
	RefundedAt         *time.Time      `json:"refundedAt,omitempty"`
	Version            int             `json:"-" gorm:"not null;default:0"`
	CreatedAt          time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// StockLines lists the quantities this order holds against the catalog.
func (o *Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, StockLine{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity})
	}
	return lines
}

// CheckoutRequest carries the only order fields a client may supply.
type CheckoutRequest struct {
	ShippingAddress Address
	BillingAddress  *BillingAddress
	PaymentMethod   PaymentMethod
	ContactInfo     ContactInfo
	Notes           string
}

// StatusUpdate is an administrator's status change with its bookkeeping.
type StatusUpdate struct {
	Status         OrderStatus
	TrackingNumber string
	Carrier        string
	AdminNotes     string
	Reason         string
}
