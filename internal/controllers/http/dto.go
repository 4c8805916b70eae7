package http

import (
	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/shopspring/decimal"
)

type ListProductsQuery struct {
	CategoryID uint64 `form:"category"`
	Brand      string `form:"brand"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

func (q ListProductsQuery) toFilter() domain.ProductFilter {
	return domain.ProductFilter{CategoryID: q.CategoryID, Brand: q.Brand, Limit: q.Limit, Offset: q.Offset}
}

type VariantDTO struct {
	Color   string `json:"color" binding:"max=40"`
	Storage string `json:"storage" binding:"max=40"`
}

func (v VariantDTO) toDomain() domain.Variant {
	return domain.Variant{Color: v.Color, Storage: v.Storage}
}

type AddToCartRequest struct {
	ProductID uint64      `json:"productId" binding:"required"`
	Quantity  *int        `json:"quantity"`
	Variant   *VariantDTO `json:"variant"`
}

func (r AddToCartRequest) toInput() services.AddItemInput {
	in := services.AddItemInput{ProductID: r.ProductID, Quantity: 1}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.Variant != nil {
		in.Variant = r.Variant.toDomain()
	}
	return in
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,max=40"`
}

type GuestItemDTO struct {
	ProductID uint64      `json:"productId" binding:"required"`
	Quantity  int         `json:"quantity"`
	Variant   *VariantDTO `json:"variant"`
}

type MergeCartRequest struct {
	Items []GuestItemDTO `json:"items" binding:"dive"`
}

func (r MergeCartRequest) toGuestItems() []services.GuestItem {
	out := make([]services.GuestItem, 0, len(r.Items))
	for _, it := range r.Items {
		g := services.GuestItem{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.Variant != nil {
			g.Variant = it.Variant.toDomain()
		}
		out = append(out, g)
	}
	return out
}

type AddressDTO struct {
	Type    string `json:"type" binding:"max=20"`
	Street  string `json:"street" binding:"required,max=200"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"max=100"`
	Country string `json:"country" binding:"required,max=100"`
	ZipCode string `json:"zipCode" binding:"required,max=20"`
	Phone   string `json:"phone" binding:"max=40"`
}

func (a AddressDTO) toDomain() domain.Address {
	return domain.Address{
		Type:    a.Type,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Country: a.Country,
		ZipCode: a.ZipCode,
		Phone:   a.Phone,
	}
}

type BillingAddressDTO struct {
	SameAsShipping bool   `json:"sameAsShipping"`
	Type           string `json:"type"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	ZipCode        string `json:"zipCode"`
	Phone          string `json:"phone"`
}

type ContactInfoDTO struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"max=40"`
}

// CreateOrderRequest has no price fields: totals are always computed
// server side from the cart.
type CreateOrderRequest struct {
	ShippingAddress AddressDTO         `json:"shippingAddress" binding:"required"`
	BillingAddress  *BillingAddressDTO `json:"billingAddress"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required"`
	ContactInfo     ContactInfoDTO     `json:"contactInfo"`
	Notes           string             `json:"notes" binding:"max=1000"`
}

func (r CreateOrderRequest) toDomain() domain.CheckoutRequest {
	req := domain.CheckoutRequest{
		ShippingAddress: r.ShippingAddress.toDomain(),
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
		ContactInfo:     domain.ContactInfo{Email: r.ContactInfo.Email, Phone: r.ContactInfo.Phone},
		Notes:           r.Notes,
	}
	if b := r.BillingAddress; b != nil {
		req.BillingAddress = &domain.BillingAddress{
			SameAsShipping: b.SameAsShipping,
			Address: domain.Address{
				Type:    b.Type,
				Street:  b.Street,
				City:    b.City,
				State:   b.State,
				Country: b.Country,
				ZipCode: b.ZipCode,
				Phone:   b.Phone,
			},
		}
	}
	return req
}

type PayOrderRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	ReceiptURL string `json:"receipt_url"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

func (r PayOrderRequest) toDomain() domain.PaymentResult {
	return domain.PaymentResult{
		ID:           r.ID,
		Status:       r.Status,
		UpdateTime:   r.UpdateTime,
		EmailAddress: r.Payer.EmailAddress,
		ReceiptURL:   r.ReceiptURL,
	}
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber" binding:"max=80"`
	Carrier        string `json:"carrier" binding:"max=80"`
	AdminNotes     string `json:"adminNotes" binding:"max=1000"`
	Reason         string `json:"reason" binding:"max=500"`
}

func (r UpdateStatusRequest) toDomain() domain.StatusUpdate {
	return domain.StatusUpdate{
		Status:         domain.OrderStatus(r.Status),
		TrackingNumber: r.TrackingNumber,
		Carrier:        r.Carrier,
		AdminNotes:     r.AdminNotes,
		Reason:         r.Reason,
	}
}

type PaymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" binding:"omitempty,len=3"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}
