package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a domain failure. Kinds are comparable sentinels, so
// errors.Is(err, domain.ErrInsufficientStock) works on any wrapped *Error.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrNotFound                Kind = "not_found"
	ErrInactive                Kind = "inactive"
	ErrProductUnavailable      Kind = "product_unavailable"
	ErrInsufficientStock       Kind = "insufficient_stock"
	ErrInvalidQuantity         Kind = "invalid_quantity"
	ErrEmptyCart               Kind = "empty_cart"
	ErrInvalidCoupon           Kind = "invalid_coupon"
	ErrMinimumPurchaseNotMet   Kind = "minimum_purchase_not_met"
	ErrNoCouponApplied         Kind = "no_coupon_applied"
	ErrInvalidStatusTransition Kind = "invalid_status_transition"
	ErrNotAuthorized           Kind = "not_authorized"
	ErrPaymentInitiationFailed Kind = "payment_initiation_failed"
	ErrAlreadyPaid             Kind = "already_paid"
	ErrNotPaid                 Kind = "not_paid"
	ErrConflict                Kind = "conflict"
	ErrInvalidRequest          Kind = "invalid_request"
)

// Error is a structured domain failure carrying its kind, a human-readable
// message and the context fields a caller needs to act on it.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind Kind, details map[string]any, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Details: details}
}

func NotFound(resource string) *Error {
	return newError(ErrNotFound, map[string]any{"resource": resource}, "%s not found", resource)
}

func ProductInactive(productID uint64) *Error {
	return newError(ErrInactive, map[string]any{"productId": productID}, "product %d is not available", productID)
}

func ProductUnavailable(productID uint64, name string) *Error {
	return newError(ErrProductUnavailable, map[string]any{"productId": productID, "product": name},
		"product %q is no longer available", name)
}

func InsufficientStock(productID uint64, name string, required, available int) *Error {
	return newError(ErrInsufficientStock,
		map[string]any{"productId": productID, "product": name, "required": required, "available": available},
		"product %q has only %d items available", name, available)
}

func InvalidQuantity(quantity int) *Error {
	return newError(ErrInvalidQuantity, map[string]any{"quantity": quantity}, "quantity must be at least 1")
}

func EmptyCart() *Error {
	return newError(ErrEmptyCart, nil, "no items in cart")
}

func InvalidCoupon(code string) *Error {
	return newError(ErrInvalidCoupon, map[string]any{"code": code}, "invalid coupon code %q", code)
}

func MinimumPurchaseNotMet(code string, minimum, subtotal decimal.Decimal) *Error {
	return newError(ErrMinimumPurchaseNotMet,
		map[string]any{"code": code, "minimumPurchase": minimum.StringFixed(2), "subtotal": subtotal.StringFixed(2)},
		"minimum purchase of %s required for coupon %s", minimum.StringFixed(2), code)
}

func NoCouponApplied() *Error {
	return newError(ErrNoCouponApplied, nil, "no coupon applied")
}

func InvalidStatusTransition(from, to OrderStatus) *Error {
	return newError(ErrInvalidStatusTransition, map[string]any{"current": from, "requested": to},
		"cannot change status from %s to %s", from, to)
}

func NotAuthorized(action string) *Error {
	return newError(ErrNotAuthorized, map[string]any{"action": action}, "not authorized to %s", action)
}

func PaymentInitiationFailed(cause error) *Error {
	return newError(ErrPaymentInitiationFailed, nil, "payment initiation failed: %v", cause)
}

func AlreadyPaid(orderNumber string) *Error {
	return newError(ErrAlreadyPaid, map[string]any{"orderNumber": orderNumber}, "order %s is already paid", orderNumber)
}

func NotPaid(orderNumber string) *Error {
	return newError(ErrNotPaid, map[string]any{"orderNumber": orderNumber}, "order %s is not paid", orderNumber)
}

func Conflict(resource string) *Error {
	return newError(ErrConflict, map[string]any{"resource": resource},
		"%s was modified concurrently, retry the request", resource)
}

func InvalidRequest(format string, args ...any) *Error {
	return newError(ErrInvalidRequest, nil, format, args...)
}
