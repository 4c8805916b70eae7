package domain

import "time"

type StockEventKind string

const (
	// EventOrderConfirmed takes an order's quantities off the shelf.
	EventOrderConfirmed StockEventKind = "order.confirmed"
	// EventOrderReleased puts them back after a cancellation or refund.
	EventOrderReleased StockEventKind = "order.released"
)

type StockLine struct {
	ProductID uint64 `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// StockEvent is raised by a status transition that moves inventory. It is
// applied by exactly one handler, atomically with the order update.
type StockEvent struct {
	Kind    StockEventKind `json:"kind"`
	OrderID uint64         `json:"orderId"`
	Lines   []StockLine    `json:"lines"`
}

// Delta returns the stock and sold adjustments for one line.
func (e *StockEvent) Delta(l StockLine) (stock, sold int) {
	if e.Kind == EventOrderConfirmed {
		return -l.Quantity, l.Quantity
	}
	return l.Quantity, -l.Quantity
}

// OrderNotification is the payload published for the mailer.
type OrderNotification struct {
	OrderID     uint64      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	UserID      string      `json:"userId"`
	Email       string      `json:"email,omitempty"`
	Status      OrderStatus `json:"status"`
	Total       string      `json:"totalPrice"`
	Currency    string      `json:"currency"`
	ItemCount   int         `json:"itemCount"`
	Tracking    string      `json:"trackingNumber,omitempty"`
	Carrier     string      `json:"carrier,omitempty"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

func NewOrderNotification(o *Order, now time.Time) OrderNotification {
	return OrderNotification{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Email:       o.ContactInfo.Email,
		Status:      o.Status,
		Total:       o.Total.StringFixed(2),
		Currency:    o.Currency,
		ItemCount:   o.ItemCount(),
		Tracking:    o.TrackingNumber,
		Carrier:     o.Carrier,
		OccurredAt:  now,
	}
}
