package domain

import "time"

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// forward ranks the fulfilment path; terminal states are absent.
var forward = map[OrderStatus]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

var (
	selfServiceCancellable = map[OrderStatus]bool{StatusPending: true, StatusConfirmed: true}
	adminCancellable       = map[OrderStatus]bool{StatusPending: true, StatusConfirmed: true, StatusProcessing: true}
)

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the order along the transition table and applies the
// field side effects of the target state. The returned event, if any, is
// the stock movement the transition owes; it is produced at most once per
// reservation because StockReserved flips with it.
func (o *Order) TransitionTo(to OrderStatus, now time.Time) (*StockEvent, error) {
	if !CanTransition(o.Status, to) {
		return nil, InvalidStatusTransition(o.Status, to)
	}
	o.Status = to

	switch to {
	case StatusDelivered:
		o.IsDelivered = true
		o.DeliveredAt = &now
	case StatusRefunded:
		o.RefundedAt = &now
		o.RefundAmount = o.Total
	}
	return o.stockEvent(), nil
}

func (o *Order) stockEvent() *StockEvent {
	switch o.Status {
	case StatusConfirmed, StatusProcessing:
		if !o.StockReserved {
			o.StockReserved = true
			return &StockEvent{Kind: EventOrderConfirmed, OrderID: o.ID, Lines: o.StockLines()}
		}
	case StatusCancelled, StatusRefunded:
		if o.StockReserved {
			o.StockReserved = false
			return &StockEvent{Kind: EventOrderReleased, OrderID: o.ID, Lines: o.StockLines()}
		}
	}
	return nil
}

// Cancel cancels the order. Customers may cancel while pending or
// confirmed; administrators also while processing.
func (o *Order) Cancel(reason string, byAdmin bool, now time.Time) (*StockEvent, error) {
	allowed := selfServiceCancellable
	if byAdmin {
		allowed = adminCancellable
	}
	if !allowed[o.Status] {
		return nil, InvalidStatusTransition(o.Status, StatusCancelled)
	}
	ev, err := o.TransitionTo(StatusCancelled, now)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		o.CancellationReason = reason
	}
	return ev, nil
}

// MarkPaid records a payment and advances the status in the same step:
// cash on delivery lands in confirmed, every other method in processing.
// An order already past that point keeps its status.
func (o *Order) MarkPaid(result PaymentResult, now time.Time) (*StockEvent, error) {
	if o.IsPaid {
		return nil, AlreadyPaid(o.OrderNumber)
	}
	target := StatusProcessing
	if o.PaymentMethod == PaymentCOD {
		target = StatusConfirmed
	}
	if o.Status.Terminal() {
		return nil, InvalidStatusTransition(o.Status, target)
	}

	var ev *StockEvent
	for forward[o.Status] < forward[target] {
		next := transitions[o.Status][0]
		e, err := o.TransitionTo(next, now)
		if err != nil {
			return nil, err
		}
		if e != nil {
			ev = e
		}
	}

	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = result
	return ev, nil
}

func (o *Order) Deliver(now time.Time) (*StockEvent, error) {
	if !o.IsPaid {
		return nil, NotPaid(o.OrderNumber)
	}
	return o.TransitionTo(StatusDelivered, now)
}

// ApplyUpdate performs an administrator's status change.
func (o *Order) ApplyUpdate(u StatusUpdate, now time.Time) (*StockEvent, error) {
	var (
		ev  *StockEvent
		err error
	)
	switch u.Status {
	case StatusCancelled:
		ev, err = o.Cancel(u.Reason, true, now)
	default:
		ev, err = o.TransitionTo(u.Status, now)
	}
	if err != nil {
		return nil, err
	}

	if u.Status == StatusRefunded && u.Reason != "" {
		o.RefundReason = u.Reason
	}
	if u.TrackingNumber != "" {
		o.TrackingNumber = u.TrackingNumber
	}
	if u.Carrier != "" {
		o.Carrier = u.Carrier
	}
	if u.AdminNotes != "" {
		o.AdminNotes = u.AdminNotes
	}
	return ev, nil
}
