package infra

import (
	"context"
	"time"

	"storefront-service/internal/domain"
)

const (
	PatternOrderConfirmation = "order.confirmation"
	PatternOrderStatusUpdate = "order.status_update"
)

type orderMessage struct {
	domain.OrderNotification
	RecipientID string `json:"recipientId"`
}

// BrokerNotifier hands order notifications to the mailer through the event
// broker.
type BrokerNotifier struct {
	publisher EventPublisher
	now       func() time.Time
}

func NewBrokerNotifier(pub EventPublisher) *BrokerNotifier {
	return &BrokerNotifier{publisher: pub, now: time.Now}
}

func (n *BrokerNotifier) SendOrderConfirmation(ctx context.Context, userID string, order *domain.Order) error {
	return n.send(ctx, PatternOrderConfirmation, userID, order)
}

func (n *BrokerNotifier) SendOrderStatusUpdate(ctx context.Context, userID string, order *domain.Order) error {
	return n.send(ctx, PatternOrderStatusUpdate, userID, order)
}

func (n *BrokerNotifier) send(ctx context.Context, pattern, userID string, order *domain.Order) error {
	msg := orderMessage{
		OrderNotification: domain.NewOrderNotification(order, n.now()),
		RecipientID:       userID,
	}
	return n.publisher.Publish(ctx, pattern, msg)
}

// PartitionKey keeps every message of one order in order on keyed brokers.
func (m orderMessage) PartitionKey() string { return m.OrderNumber }
