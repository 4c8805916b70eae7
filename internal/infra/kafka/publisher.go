package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/infra"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes notifications to a single topic keyed by order number,
// so all messages of one order land on the same partition.
type Publisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

var _ infra.EventPublisher = (*Publisher)(nil)

type message struct {
	EventID   string    `json:"event_id"`
	Pattern   string    `json:"pattern"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// batchTimeout caps how long a single-message write waits for its batch to
// fill before it is flushed.
const batchTimeout = 10 * time.Millisecond

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            10,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, topic: topic, log: log}
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	msg := message{
		EventID:   uuid.NewString(),
		Pattern:   pattern,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(keyOf(pattern, data)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "pattern", Value: []byte(pattern)},
			{Key: "event_id", Value: []byte(msg.EventID)},
		},
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}

	p.log.Debug("published event",
		zap.String("topic", p.topic),
		zap.String("pattern", pattern),
		zap.String("event_id", msg.EventID))
	return nil
}

type orderKeyed interface {
	PartitionKey() string
}

func keyOf(pattern string, data any) string {
	if k, ok := data.(orderKeyed); ok {
		return k.PartitionKey()
	}
	return pattern
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
