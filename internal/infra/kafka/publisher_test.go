package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

type keyed struct {
	OrderNumber string `json:"orderNumber"`
}

func (k keyed) PartitionKey() string { return k.OrderNumber }

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, topic: "notifications", log: zap.NewNop()}

	require.NoError(t, p.Publish(context.Background(), "order.confirmation", keyed{OrderNumber: "ORD2501150001"}))
	require.Len(t, w.msgs, 1)

	m := w.msgs[0]
	assert.Equal(t, "ORD2501150001", string(m.Key))
	assert.Equal(t, "pattern", m.Headers[0].Key)
	assert.Equal(t, "order.confirmation", string(m.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &body))
	assert.Equal(t, "order.confirmation", body["pattern"])
	assert.Equal(t, "ORD2501150001", body["data"].(map[string]any)["orderNumber"])
	assert.NotEmpty(t, body["event_id"])
}

func TestPublisher_UnkeyedFallsBackToPattern(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, topic: "notifications", log: zap.NewNop()}

	require.NoError(t, p.Publish(context.Background(), "order.status_update", map[string]any{"x": 1}))
	assert.Equal(t, "order.status_update", string(w.msgs[0].Key))
}

func TestPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Publisher{writer: w, topic: "notifications", log: zap.NewNop()}

	err := p.Publish(context.Background(), "order.confirmation", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewPublisher_FlushesPromptly(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "notifications", zap.NewNop())
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "notifications", w.Topic)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Positive(t, w.BatchTimeout)
}
