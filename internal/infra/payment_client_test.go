package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentClient_CreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "6832", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "ORD2501150001", r.PostForm.Get("metadata[orderNumber]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","status":"requires_payment_method","client_secret":"pi_123_secret","amount":6832,"currency":"usd"}`))
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL+"/", "sk_test", time.Second)
	pi, err := c.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		Amount:   6832,
		Currency: "USD",
		Metadata: map[string]string{"orderNumber": "ORD2501150001"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", pi.ID)
	assert.Equal(t, "pi_123_secret", pi.ClientSecret)
	assert.Equal(t, "requires_payment_method", pi.Status)
}

func TestPaymentClient_GatewayError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "error body",
			status:  http.StatusPaymentRequired,
			body:    `{"error":{"type":"card_error","message":"card declined"}}`,
			wantErr: "card declined",
		},
		{
			name:    "opaque failure",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: "status 502",
		},
		{
			name:    "missing id",
			status:  http.StatusOK,
			body:    `{"status":"requires_payment_method"}`,
			wantErr: "no intent id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewPaymentClient(srv.URL, "sk_test", time.Second)
			pi, err := c.CreatePaymentIntent(context.Background(), PaymentIntentRequest{Amount: 100, Currency: "USD"})

			assert.Nil(t, pi)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
