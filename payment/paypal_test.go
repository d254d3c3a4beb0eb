package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePayPal(t *testing.T, captureStatus int, captureBody string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokens atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		tokens.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var body struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				Amount money `json:"amount"`
			} `json:"purchase_units"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if len(body.PurchaseUnits) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "CAPTURE", body.Intent)
		assert.Equal(t, "42.50", body.PurchaseUnits[0].Amount.Value)
		assert.Equal(t, "USD", body.PurchaseUnits[0].Amount.CurrencyCode)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"PP-ORDER-1","status":"CREATED"}`))
	})
	mux.HandleFunc("/v2/checkout/orders/PP-ORDER-1/capture", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(captureStatus)
		_, _ = w.Write([]byte(captureBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokens
}

const completedCapture = `{
  "id": "PP-ORDER-1",
  "status": "COMPLETED",
  "purchase_units": [{
    "payments": {"captures": [{"id": "CAP-9", "status": "COMPLETED", "amount": {"currency_code": "USD", "value": "42.50"}}]}
  }]
}`

func TestCreateAndCapture(t *testing.T) {
	srv, tokens := fakePayPal(t, http.StatusCreated, completedCapture)
	pp := NewPayPal(PayPalConfig{BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret"})
	ctx := context.Background()

	id, err := pp.CreateOrder(ctx, decimal.RequireFromString("42.5"), models.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, "PP-ORDER-1", id)

	capture, err := pp.CaptureOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, checkout.CaptureCompleted, capture.Status)
	assert.Equal(t, "CAP-9", capture.CaptureID)
	assert.True(t, capture.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, models.CurrencyUSD, capture.Currency)
	assert.Equal(t, Provider, capture.Provider)

	assert.Equal(t, int32(1), tokens.Load())
}

func TestCaptureDeclined(t *testing.T) {
	srv, _ := fakePayPal(t, http.StatusUnprocessableEntity, `{"name":"UNPROCESSABLE_ENTITY","message":"card declined"}`)
	pp := NewPayPal(PayPalConfig{BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret"})

	capture, err := pp.CaptureOrder(context.Background(), "PP-ORDER-1")
	require.NoError(t, err)
	assert.NotEqual(t, checkout.CaptureCompleted, capture.Status)
	assert.True(t, capture.Amount.IsZero())
}

func TestCaptureServerError(t *testing.T) {
	srv, _ := fakePayPal(t, http.StatusInternalServerError, `{"name":"INTERNAL_SERVER_ERROR","message":"boom"}`)
	pp := NewPayPal(PayPalConfig{BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret"})

	_, err := pp.CaptureOrder(context.Background(), "PP-ORDER-1")
	assert.Error(t, err)
}

func TestBadCredentials(t *testing.T) {
	srv, _ := fakePayPal(t, http.StatusCreated, completedCapture)
	pp := NewPayPal(PayPalConfig{BaseURL: srv.URL, ClientID: "client", ClientSecret: "wrong"})

	_, err := pp.CreateOrder(context.Background(), decimal.NewFromInt(1), models.CurrencyUSD)
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv, _ := fakePayPal(t, http.StatusInternalServerError, `{}`)
	pp := NewPayPal(PayPalConfig{BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret"})

	for i := 0; i < 5; i++ {
		_, err := pp.CaptureOrder(context.Background(), "PP-ORDER-1")
		require.Error(t, err)
	}
	_, err := pp.CaptureOrder(context.Background(), "PP-ORDER-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
