package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const Provider = "paypal"

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// PayPal talks to the PayPal Orders v2 API: create an order for a total,
// then capture it once the buyer has entered card details.
type PayPal struct {
	http    *resty.Client
	circuit *breaker
	cfg     PayPalConfig

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPal(cfg PayPalConfig) *PayPal {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &PayPal{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetRetryCount(0),
		circuit: newBreaker("PayPal"),
		cfg:     cfg,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount money  `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *PayPal) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	var tok tokenResponse
	var apiErr apiError
	resp, err := p.http.R().
		SetContext(ctx).
		SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tok).
		SetError(&apiErr).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	if resp.IsError() || tok.AccessToken == "" {
		return "", fmt.Errorf("paypal token: status %d %s", resp.StatusCode(), apiErr.Message)
	}

	p.token = tok.AccessToken
	// refresh a minute early
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}

// CreateOrder registers an intent to capture total and returns the PayPal
// order ID the browser's card form is bound to.
func (p *PayPal) CreateOrder(ctx context.Context, total decimal.Decimal, currency models.Currency) (string, error) {
	res, err := p.circuit.call(func() (interface{}, error) {
		token, err := p.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		body := map[string]any{
			"intent": "CAPTURE",
			"purchase_units": []map[string]any{{
				"amount": money{CurrencyCode: string(currency), Value: total.StringFixed(2)},
			}},
		}
		var out orderResponse
		var apiErr apiError
		resp, err := p.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetBody(body).
			SetResult(&out).
			SetError(&apiErr).
			Post("/v2/checkout/orders")
		if err != nil {
			return nil, fmt.Errorf("paypal create order: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("paypal create order: status %d %s", resp.StatusCode(), apiErr.Message)
		}
		return out.ID, nil
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// CaptureOrder captures a PayPal order. A non-COMPLETED capture is returned
// with its status set; callers decide whether it is acceptable.
func (p *PayPal) CaptureOrder(ctx context.Context, orderID string) (*checkout.PaymentCapture, error) {
	res, err := p.circuit.call(func() (interface{}, error) {
		token, err := p.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		var out orderResponse
		var apiErr apiError
		resp, err := p.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("Content-Type", "application/json").
			SetResult(&out).
			SetError(&apiErr).
			Post("/v2/checkout/orders/" + orderID + "/capture")
		if err != nil {
			return nil, fmt.Errorf("paypal capture: %w", err)
		}
		// 422: declined card, not counted as a breaker failure
		if resp.StatusCode() == 422 {
			return &orderResponse{ID: orderID, Status: apiErr.Name}, nil
		}
		if resp.IsError() {
			return nil, fmt.Errorf("paypal capture: status %d %s", resp.StatusCode(), apiErr.Message)
		}
		return &out, nil
	})
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues("error").Inc()
		return nil, err
	}

	out := res.(*orderResponse)
	capture := &checkout.PaymentCapture{
		Provider:  Provider,
		CaptureID: out.ID,
		Status:    out.Status,
		Amount:    decimal.Zero,
	}
	if len(out.PurchaseUnits) > 0 && len(out.PurchaseUnits[0].Payments.Captures) > 0 {
		c := out.PurchaseUnits[0].Payments.Captures[0]
		capture.CaptureID = c.ID
		if amount, err := decimal.NewFromString(c.Amount.Value); err == nil {
			capture.Amount = amount
		}
		capture.Currency = models.Currency(c.Amount.CurrencyCode)
	}

	result := "completed"
	if capture.Status != checkout.CaptureCompleted {
		result = "declined"
	}
	metrics.PaymentCaptures.WithLabelValues(result).Inc()
	log.WithFields(log.Fields{
		"paypal_order": orderID,
		"capture_id":   capture.CaptureID,
		"status":       capture.Status,
	}).Info("PayPal capture finished")

	return capture, nil
}
