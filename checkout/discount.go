package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidDiscountCode = errors.New("invalid discount code")

var hundred = decimal.NewFromInt(100)

type DiscountResolver struct {
	products DiscountLookup
}

func NewDiscountResolver(products DiscountLookup) *DiscountResolver {
	return &DiscountResolver{products: products}
}

// Resolve looks up code and computes its reduction against subtotal.
func (r *DiscountResolver) Resolve(ctx context.Context, code string, subtotal decimal.Decimal) (*models.AppliedDiscount, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		metrics.DiscountLookups.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidDiscountCode
	}

	product, err := r.products.FindByDiscountCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		metrics.DiscountLookups.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidDiscountCode
	}
	if err != nil {
		metrics.DiscountLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup discount %s: %w", code, err)
	}

	metrics.DiscountLookups.WithLabelValues("applied").Inc()
	rule := product.Discount
	return &models.AppliedDiscount{
		Code:              code,
		Type:              rule.Type,
		Value:             rule.Value,
		Amount:            DiscountAmount(rule, subtotal),
		SourceProductName: product.Name,
	}, nil
}

// DiscountAmount applies rule to subtotal. The result is rounded to cents and
// kept within [0, subtotal].
func DiscountAmount(rule models.DiscountRule, subtotal decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch rule.Type {
	case models.DiscountPercentage:
		raw = subtotal.Mul(rule.Value).Div(hundred)
	case models.DiscountFixed:
		raw = rule.Value
	}
	raw = raw.Round(2)
	if raw.GreaterThan(subtotal) {
		raw = subtotal
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}
	return raw
}

// Quote is the price of a cart with at most one discount applied.
type Quote struct {
	Subtotal decimal.Decimal         `json:"subtotal"`
	Currency models.Currency         `json:"currency"`
	Discount *models.AppliedDiscount `json:"discount,omitempty"`
}

func NewQuote(items []models.LineItem) Quote {
	q := Quote{Subtotal: Subtotal(items)}
	if len(items) > 0 {
		q.Currency = items[0].Currency
	}
	return q
}

// Apply resolves code against the undiscounted subtotal and replaces any
// discount applied before. On error the previous discount is kept.
func (q *Quote) Apply(ctx context.Context, r *DiscountResolver, code string) error {
	d, err := r.Resolve(ctx, code, q.Subtotal)
	if err != nil {
		return err
	}
	q.Discount = d
	return nil
}

func (q *Quote) RemoveDiscount() { q.Discount = nil }

func (q Quote) DiscountAmount() decimal.Decimal {
	if q.Discount == nil {
		return decimal.Zero
	}
	return q.Discount.Amount
}

func (q Quote) Total() decimal.Decimal {
	return q.Subtotal.Sub(q.DiscountAmount())
}
