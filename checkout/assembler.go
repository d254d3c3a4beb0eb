package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const CaptureCompleted = "COMPLETED"

var (
	ErrPaymentNotCaptured = errors.New("payment was not captured")
	ErrPaymentMismatch    = errors.New("captured amount does not match order total")
)

// ValidationError reports a missing or malformed checkout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// PaymentCapture is the processor's confirmation for card payments.
type PaymentCapture struct {
	Provider  string
	CaptureID string
	Status    string
	Amount    decimal.Decimal
	Currency  models.Currency
}

type SubmitRequest struct {
	Cart         *Cart
	Customer     models.Customer
	DiscountCode string
	MarketerCode string
	Method       models.PaymentMethod
	Payment      *PaymentCapture
}

type Receipt struct {
	Ref      models.OrderRef `json:"ref"`
	Order    *models.Order   `json:"order"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Assembler turns a cart plus checkout form into a stored order.
type Assembler struct {
	discounts *DiscountResolver
	referrals *ReferralResolver
	orders    OrderWriter
	publisher events.Publisher
	now       func() time.Time
}

func NewAssembler(discounts *DiscountResolver, referrals *ReferralResolver, orders OrderWriter, publisher events.Publisher) *Assembler {
	return &Assembler{
		discounts: discounts,
		referrals: referrals,
		orders:    orders,
		publisher: publisher,
		now:       time.Now,
	}
}

// Quote prices items with an optional discount code.
func (a *Assembler) Quote(ctx context.Context, items []models.LineItem, discountCode string) (Quote, error) {
	q := NewQuote(items)
	if strings.TrimSpace(discountCode) == "" {
		return q, nil
	}
	err := q.Apply(ctx, a.discounts, discountCode)
	return q, err
}

// Validate runs the checks Submit makes before touching payment or storage,
// so card payments can be rejected before anything is captured.
func (a *Assembler) Validate(req SubmitRequest) error {
	if req.Cart == nil || req.Cart.Len() == 0 {
		return ErrEmptyCart
	}
	if err := validateCustomer(req.Customer); err != nil {
		return err
	}
	if req.Method == "" {
		return &ValidationError{Field: "payment_method", Message: "is required"}
	}
	return nil
}

// Submit writes the order to exactly one ledger. Nothing is written and the
// cart is left untouched when any step before the write fails.
func (a *Assembler) Submit(ctx context.Context, req SubmitRequest) (*Receipt, error) {
	if err := a.Validate(req); err != nil {
		return nil, err
	}

	captured := req.Method.Captured()
	if captured && (req.Payment == nil || req.Payment.Status != CaptureCompleted) {
		return nil, ErrPaymentNotCaptured
	}

	var warnings []string
	items := req.Cart.Items()

	quote, err := a.Quote(ctx, items, req.DiscountCode)
	switch {
	case errors.Is(err, ErrInvalidDiscountCode):
		warnings = append(warnings, fmt.Sprintf("discount code %q is no longer valid and was not applied", models.NormalizeCode(req.DiscountCode)))
	case err != nil:
		return nil, err
	}
	total := quote.Total()

	if captured && (req.Payment.Currency != quote.Currency || !req.Payment.Amount.Equal(total)) {
		return nil, fmt.Errorf("%w: captured %s %s, total %s %s", ErrPaymentMismatch,
			req.Payment.Currency, req.Payment.Amount, quote.Currency, total)
	}

	ledger := models.GeneralLedger()
	var marketer *models.Marketer
	if code := models.NormalizeCode(req.MarketerCode); code != "" {
		m, err := a.referrals.Resolve(ctx, code)
		switch {
		case errors.Is(err, ErrUnknownReferral):
			log.WithField("code", code).Warn("Unknown referral code, order routed to general ledger")
			warnings = append(warnings, fmt.Sprintf("referral code %q was not recognised; the order was placed without a referral", code))
		case err != nil:
			return nil, err
		default:
			marketer = m
			ledger = models.MarketerLedger(m.ID)
		}
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		Items:         items,
		Currency:      quote.Currency,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Total:         total,
		Commission:    decimal.Zero,
		Customer:      trimCustomer(req.Customer),
		PaymentMethod: req.Method,
		Status:        models.StatusPendingPayment,
		CreatedAt:     a.now().UTC(),
	}
	if captured {
		order.Status = models.StatusPaid
		order.PaymentRef = req.Payment.CaptureID
	}
	if marketer != nil {
		code := marketer.Code
		order.MarketerID = marketer.ID
		order.MarketerCode = &code
		order.Commission = marketer.Commission(total)
	}

	ref := models.OrderRef{LedgerPath: ledger.Path(), OrderID: order.ID}

	var approval *models.AdminRequest
	if !captured {
		approval = paymentApproval(order, ref, marketer)
	}

	if err := a.orders.CreateOrder(ctx, ledger, order, approval); err != nil {
		return nil, fmt.Errorf("write order: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues(ledgerKind(ledger), string(order.Status)).Inc()

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"ledger":   ref.LedgerPath,
		"status":   order.Status,
		"total":    total.String(),
		"method":   order.PaymentMethod,
	}).Info("Order placed")

	if err := req.Cart.Clear(ctx); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("Order placed but cart could not be cleared")
		warnings = append(warnings, "the order was placed but the cart could not be emptied")
	}

	a.publish(ctx, events.Event{Type: events.OrderCreated, Ref: ref, Status: order.Status, Order: order})
	if approval != nil {
		a.publish(ctx, events.Event{Type: events.RequestCreated, Ref: ref, Request: approval})
	}

	return &Receipt{Ref: ref, Order: order, Warnings: warnings}, nil
}

func (a *Assembler) publish(ctx context.Context, e events.Event) {
	if a.publisher == nil {
		return
	}
	e.At = a.now().UTC()
	if err := a.publisher.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("event", e.Type).Warn("Failed to publish event")
	}
}

func paymentApproval(order *models.Order, ref models.OrderRef, marketer *models.Marketer) *models.AdminRequest {
	req := &models.AdminRequest{
		ID:     uuid.NewString(),
		Type:   models.RequestPaymentApproval,
		Status: models.RequestPending,
		Description: fmt.Sprintf("Payment approval for order %s: %s %s via %s (%s)",
			order.ID, order.Currency, order.Total.StringFixed(2), order.PaymentMethod, order.Customer.Name),
		LedgerPath: ref.LedgerPath,
		OrderID:    order.ID,
		Amount:     order.Total,
	}
	if marketer != nil {
		req.MarketerID = marketer.ID
		req.MarketerName = marketer.Name
		req.SaleID = order.ID
	}
	return req
}

func ledgerKind(l models.Ledger) string {
	if l.IsMarketer() {
		return "marketer"
	}
	return "general"
}

func trimCustomer(c models.Customer) models.Customer {
	return models.Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

func validateCustomer(c models.Customer) error {
	c = trimCustomer(c)
	switch {
	case c.Name == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case c.Email == "":
		return &ValidationError{Field: "email", Message: "is required"}
	case c.Phone == "":
		return &ValidationError{Field: "phone", Message: "is required"}
	case c.Address == "":
		return &ValidationError{Field: "address", Message: "is required"}
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}
