package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentMethod string

const (
	StatusPendingPayment  OrderStatus = "Pending Payment"  // manual payment, waiting for approval
	StatusPendingApproval OrderStatus = "Pending Approval" // marketer asked an admin to approve
	StatusApproved        OrderStatus = "Approved"
	StatusCompleted       OrderStatus = "Completed"
	StatusPaid            OrderStatus = "Paid" // card captured before the order was written

	PaymentPayPal       PaymentMethod = "paypal"
	PaymentMpesa        PaymentMethod = "mpesa"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (s OrderStatus) IsPending() bool {
	return s == StatusPendingPayment || s == StatusPendingApproval
}

// Settled reports whether the payment for the order is confirmed.
func (s OrderStatus) Settled() bool {
	return s == StatusApproved || s == StatusPaid
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentPayPal:
		return PaymentPayPal, nil
	case PaymentMpesa:
		return PaymentMpesa, nil
	case PaymentBankTransfer:
		return PaymentBankTransfer, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// Captured reports whether the method takes payment before the order is written.
func (m PaymentMethod) Captured() bool { return m == PaymentPayPal }

// LineItem is a cart entry and, once ordered, an immutable order line.
type LineItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model,omitempty"`
	CompatibleYears []string        `json:"compatible_years"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Currency        Currency        `json:"currency"`
	Quantity        int             `json:"quantity"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// NewLineItem snapshots the current product price for a cart entry.
func NewLineItem(p *Product, quantity int) LineItem {
	return LineItem{
		ProductID:       p.ID,
		Name:            p.Name,
		Brand:           p.Brand,
		Model:           p.Model,
		CompatibleYears: p.CompatibleYears,
		UnitPrice:       p.Price,
		Currency:        p.Currency,
		Quantity:        quantity,
	}
}

type AppliedDiscount struct {
	Code              string          `json:"code"`
	Type              DiscountType    `json:"type"`
	Value             decimal.Decimal `json:"value"`
	Amount            decimal.Decimal `json:"amount"`
	SourceProductName string          `json:"source_product_name,omitempty"`
}

type Customer struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// Order is stored either in the general orders ledger or in one marketer's
// sales ledger; both tables share this layout.
type Order struct {
	ID            string           `gorm:"primaryKey" json:"id"`
	MarketerID    string           `gorm:"index" json:"marketer_id,omitempty"`
	Items         []LineItem       `gorm:"serializer:json" json:"items"`
	Currency      Currency         `gorm:"type:VARCHAR(3)" json:"currency"`
	Subtotal      decimal.Decimal  `gorm:"type:numeric(12,2)" json:"subtotal"`
	Discount      *AppliedDiscount `gorm:"serializer:json" json:"discount,omitempty"`
	Total         decimal.Decimal  `gorm:"type:numeric(12,2)" json:"total"`
	Commission    decimal.Decimal  `gorm:"type:numeric(12,2)" json:"commission"`
	Customer      Customer         `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	MarketerCode  *string          `json:"marketer_code,omitempty"`
	PaymentMethod PaymentMethod    `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentRef    string           `json:"payment_ref,omitempty"`
	Status        OrderStatus      `gorm:"type:VARCHAR(30);index" json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
