package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyKES Currency = "KES"
)

// ParseCurrency maps a free-form currency string to a supported Currency.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyEUR:
		return CurrencyEUR, nil
	case CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyGBP:
		return CurrencyGBP, nil
	case CurrencyKES:
		return CurrencyKES, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", s)
	}
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountRule is the optional discount attached to a product. An empty
// Code means the product carries no discount.
type DiscountRule struct {
	Code  string          `gorm:"index" json:"code"`
	Type  DiscountType    `gorm:"type:VARCHAR(20)" json:"type"`
	Value decimal.Decimal `gorm:"type:numeric(12,2)" json:"value"`
}

func (d DiscountRule) Active() bool { return d.Code != "" }

// NormalizeCode upper-cases and trims discount and referral codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a rule before it is stored. An inactive rule is always valid.
func (d DiscountRule) Validate() error {
	if !d.Active() {
		return nil
	}
	if d.Value.IsNegative() {
		return errors.New("discount value must not be negative")
	}
	switch d.Type {
	case DiscountPercentage:
		if d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New("percentage discount cannot exceed 100")
		}
	case DiscountFixed:
	default:
		return fmt.Errorf("invalid discount type %q", d.Type)
	}
	return nil
}

type Product struct {
	ID              string            `gorm:"primaryKey" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Brand           string            `gorm:"index" json:"brand"`
	Model           string            `json:"model,omitempty"`
	CompatibleYears []string          `gorm:"serializer:json" json:"compatible_years"`
	Category        string            `gorm:"index" json:"category,omitempty"`
	Condition       string            `json:"condition,omitempty"`
	Description     string            `json:"description,omitempty"`
	Price           decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency        Currency          `gorm:"type:VARCHAR(3);not null" json:"currency"`
	Image           string            `json:"image,omitempty"`
	Stock           int               `json:"stock"`
	Extras          map[string]string `gorm:"serializer:json" json:"extras,omitempty"`
	Discount        DiscountRule      `gorm:"embedded;embeddedPrefix:discount_" json:"discount"`
	UploadedBy      string            `gorm:"index" json:"uploaded_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

const (
	maxExtras        = 20
	maxExtraValueLen = 256
)

var extraKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

// ValidateExtras enforces the shape of the free-form attribute map: at most
// 20 snake_case keys with short values.
func ValidateExtras(extras map[string]string) error {
	if len(extras) > maxExtras {
		return fmt.Errorf("too many extra attributes (max %d)", maxExtras)
	}
	for k, v := range extras {
		if !extraKeyPattern.MatchString(k) {
			return fmt.Errorf("invalid extra attribute name %q", k)
		}
		if len(v) > maxExtraValueLen {
			return fmt.Errorf("extra attribute %q is too long", k)
		}
	}
	return nil
}

// Validate checks the fields every stored product must carry.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if p.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if _, err := ParseCurrency(string(p.Currency)); err != nil {
		return err
	}
	if err := ValidateExtras(p.Extras); err != nil {
		return err
	}
	return p.Discount.Validate()
}
