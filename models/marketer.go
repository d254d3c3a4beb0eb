package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Marketer is a referral partner. Sales attributed to its Code are stored in
// its own ledger (table marketer_sales, path marketers/<id>/sales).
type Marketer struct {
	ID                string          `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"not null" json:"name"`
	Email             string          `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string          `json:"phone,omitempty"`
	PasswordHash      string          `gorm:"not null" json:"-"`
	Code              string          `gorm:"uniqueIndex;not null" json:"code"`
	CommissionPercent decimal.Decimal `gorm:"type:numeric(5,2)" json:"commission_percent"`
	SalesCount        int             `json:"sales_count"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (m *Marketer) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Commission returns the marketer's share of total.
func (m *Marketer) Commission(total decimal.Decimal) decimal.Decimal {
	return total.Mul(m.CommissionPercent).Div(decimal.NewFromInt(100)).Round(2)
}
