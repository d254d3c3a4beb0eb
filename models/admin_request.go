package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RequestType string
type RequestStatus string

const (
	RequestPaymentApproval      RequestType = "Payment Approval"
	RequestSaleApproval         RequestType = "Sale Approval"
	RequestDeleteProduct        RequestType = "Delete Product"
	RequestMarketerRegistration RequestType = "Marketer Registration"

	RequestPending   RequestStatus = "Pending"
	RequestApproved  RequestStatus = "Approved"
	RequestCompleted RequestStatus = "Completed"
	RequestRejected  RequestStatus = "Rejected"
)

type Registration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// AdminRequest is an entry in the approval queue. Which of the optional
// fields are set depends on Type.
type AdminRequest struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	Type        RequestType   `gorm:"type:VARCHAR(40);index" json:"type"`
	Description string        `json:"description"`
	Status      RequestStatus `gorm:"type:VARCHAR(20);index" json:"status"`

	// Payment Approval
	LedgerPath string `json:"ledger_path,omitempty"`
	OrderID    string `json:"order_id,omitempty"`

	// Sale Approval / Delete Product
	MarketerID   string `json:"marketer_id,omitempty"`
	MarketerName string `json:"marketer_name,omitempty"`
	SaleID       string `json:"sale_id,omitempty"`
	ProductID    string `json:"product_id,omitempty"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`

	// Marketer Registration
	Registration             *Registration `gorm:"serializer:json" json:"registration,omitempty"`
	RegistrationPasswordHash string        `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AdminRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = RequestPending
	}
	return nil
}
