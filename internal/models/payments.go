package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentProvider string

const (
	ProviderStripe  PaymentProvider = "stripe"
	ProviderPlaid   PaymentProvider = "plaid"
	ProviderReceipt PaymentProvider = "receipt"
)

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "CREATED"
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentCanceled PaymentStatus = "CANCELED"
)

type PayAs string

const (
	PayAsCompany PayAs = "COMPANY"
	PayAsAngel   PayAs = "ANGEL"
)

// Payment is one attempt to collect money for a note. A note references at
// most one non-canceled payment at a time.
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SafeNoteID uuid.UUID       `gorm:"type:uuid;not null;column:safeNoteId;index" json:"safeNoteId"`
	PayerID    uuid.UUID       `gorm:"type:uuid;not null;column:payerId" json:"payerId"`
	Provider   PaymentProvider `gorm:"size:16;not null" json:"provider"`
	Status     PaymentStatus   `gorm:"size:16;not null;default:'CREATED'" json:"status"`
	PayAs      PayAs           `gorm:"size:16;not null;column:payAs" json:"payAs"`
	// Amount actually submitted for collection (fees included on the card path).
	Amount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	// Intent id (stripe) or transfer id (plaid); empty for receipt payments.
	ExternalID string    `gorm:"size:128;column:externalId;index" json:"externalId"`
	ReceiptURL string    `gorm:"size:512;column:receiptUrl" json:"receiptUrl"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

func (Payment) TableName() string {
	return "Payments"
}
