package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TermSheetUserStatus string

const (
	TermSheetPending  TermSheetUserStatus = "PENDING"
	TermSheetAccepted TermSheetUserStatus = "ACCEPTED"
	TermSheetRejected TermSheetUserStatus = "REJECTED"
)

// TermSheet is a batch proposal sent to one or more recipients before
// individual SAFE notes are issued.
type TermSheet struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID    uuid.UUID        `gorm:"type:uuid;not null;column:companyId;index" json:"companyId"`
	SafeAmount   *decimal.Decimal `gorm:"type:numeric(14,2);column:safeAmount" json:"safeAmount"`
	DiscountRate *decimal.Decimal `gorm:"type:numeric(5,2);column:discountRate" json:"discountRate"`
	ValuationCap *decimal.Decimal `gorm:"type:numeric(16,2);column:valuationCap" json:"valuationCap"`
	MFN          bool             `gorm:"default:false;column:mfn" json:"mfn"`
	CreatedAt    time.Time        `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"column:updatedAt" json:"updatedAt"`

	Recipients []TermSheetUser `gorm:"foreignKey:TermSheetID" json:"recipients"`
}

func (t *TermSheet) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func (TermSheet) TableName() string {
	return "TermSheets"
}

// TermSheetUser is one recipient row of a term sheet, tracked independently.
type TermSheetUser struct {
	ID           uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TermSheetID  uuid.UUID           `gorm:"type:uuid;not null;column:termSheetId;index" json:"termSheetId"`
	UserID       uuid.UUID           `gorm:"type:uuid;not null;column:userId" json:"userId"`
	Status       TermSheetUserStatus `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	SignatureURL *string             `gorm:"size:512;column:signatureUrl" json:"signatureUrl"`
	SignedAt     *time.Time          `gorm:"column:signedAt" json:"signedAt"`
	CreatedAt    time.Time           `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"column:updatedAt" json:"updatedAt"`
}

func (tu *TermSheetUser) BeforeCreate(tx *gorm.DB) (err error) {
	if tu.ID == uuid.Nil {
		tu.ID = uuid.New()
	}
	return
}

func (TermSheetUser) TableName() string {
	return "TermSheetUsers"
}

// HasRecipient reports whether userID is among the sheet's recipient rows.
func (t *TermSheet) HasRecipient(userID uuid.UUID) bool {
	for _, r := range t.Recipients {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
