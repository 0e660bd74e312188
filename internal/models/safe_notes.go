package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SafeNoteStatus string

const (
	SafeNoteDraft     SafeNoteStatus = "DRAFT"
	SafeNoteSent      SafeNoteStatus = "SENT"
	SafeNoteSigned    SafeNoteStatus = "SIGNED"
	SafeNoteDeclined  SafeNoteStatus = "DECLINED"
	SafeNoteCancelled SafeNoteStatus = "CANCELLED"
)

type SignatureRole string

const (
	SignAsSender    SignatureRole = "SENDER"
	SignAsRecipient SignatureRole = "RECIPIENT"
)

type SafeNote struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SenderCompanyID uuid.UUID `gorm:"type:uuid;not null;column:senderCompanyId;index" json:"senderCompanyId"`
	// Recipient user; nil only while the note is a draft.
	RecipientID *uuid.UUID `gorm:"type:uuid;column:recipientId;index" json:"recipientId"`
	// Angel company the recipient assigned, at most once.
	RecipientCompanyID *uuid.UUID `gorm:"type:uuid;column:recipientCompanyId" json:"recipientCompanyId"`
	TermSheetID        *uuid.UUID `gorm:"type:uuid;column:termSheetId" json:"termSheetId"`
	PaymentID          *uuid.UUID `gorm:"type:uuid;column:paymentId" json:"paymentId"`

	SafeAmount   *decimal.Decimal `gorm:"type:numeric(14,2);column:safeAmount" json:"safeAmount"`
	DiscountRate *decimal.Decimal `gorm:"type:numeric(5,2);column:discountRate" json:"discountRate"`
	ValuationCap *decimal.Decimal `gorm:"type:numeric(16,2);column:valuationCap" json:"valuationCap"`
	MFN          bool             `gorm:"default:false;column:mfn" json:"mfn"`

	Status SafeNoteStatus `gorm:"size:16;not null;default:'DRAFT'" json:"status"`
	// Paid is orthogonal to Status: a note can be SIGNED yet unpaid.
	Paid bool `gorm:"default:false" json:"paid"`

	SenderSignatureURL *string    `gorm:"size:512;column:senderSignatureUrl" json:"senderSignatureUrl"`
	SenderSignName     *string    `gorm:"size:255;column:senderSignName" json:"senderSignName"`
	SenderSignedAt     *time.Time `gorm:"column:senderSignedAt" json:"senderSignedAt"`

	RecipientSignatureURL *string    `gorm:"size:512;column:recipientSignatureUrl" json:"recipientSignatureUrl"`
	RecipientSignName     *string    `gorm:"size:255;column:recipientSignName" json:"recipientSignName"`
	RecipientSignedAt     *time.Time `gorm:"column:recipientSignedAt" json:"recipientSignedAt"`

	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deletedAt;index" json:"-"`

	SenderCompany Company  `gorm:"foreignKey:SenderCompanyID" json:"-"`
	Payment       *Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

func (n *SafeNote) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

func (SafeNote) TableName() string {
	return "SafeNotes"
}

// Signed reports whether the given role's signature slot is populated.
func (n *SafeNote) Signed(role SignatureRole) bool {
	if role == SignAsSender {
		return n.SenderSignatureURL != nil
	}
	return n.RecipientSignatureURL != nil
}

// Terminal reports whether the note can no longer change status.
func (n *SafeNote) Terminal() bool {
	return n.Status == SafeNoteSigned || n.Status == SafeNoteDeclined || n.Status == SafeNoteCancelled
}
