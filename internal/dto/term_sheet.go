package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTermSheetRequest struct {
	CompanyID       uuid.UUID        `json:"companyId" binding:"required"`
	RecipientEmails []string         `json:"recipientEmails" binding:"required"`
	SafeAmount      *decimal.Decimal `json:"safeAmount"`
	DiscountRate    *decimal.Decimal `json:"discountRate"`
	ValuationCap    *decimal.Decimal `json:"valuationCap"`
	MFN             bool             `json:"mfn"`
}

type RespondTermSheetRequest struct {
	Accept    bool   `json:"accept"`
	Signature []byte `json:"signature"`
}
