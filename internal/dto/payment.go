package dto

import "github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

// ProcessPaymentRequest starts a payment flow for a note.
type ProcessPaymentRequest struct {
	Provider string `json:"provider" binding:"required"`
	PayAs    string `json:"payAs" binding:"required"`
	// Card path only: payment method to attach to the processor customer.
	PaymentMethodID string `json:"paymentMethodId"`
	// Bank-transfer path only.
	PlaidAccessToken string `json:"plaidAccessToken"`
	PlaidAccountID   string `json:"plaidAccountId"`
	// Receipt path only: where the offline proof of payment lives.
	ReceiptURL string `json:"receiptUrl"`
}

// ProcessPaymentResponse returns the client completion token for card flows.
type ProcessPaymentResponse struct {
	ClientSecret *string        `json:"clientSecret"`
	Payment      models.Payment `json:"payment"`
}
