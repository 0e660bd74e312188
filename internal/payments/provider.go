package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// AuthorizeRequest asks a provider for permission to collect from the payer.
// For the card provider this resolves/creates the processor customer; for the
// bank-transfer provider it runs a transfer authorization decision.
type AuthorizeRequest struct {
	PayerEmail      string
	PayerName       string
	CustomerID      string
	PaymentMethodID string
	AccessToken     string
	AccountID       string
	Amount          decimal.Decimal
}

type Authorization struct {
	// CustomerID (card) or AuthorizationID (bank transfer).
	ID string
	// Declined authorizations carry the provider's decision reason.
	Declined      bool
	DeclineReason string
}

// ChargeRequest submits the actual collection attempt.
type ChargeRequest struct {
	AuthorizationID string
	CustomerID      string
	PaymentMethodID string
	AccessToken     string
	AccountID       string
	Amount          decimal.Decimal
	Description     string
}

// Charge is the provider's view of one collection attempt. Status is the
// provider's raw vocabulary; callers map it via MapProviderStatus.
type Charge struct {
	ExternalID   string
	Status       string
	ClientSecret string
}

// Provider abstracts the three payment rails behind one interface. The
// orchestrator never sees a concrete SDK shape.
type Provider interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error)
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
	Get(ctx context.Context, externalID string) (*Charge, error)
}
