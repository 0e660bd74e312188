package payments

import "context"

// ReceiptProvider is the manual/offline rail: no external call is made, the
// payment sits in a pending state until someone reconciles it by hand.
type ReceiptProvider struct{}

func NewReceiptProvider() *ReceiptProvider {
	return &ReceiptProvider{}
}

func (r *ReceiptProvider) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	return &Authorization{}, nil
}

func (r *ReceiptProvider) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	return &Charge{Status: "pending"}, nil
}

func (r *ReceiptProvider) Get(ctx context.Context, externalID string) (*Charge, error) {
	return &Charge{ExternalID: externalID, Status: "pending"}, nil
}
