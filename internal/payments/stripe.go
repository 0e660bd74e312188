package payments

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// StripeClient drives the card rail over Stripe's REST API. Charges are
// asynchronous: the final status arrives via webhook, the immediate response
// only carries the intent id and client secret.
type StripeClient struct {
	client *resty.Client
}

type stripeCustomer struct {
	ID string `json:"id"`
}

type stripePaymentIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeClient(secretKey string) *StripeClient {
	client := resty.New().
		SetBaseURL("https://api.stripe.com/v1").
		SetBasicAuth(secretKey, "").
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	return &StripeClient{client: client}
}

// Authorize resolves the processor customer for the payer, creating one when
// the payer has none yet.
func (s *StripeClient) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	if req.CustomerID != "" {
		return &Authorization{ID: req.CustomerID}, nil
	}

	var customer stripeCustomer
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email": req.PayerEmail,
			"name":  req.PayerName,
		}).
		SetResult(&customer).
		SetError(&apiErr).
		Post("/customers")
	if err != nil {
		return nil, fmt.Errorf("stripe create customer: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe create customer: %s", apiErr.Error.Message)
	}

	return &Authorization{ID: customer.ID}, nil
}

// Charge creates a payment intent for the full (fee-inclusive) amount.
func (s *StripeClient) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	form := map[string]string{
		"amount":      toCents(req.Amount),
		"currency":    "usd",
		"customer":    req.CustomerID,
		"description": req.Description,
	}
	if req.PaymentMethodID != "" {
		form["payment_method"] = req.PaymentMethodID
		form["confirm"] = "true"
	}

	var intent stripePaymentIntent
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&intent).
		SetError(&apiErr).
		Post("/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe create payment intent: %s", apiErr.Error.Message)
	}

	return &Charge{
		ExternalID:   intent.ID,
		Status:       intent.Status,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *StripeClient) Get(ctx context.Context, externalID string) (*Charge, error) {
	var intent stripePaymentIntent
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&intent).
		SetError(&apiErr).
		Get("/payment_intents/" + externalID)
	if err != nil {
		return nil, fmt.Errorf("stripe get payment intent: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe get payment intent: %s", apiErr.Error.Message)
	}

	return &Charge{
		ExternalID:   intent.ID,
		Status:       intent.Status,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// toCents renders a dollar amount as an integer cent string, the unit the
// card processor expects.
func toCents(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).String()
}
