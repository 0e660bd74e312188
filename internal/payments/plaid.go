package payments

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// PlaidClient drives the bank-transfer rail. Transfers require a prior
// authorization decision; some rails settle in the create call itself, so
// callers must treat the returned status as potentially final.
type PlaidClient struct {
	client   *resty.Client
	clientID string
	secret   string
}

type plaidAuthorizationResponse struct {
	Authorization struct {
		ID       string `json:"id"`
		Decision string `json:"decision"`
		// Populated when decision is "declined".
		DecisionRationale *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"decision_rationale"`
	} `json:"authorization"`
}

type plaidTransferResponse struct {
	Transfer plaidTransfer `json:"transfer"`
}

type plaidTransfer struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type plaidTransferEvent struct {
	EventID    int    `json:"event_id"`
	TransferID string `json:"transfer_id"`
	EventType  string `json:"event_type"`
}

type plaidSyncResponse struct {
	TransferEvents []plaidTransferEvent `json:"transfer_events"`
}

type plaidError struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func NewPlaidClient(baseURL, clientID, secret string) *PlaidClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	return &PlaidClient{client: client, clientID: clientID, secret: secret}
}

func (p *PlaidClient) body(fields map[string]interface{}) map[string]interface{} {
	fields["client_id"] = p.clientID
	fields["secret"] = p.secret
	return fields
}

// Authorize runs the transfer authorization decision. A declined decision is
// not an error at this layer; the rationale is surfaced to the caller.
func (p *PlaidClient) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	var result plaidAuthorizationResponse
	var apiErr plaidError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.body(map[string]interface{}{
			"access_token": req.AccessToken,
			"account_id":   req.AccountID,
			"type":         "debit",
			"network":      "ach",
			"amount":       req.Amount.StringFixed(2),
			"ach_class":    "ccd",
			"user":         map[string]string{"legal_name": req.PayerName},
		})).
		SetResult(&result).
		SetError(&apiErr).
		Post("/transfer/authorization/create")
	if err != nil {
		return nil, fmt.Errorf("plaid authorization: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plaid authorization: %s", apiErr.ErrorMessage)
	}

	auth := &Authorization{ID: result.Authorization.ID}
	if result.Authorization.Decision == "declined" {
		auth.Declined = true
		if result.Authorization.DecisionRationale != nil {
			auth.DeclineReason = result.Authorization.DecisionRationale.Description
		}
	}
	return auth, nil
}

// Charge creates the transfer under an approved authorization.
func (p *PlaidClient) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	var result plaidTransferResponse
	var apiErr plaidError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.body(map[string]interface{}{
			"access_token":     req.AccessToken,
			"account_id":       req.AccountID,
			"authorization_id": req.AuthorizationID,
			"amount":           req.Amount.StringFixed(2),
			"description":      req.Description,
		})).
		SetResult(&result).
		SetError(&apiErr).
		Post("/transfer/create")
	if err != nil {
		return nil, fmt.Errorf("plaid create transfer: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plaid create transfer: %s", apiErr.ErrorMessage)
	}

	return &Charge{
		ExternalID: result.Transfer.ID,
		Status:     result.Transfer.Status,
	}, nil
}

func (p *PlaidClient) Get(ctx context.Context, externalID string) (*Charge, error) {
	var result plaidTransferResponse
	var apiErr plaidError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.body(map[string]interface{}{"transfer_id": externalID})).
		SetResult(&result).
		SetError(&apiErr).
		Post("/transfer/get")
	if err != nil {
		return nil, fmt.Errorf("plaid get transfer: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plaid get transfer: %s", apiErr.ErrorMessage)
	}

	return &Charge{
		ExternalID: result.Transfer.ID,
		Status:     result.Transfer.Status,
	}, nil
}

// SyncEvents pulls transfer events after the given cursor, for webhook-driven
// reconciliation of transfer status changes.
func (p *PlaidClient) SyncEvents(ctx context.Context, afterID int) ([]TransferEvent, error) {
	var result plaidSyncResponse
	var apiErr plaidError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.body(map[string]interface{}{"after_id": afterID})).
		SetResult(&result).
		SetError(&apiErr).
		Post("/transfer/event/sync")
	if err != nil {
		return nil, fmt.Errorf("plaid sync events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plaid sync events: %s", apiErr.ErrorMessage)
	}

	transferEvents := make([]TransferEvent, 0, len(result.TransferEvents))
	for _, e := range result.TransferEvents {
		transferEvents = append(transferEvents, TransferEvent{
			EventID:    e.EventID,
			TransferID: e.TransferID,
			EventType:  e.EventType,
		})
	}
	return transferEvents, nil
}

// TransferEvent is one status change of a transfer, in sync order.
type TransferEvent struct {
	EventID    int
	TransferID string
	EventType  string
}
