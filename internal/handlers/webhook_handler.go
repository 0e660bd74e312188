package handlers

import (
	"net/http"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/payments"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/responses"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WebhookHandler receives asynchronous provider callbacks and feeds them into
// payment reconciliation. Webhooks are always acknowledged with 200 once
// parsed; reconciliation failures are logged and retried on redelivery.
type WebhookHandler struct {
	payments *services.PaymentService
	plaid    *payments.PlaidClient
}

func NewWebhookHandler(paymentService *services.PaymentService, plaid *payments.PlaidClient) *WebhookHandler {
	return &WebhookHandler{payments: paymentService, plaid: plaid}
}

type stripeWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook applies a payment-intent status change.
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	var event stripeWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid webhook payload")
		return
	}

	status := event.Data.Object.Status
	// Failure event types carry their meaning in the type, not the status.
	if event.Type == "payment_intent.payment_failed" {
		status = "payment_failed"
	}

	if err := h.payments.ReconcilePaymentUpdate(c.Request.Context(), event.Data.Object.ID, status); err != nil {
		log.Error().Err(err).Str("intentId", event.Data.Object.ID).Msg("stripe webhook reconciliation failed")
	}
	c.Status(http.StatusOK)
}

type plaidWebhookEvent struct {
	WebhookType string `json:"webhook_type"`
	AfterID     int    `json:"after_id"`
}

// PlaidWebhook syncs transfer events since the delivered cursor and applies
// each status change.
func (h *WebhookHandler) PlaidWebhook(c *gin.Context) {
	var event plaidWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid webhook payload")
		return
	}
	if event.WebhookType != "TRANSFER" {
		c.Status(http.StatusOK)
		return
	}

	transferEvents, err := h.plaid.SyncEvents(c.Request.Context(), event.AfterID)
	if err != nil {
		log.Error().Err(err).Msg("plaid event sync failed")
		c.Status(http.StatusOK)
		return
	}

	for _, te := range transferEvents {
		if err := h.payments.ReconcilePaymentUpdate(c.Request.Context(), te.TransferID, te.EventType); err != nil {
			log.Error().Err(err).Str("transferId", te.TransferID).Msg("plaid webhook reconciliation failed")
		}
	}
	c.Status(http.StatusOK)
}
