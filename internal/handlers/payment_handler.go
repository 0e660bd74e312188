package handlers

import (
	"net/http"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/responses"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid note id")
		return
	}

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	result, err := h.payments.ProcessPayment(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to process payment")
		return
	}
	responses.JSON(c, http.StatusOK, result)
}
