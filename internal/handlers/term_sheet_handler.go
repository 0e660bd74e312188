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

type TermSheetHandler struct {
	termSheets *services.TermSheetService
}

func NewTermSheetHandler(termSheets *services.TermSheetService) *TermSheetHandler {
	return &TermSheetHandler{termSheets: termSheets}
}

func (h *TermSheetHandler) CreateTermSheet(c *gin.Context) {
	var req dto.CreateTermSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	sheet, err := h.termSheets.CreateTermSheet(c.Request.Context(), currentUser(c), req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to create term sheet")
		return
	}
	responses.JSON(c, http.StatusCreated, sheet)
}

func (h *TermSheetHandler) GetTermSheet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sheetId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid term sheet id")
		return
	}

	sheet, err := h.termSheets.GetTermSheet(id)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to load term sheet")
		return
	}
	responses.JSON(c, http.StatusOK, sheet)
}

func (h *TermSheetHandler) RespondToTermSheet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sheetId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid term sheet id")
		return
	}

	var req dto.RespondTermSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if err := h.termSheets.RespondToTermSheet(c.Request.Context(), currentUser(c).ID, id, req); err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to respond to term sheet")
		return
	}
	c.Status(http.StatusNoContent)
}
