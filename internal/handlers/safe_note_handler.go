package handlers

import (
	"net/http"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/middleware"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/responses"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SafeNoteHandler struct {
	notes *services.SafeNoteService
	terms *services.TermsService
}

func NewSafeNoteHandler(notes *services.SafeNoteService, terms *services.TermsService) *SafeNoteHandler {
	return &SafeNoteHandler{notes: notes, terms: terms}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.ContextUserKey).(*models.User)
}

func noteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid note id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SafeNoteHandler) CreateSafeNote(c *gin.Context) {
	var req dto.CreateSafeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	notes, err := h.notes.CreateSafeNote(c.Request.Context(), currentUser(c), req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to create safe note")
		return
	}
	responses.JSON(c, http.StatusCreated, notes)
}

func (h *SafeNoteHandler) GetSafeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	note, err := h.notes.GetSafeNote(id)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to load safe note")
		return
	}
	responses.JSON(c, http.StatusOK, note)
}

func (h *SafeNoteHandler) UpdateSafeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req dto.UpdateSafeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	note, err := h.notes.UpdateSafeNote(c.Request.Context(), id, req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to update safe note")
		return
	}
	responses.JSON(c, http.StatusOK, note)
}

func (h *SafeNoteHandler) SignSafeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req dto.SignSafeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	note, err := h.notes.SignSafeNote(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to sign safe note")
		return
	}
	responses.JSON(c, http.StatusOK, note)
}

func (h *SafeNoteHandler) DeclineSafeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	if err := h.notes.DeclineSafeNote(c.Request.Context(), currentUser(c).ID, id); err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to decline safe note")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SafeNoteHandler) AssignCompany(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req dto.AssignCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if err := h.notes.AssignCompanyToSafeNote(c.Request.Context(), currentUser(c).ID, id, req.CompanyID); err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to assign company")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SafeNoteHandler) DeleteSafeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req dto.DeleteSafeNoteRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.notes.DeleteSafeNote(c.Request.Context(), currentUser(c).ID, id, req.Message); err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to delete safe note")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMaxTerms exposes the MFN max terms a company's MFN notes render with.
func (h *SafeNoteHandler) GetMaxTerms(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid company id")
		return
	}

	terms, err := h.terms.GetMaxTerms(c.Request.Context(), companyID)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to compute max terms")
		return
	}
	responses.JSON(c, http.StatusOK, terms)
}
