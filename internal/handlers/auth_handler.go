package handlers

import (
	"net/http"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/responses"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	user, err := h.auth.Register(req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to register")
		return
	}
	responses.JSON(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(req)
	if err != nil {
		responses.Error(c, apperrors.HTTPStatus(err), err, "failed to log in")
		return
	}
	responses.JSON(c, http.StatusOK, dto.LoginResponse{Token: token, User: user})
}
