package dto

import "github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token the protected routes expect.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
