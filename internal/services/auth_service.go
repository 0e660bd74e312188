package services

import (
	"errors"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/auth"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"

	"gorm.io/gorm"
)

const minPasswordLength = 8

// AuthService handles account registration and login. Email verification is a
// separate flow; a fresh account starts unverified and cannot issue notes yet.
type AuthService struct {
	tx    repositories.TxRunner
	users repositories.UserRepository
}

func NewAuthService(tx repositories.TxRunner, users repositories.UserRepository) *AuthService {
	return &AuthService{tx: tx, users: users}
}

// Register creates an account with a hashed password.
func (s *AuthService) Register(req dto.RegisterRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.Validation("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.users.FindByEmail(req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to look up email", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("email %s is already registered", req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		return s.users.CreateInTx(tx, user)
	})
	if err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}
	return user, nil
}

// Login checks the credentials and issues the bearer token the protected
// routes consume. Unknown email and wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(req dto.LoginRequest) (string, *models.User, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Authorization("invalid credentials")
		}
		return "", nil, apperrors.Internal("failed to look up email", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return "", nil, apperrors.Authorization("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, apperrors.Internal("failed to issue token", err)
	}
	return token, user, nil
}
