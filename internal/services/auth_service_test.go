package services

import (
	"testing"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/auth"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	users := newFakeUserRepo()
	return NewAuthService(fakeTx{}, users), users
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	svc, users := newAuthService(t)

	user, err := svc.Register(dto.RegisterRequest{
		Email: "founder@acme.test", Password: "hunter2hunter2", FullName: "Founder",
	})
	require.NoError(t, err)
	assert.False(t, user.EmailVerified, "a fresh account starts unverified")

	stored, err := users.FindByEmail("founder@acme.test")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "hunter2hunter2"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{Email: "founder@acme.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(dto.RegisterRequest{Email: "founder@acme.test", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{Email: "founder@acme.test", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestLoginIssuesParseableToken(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(dto.RegisterRequest{Email: "founder@acme.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(dto.LoginRequest{Email: "founder@acme.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "founder@acme.test", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{Email: "founder@acme.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, _, err = svc.Login(dto.LoginRequest{Email: "founder@acme.test", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	// Unknown email fails the same way as a wrong password.
	_, _, err = svc.Login(dto.LoginRequest{Email: "nobody@acme.test", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}
