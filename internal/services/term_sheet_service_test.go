package services

import (
	"context"
	"testing"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sheetFixture struct {
	svc       *TermSheetService
	sheets    *fakeTermSheetRepo
	users     *fakeUserRepo
	companies *fakeCompanyRepo
	publisher *fakePublisher

	owner   models.User
	company models.Company
}

func newSheetFixture(t *testing.T) *sheetFixture {
	t.Helper()

	f := &sheetFixture{
		sheets:    newFakeTermSheetRepo(),
		users:     newFakeUserRepo(),
		companies: newFakeCompanyRepo(),
		publisher: &fakePublisher{},
	}

	f.owner = models.User{ID: uuid.New(), Email: "founder@acme.test", EmailVerified: true}
	f.users.put(f.owner)
	f.company = models.Company{ID: uuid.New(), Type: models.CompanyTypeStartup, OwnerID: f.owner.ID}
	f.companies.put(f.company)

	f.svc = NewTermSheetService(fakeTx{}, f.sheets, f.users, f.companies, newFakeStorage(), f.publisher)
	return f
}

func TestCreateTermSheetCreatesRowPerRecipient(t *testing.T) {
	f := newSheetFixture(t)
	rate := decimal.NewFromInt(20)

	sheet, err := f.svc.CreateTermSheet(context.Background(), &f.owner, dto.CreateTermSheetRequest{
		CompanyID:       f.company.ID,
		RecipientEmails: []string{"a@investors.test", "b@investors.test"},
		DiscountRate:    &rate,
	})
	require.NoError(t, err)
	require.Len(t, sheet.Recipients, 2)
	for _, row := range sheet.Recipients {
		assert.Equal(t, models.TermSheetPending, row.Status)
	}
}

func TestCreateTermSheetOnlyByOwner(t *testing.T) {
	f := newSheetFixture(t)
	outsider := models.User{ID: uuid.New(), Email: "x@other.test"}
	rate := decimal.NewFromInt(20)

	_, err := f.svc.CreateTermSheet(context.Background(), &outsider, dto.CreateTermSheetRequest{
		CompanyID:       f.company.ID,
		RecipientEmails: []string{"a@investors.test"},
		DiscountRate:    &rate,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestRespondToTermSheetOncePerRecipient(t *testing.T) {
	f := newSheetFixture(t)
	rate := decimal.NewFromInt(20)

	sheet, err := f.svc.CreateTermSheet(context.Background(), &f.owner, dto.CreateTermSheetRequest{
		CompanyID:       f.company.ID,
		RecipientEmails: []string{"a@investors.test"},
		DiscountRate:    &rate,
	})
	require.NoError(t, err)
	recipientID := sheet.Recipients[0].UserID

	err = f.svc.RespondToTermSheet(context.Background(), recipientID, sheet.ID, dto.RespondTermSheetRequest{
		Accept: true, Signature: []byte{1},
	})
	require.NoError(t, err)

	row, err := f.sheets.FindRecipientRow(sheet.ID, recipientID)
	require.NoError(t, err)
	assert.Equal(t, models.TermSheetAccepted, row.Status)
	assert.NotNil(t, row.SignatureURL)

	// Second response conflicts.
	err = f.svc.RespondToTermSheet(context.Background(), recipientID, sheet.ID, dto.RespondTermSheetRequest{Accept: false})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRespondToTermSheetRejectsNonRecipient(t *testing.T) {
	f := newSheetFixture(t)
	rate := decimal.NewFromInt(20)

	sheet, err := f.svc.CreateTermSheet(context.Background(), &f.owner, dto.CreateTermSheetRequest{
		CompanyID:       f.company.ID,
		RecipientEmails: []string{"a@investors.test"},
		DiscountRate:    &rate,
	})
	require.NoError(t, err)

	err = f.svc.RespondToTermSheet(context.Background(), uuid.New(), sheet.ID, dto.RespondTermSheetRequest{Accept: true, Signature: []byte{1}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}
