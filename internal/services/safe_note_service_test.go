package services

import (
	"context"
	"testing"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/dto"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteFixture struct {
	svc       *SafeNoteService
	notes     *fakeNoteRepo
	users     *fakeUserRepo
	companies *fakeCompanyRepo
	sheets    *fakeTermSheetRepo
	files     *fakeStorage
	publisher *fakePublisher

	owner   models.User
	company models.Company
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()

	f := &noteFixture{
		notes:     newFakeNoteRepo(),
		users:     newFakeUserRepo(),
		companies: newFakeCompanyRepo(),
		sheets:    newFakeTermSheetRepo(),
		files:     newFakeStorage(),
		publisher: &fakePublisher{},
	}

	f.owner = models.User{ID: uuid.New(), Email: "founder@acme.test", EmailVerified: true}
	f.users.put(f.owner)
	f.company = models.Company{
		ID:      uuid.New(),
		Name:    "Acme",
		Type:    models.CompanyTypeStartup,
		OwnerID: f.owner.ID,
		Owner:   f.owner,
	}
	f.companies.put(f.company)
	f.companies.bind(f.company.ID, f.owner.ID, models.RoleOwner)

	f.svc = NewSafeNoteService(fakeTx{}, f.notes, f.users, f.companies, f.sheets, f.files, f.publisher)
	return f
}

func (f *noteFixture) sentNote(t *testing.T, recipient models.User) models.SafeNote {
	t.Helper()
	f.users.put(recipient)

	amount := decimal.NewFromInt(50000)
	rate := decimal.NewFromInt(10)
	note := models.SafeNote{
		ID:              uuid.New(),
		SenderCompanyID: f.company.ID,
		RecipientID:     &recipient.ID,
		SafeAmount:      &amount,
		DiscountRate:    &rate,
		Status:          models.SafeNoteSent,
	}
	f.notes.put(note)
	return note
}

func TestCreateSafeNoteFansOutPerRecipient(t *testing.T) {
	f := newNoteFixture(t)
	amount := decimal.NewFromInt(25000)
	rate := decimal.NewFromInt(15)

	notes, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
		SenderCompanyID: f.company.ID,
		RecipientEmails: []string{"a@investors.test", "b@investors.test"},
		SafeAmount:      &amount,
		DiscountRate:    &rate,
	})
	require.NoError(t, err)
	require.Len(t, notes, 2)

	for _, note := range notes {
		assert.Equal(t, models.SafeNoteSent, note.Status)
		assert.NotNil(t, note.RecipientID)
	}
	assert.NotEqual(t, notes[0].RecipientID, notes[1].RecipientID)

	// One creation notification per note, plus one term-propagation pass.
	assert.Len(t, f.publisher.noteEventsOfType(events.NoteCreated), 2)
	assert.Len(t, f.publisher.termEvents, 1)
}

func TestCreateSafeNoteRecipientBindingIsIdempotent(t *testing.T) {
	f := newNoteFixture(t)
	amount := decimal.NewFromInt(25000)
	rate := decimal.NewFromInt(15)

	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
			SenderCompanyID: f.company.ID,
			RecipientEmails: []string{"angel@investors.test"},
			SafeAmount:      &amount,
			DiscountRate:    &rate,
		})
		require.NoError(t, err)
	}

	recipient, err := f.users.FindByEmail("angel@investors.test")
	require.NoError(t, err)

	count := 0
	for _, b := range f.companies.bindings {
		if b.UserID == recipient.ID && b.Role == models.RoleSafeRecipient {
			count++
		}
	}
	assert.Equal(t, 1, count, "two notes to one recipient must produce one binding")
}

func TestCreateSafeNoteRejectsMFNWithExplicitTerms(t *testing.T) {
	f := newNoteFixture(t)
	amount := decimal.NewFromInt(25000)
	rate := decimal.NewFromInt(15)

	_, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
		SenderCompanyID: f.company.ID,
		RecipientEmails: []string{"a@investors.test"},
		SafeAmount:      &amount,
		DiscountRate:    &rate,
		MFN:             true,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateSafeNoteRejectsUnverifiedIssuer(t *testing.T) {
	f := newNoteFixture(t)
	unverified := models.User{ID: uuid.New(), Email: "new@acme.test"}
	f.users.put(unverified)

	_, err := f.svc.CreateSafeNote(context.Background(), &unverified, dto.CreateSafeNoteRequest{
		SenderCompanyID: f.company.ID,
		RecipientEmails: []string{"a@investors.test"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestCreateSafeNoteRejectsAngelIssuer(t *testing.T) {
	f := newNoteFixture(t)
	angelCo := models.Company{ID: uuid.New(), Type: models.CompanyTypeAngel, OwnerID: f.owner.ID, Owner: f.owner}
	f.companies.put(angelCo)

	_, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
		SenderCompanyID: angelCo.ID,
		Draft:           true,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestCreateSafeNoteDraftNeedsNoRecipient(t *testing.T) {
	f := newNoteFixture(t)

	notes, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
		SenderCompanyID: f.company.ID,
		Draft:           true,
	})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.SafeNoteDraft, notes[0].Status)
	assert.Nil(t, notes[0].RecipientID)
	assert.Empty(t, f.publisher.noteEventsOfType(events.NoteCreated))
}

func TestCreateSafeNoteDropsTermSheetLinkForOutsideRecipient(t *testing.T) {
	f := newNoteFixture(t)
	onSheet := models.User{ID: uuid.New(), Email: "on@investors.test"}
	f.users.put(onSheet)

	sheet := models.TermSheet{
		ID:        uuid.New(),
		CompanyID: f.company.ID,
		Recipients: []models.TermSheetUser{
			{ID: uuid.New(), UserID: onSheet.ID, Status: models.TermSheetPending},
		},
	}
	f.sheets.put(sheet)

	amount := decimal.NewFromInt(10000)
	rate := decimal.NewFromInt(5)
	notes, err := f.svc.CreateSafeNote(context.Background(), &f.owner, dto.CreateSafeNoteRequest{
		SenderCompanyID: f.company.ID,
		RecipientEmails: []string{"on@investors.test", "off@investors.test"},
		TermSheetID:     &sheet.ID,
		SafeAmount:      &amount,
		DiscountRate:    &rate,
	})
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.NotNil(t, notes[0].TermSheetID, "recipient on the sheet keeps the link")
	assert.Nil(t, notes[1].TermSheetID, "recipient off the sheet loses the link silently")
}

func TestUpdateSafeNoteRejectsNonDraft(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	_, err := f.svc.UpdateSafeNote(context.Background(), note.ID, dto.UpdateSafeNoteRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestUpdateSafeNoteFinalizeRequiresRecipient(t *testing.T) {
	f := newNoteFixture(t)
	amount := decimal.NewFromInt(10000)
	rate := decimal.NewFromInt(5)
	draft := models.SafeNote{
		ID:              uuid.New(),
		SenderCompanyID: f.company.ID,
		SafeAmount:      &amount,
		DiscountRate:    &rate,
		Status:          models.SafeNoteDraft,
	}
	f.notes.put(draft)

	_, err := f.svc.UpdateSafeNote(context.Background(), draft.ID, dto.UpdateSafeNoteRequest{
		NotDraftAnymore: true,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	email := "angel@investors.test"
	updated, err := f.svc.UpdateSafeNote(context.Background(), draft.ID, dto.UpdateSafeNoteRequest{
		NotDraftAnymore: true,
		RecipientEmail:  &email,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SafeNoteSent, updated.Status)
}

func TestSignSafeNoteGuardsRoles(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)
	stranger := uuid.New()

	req := dto.SignSafeNoteRequest{SignAs: "SENDER", Name: "X", Signature: []byte{1}}

	// Recipient cannot sign as sender, stranger cannot sign at all.
	_, err := f.svc.SignSafeNote(context.Background(), recipient.ID, note.ID, req)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	_, err = f.svc.SignSafeNote(context.Background(), stranger, note.ID, req)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	req.SignAs = "RECIPIENT"
	_, err = f.svc.SignSafeNote(context.Background(), f.owner.ID, note.ID, req)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestSignSafeNoteSignatureExclusivity(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	req := dto.SignSafeNoteRequest{SignAs: "SENDER", Name: "Founder", Signature: []byte{1}}
	_, err := f.svc.SignSafeNote(context.Background(), f.owner.ID, note.ID, req)
	require.NoError(t, err)

	_, err = f.svc.SignSafeNote(context.Background(), f.owner.ID, note.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRecipientSignFlipsStatusAndNotifiesTeam(t *testing.T) {
	f := newNoteFixture(t)
	teamMember := models.User{ID: uuid.New(), Email: "cfo@acme.test"}
	f.users.put(teamMember)
	f.companies.bind(f.company.ID, teamMember.ID, models.RoleTeamMember)

	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	signed, err := f.svc.SignSafeNote(context.Background(), recipient.ID, note.ID, dto.SignSafeNoteRequest{
		SignAs: "RECIPIENT", Name: "Angel", Signature: []byte{1},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SafeNoteSigned, signed.Status)
	assert.NotNil(t, signed.RecipientSignedAt)

	signedEvents := f.publisher.noteEventsOfType(events.NoteSigned)
	require.Len(t, signedEvents, 1)
	assert.Len(t, signedEvents[0].NotifyUserIDs, 2, "owner and team member each get notified")
	assert.Len(t, f.publisher.termEvents, 1)
}

func TestSignSafeNoteRejectsDraftAndTerminalStates(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}

	draft := f.sentNote(t, recipient)
	draft.Status = models.SafeNoteDraft
	f.notes.put(draft)

	declined := f.sentNote(t, recipient)
	declined.Status = models.SafeNoteDeclined
	f.notes.put(declined)

	req := dto.SignSafeNoteRequest{SignAs: "SENDER", Name: "Founder", Signature: []byte{1}}

	_, err := f.svc.SignSafeNote(context.Background(), f.owner.ID, draft.ID, req)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = f.svc.SignSafeNote(context.Background(), f.owner.ID, declined.ID, req)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestDeclineSafeNoteOnlyFromSent(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}

	note := f.sentNote(t, recipient)
	require.NoError(t, f.svc.DeclineSafeNote(context.Background(), recipient.ID, note.ID))

	stored, err := f.notes.FindByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SafeNoteDeclined, stored.Status)

	// Declining again is a conflict and leaves status unchanged.
	err = f.svc.DeclineSafeNote(context.Background(), recipient.ID, note.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	stored, err = f.notes.FindByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SafeNoteDeclined, stored.Status)
}

func TestDeclineSafeNoteRequiresRecipient(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	err := f.svc.DeclineSafeNote(context.Background(), f.owner.ID, note.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestAssignCompanyToSafeNote(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	angelCo := models.Company{ID: uuid.New(), Type: models.CompanyTypeAngel, OwnerID: recipient.ID}
	f.companies.put(angelCo)

	// A startup-type company cannot be assigned.
	err := f.svc.AssignCompanyToSafeNote(context.Background(), recipient.ID, note.ID, f.company.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	require.NoError(t, f.svc.AssignCompanyToSafeNote(context.Background(), recipient.ID, note.ID, angelCo.ID))

	// Assignment happens at most once.
	err = f.svc.AssignCompanyToSafeNote(context.Background(), recipient.ID, note.ID, angelCo.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestDeleteSafeNoteDraftIsHardAndSilent(t *testing.T) {
	f := newNoteFixture(t)
	draft := models.SafeNote{
		ID:              uuid.New(),
		SenderCompanyID: f.company.ID,
		Status:          models.SafeNoteDraft,
	}
	f.notes.put(draft)

	require.NoError(t, f.svc.DeleteSafeNote(context.Background(), f.owner.ID, draft.ID, ""))

	_, err := f.notes.FindByID(draft.ID)
	require.Error(t, err)
	assert.Empty(t, f.publisher.noteEvents)
}

func TestDeleteSafeNoteSentIsSoftWithNotification(t *testing.T) {
	f := newNoteFixture(t)
	recipient := models.User{ID: uuid.New(), Email: "angel@investors.test"}
	note := f.sentNote(t, recipient)

	require.NoError(t, f.svc.DeleteSafeNote(context.Background(), f.owner.ID, note.ID, "deal is off"))

	stored, err := f.notes.FindByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SafeNoteCancelled, stored.Status)

	deleted := f.publisher.noteEventsOfType(events.NoteDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, "deal is off", deleted[0].Message)
	assert.Equal(t, recipient.ID.String(), deleted[0].RecipientID)
}
