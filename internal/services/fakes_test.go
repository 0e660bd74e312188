package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/payments"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/redisclient"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTx runs the function directly; the fakes below are their own source of
// truth, so there is nothing to roll back.
type fakeTx struct{}

func (fakeTx) Transaction(fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fn(nil)
}

type fakeNoteRepo struct {
	notes map[uuid.UUID]models.SafeNote
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]models.SafeNote)}
}

func (r *fakeNoteRepo) put(note models.SafeNote) {
	r.notes[note.ID] = note
}

func (r *fakeNoteRepo) FindByID(id uuid.UUID) (*models.SafeNote, error) {
	note, ok := r.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := note
	return &copy, nil
}

func (r *fakeNoteRepo) FindSignedByCompany(companyID uuid.UUID) ([]models.SafeNote, error) {
	var out []models.SafeNote
	for _, note := range r.notes {
		if note.SenderCompanyID == companyID && note.Status == models.SafeNoteSigned {
			out = append(out, note)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) CreateInTx(tx *gorm.DB, note *models.SafeNote) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now()
	r.notes[note.ID] = *note
	return nil
}

func (r *fakeNoteRepo) SaveInTx(tx *gorm.DB, note *models.SafeNote) error {
	r.notes[note.ID] = *note
	return nil
}

func (r *fakeNoteRepo) FindByIDInTx(tx *gorm.DB, id uuid.UUID) (*models.SafeNote, error) {
	return r.FindByID(id)
}

func (r *fakeNoteRepo) SetSignatureInTx(tx *gorm.DB, noteID uuid.UUID, role models.SignatureRole, url, name string, signedAt time.Time) (bool, error) {
	note, ok := r.notes[noteID]
	if !ok {
		return false, nil
	}
	if role == models.SignAsSender {
		if note.SenderSignatureURL != nil {
			return false, nil
		}
		note.SenderSignatureURL = &url
		note.SenderSignName = &name
		note.SenderSignedAt = &signedAt
	} else {
		if note.RecipientSignatureURL != nil {
			return false, nil
		}
		note.RecipientSignatureURL = &url
		note.RecipientSignName = &name
		note.RecipientSignedAt = &signedAt
	}
	r.notes[noteID] = note
	return true, nil
}

func (r *fakeNoteRepo) SetStatusInTx(tx *gorm.DB, noteID uuid.UUID, status models.SafeNoteStatus) error {
	note := r.notes[noteID]
	note.Status = status
	r.notes[noteID] = note
	return nil
}

func (r *fakeNoteRepo) AttachPaymentInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) (bool, error) {
	note, ok := r.notes[noteID]
	if !ok || note.PaymentID != nil || note.Paid {
		return false, nil
	}
	note.PaymentID = &paymentID
	r.notes[noteID] = note
	return true, nil
}

func (r *fakeNoteRepo) DetachPaymentInTx(tx *gorm.DB, noteID uuid.UUID) error {
	note := r.notes[noteID]
	note.PaymentID = nil
	note.Paid = false
	r.notes[noteID] = note
	return nil
}

func (r *fakeNoteRepo) MarkPaidInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) error {
	note := r.notes[noteID]
	note.Paid = true
	note.Status = models.SafeNoteSigned
	note.PaymentID = &paymentID
	r.notes[noteID] = note
	return nil
}

func (r *fakeNoteRepo) HardDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error {
	delete(r.notes, noteID)
	return nil
}

func (r *fakeNoteRepo) SoftDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error {
	note := r.notes[noteID]
	note.Status = models.SafeNoteCancelled
	note.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.notes[noteID] = note
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (r *fakeUserRepo) put(user models.User) {
	r.users[user.ID] = user
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := user
	return &copy, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copy := user
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Save(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) CreateInTx(tx *gorm.DB, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) SetStripeCustomerInTx(tx *gorm.DB, userID uuid.UUID, customerID string) error {
	user := r.users[userID]
	user.StripeCustomerID = &customerID
	r.users[userID] = user
	return nil
}

type fakeCompanyRepo struct {
	companies map[uuid.UUID]models.Company
	bindings  []models.CompanyUser
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]models.Company)}
}

func (r *fakeCompanyRepo) put(company models.Company) {
	r.companies[company.ID] = company
}

func (r *fakeCompanyRepo) bind(companyID, userID uuid.UUID, role models.CompanyRole) {
	r.bindings = append(r.bindings, models.CompanyUser{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
	})
}

func (r *fakeCompanyRepo) FindByID(id uuid.UUID) (*models.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := company
	return &copy, nil
}

func (r *fakeCompanyRepo) FindMembership(companyID, userID uuid.UUID) (*models.CompanyUser, error) {
	for _, b := range r.bindings {
		if b.CompanyID == companyID && b.UserID == userID {
			copy := b
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) GetMemberUserIDs(companyID uuid.UUID, roles ...models.CompanyRole) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, b := range r.bindings {
		if b.CompanyID != companyID {
			continue
		}
		if len(roles) == 0 {
			out = append(out, b.UserID)
			continue
		}
		for _, role := range roles {
			if b.Role == role {
				out = append(out, b.UserID)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCompanyRepo) EnsureRecipientBindingInTx(tx *gorm.DB, companyID, userID uuid.UUID) error {
	for _, b := range r.bindings {
		if b.CompanyID == companyID && b.UserID == userID {
			return nil
		}
	}
	r.bind(companyID, userID, models.RoleSafeRecipient)
	return nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]models.Payment)}
}

func (r *fakePaymentRepo) FindByID(id uuid.UUID) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := payment
	return &copy, nil
}

func (r *fakePaymentRepo) FindByExternalID(externalID string) (*models.Payment, error) {
	for _, payment := range r.payments {
		if payment.ExternalID == externalID {
			copy := payment
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) CreateInTx(tx *gorm.DB, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) SetExternalIDInTx(tx *gorm.DB, paymentID uuid.UUID, externalID string) error {
	payment := r.payments[paymentID]
	payment.ExternalID = externalID
	r.payments[paymentID] = payment
	return nil
}

func (r *fakePaymentRepo) SetStatusInTx(tx *gorm.DB, paymentID uuid.UUID, status models.PaymentStatus) error {
	payment := r.payments[paymentID]
	payment.Status = status
	r.payments[paymentID] = payment
	return nil
}

type fakeTermSheetRepo struct {
	sheets map[uuid.UUID]models.TermSheet
}

func newFakeTermSheetRepo() *fakeTermSheetRepo {
	return &fakeTermSheetRepo{sheets: make(map[uuid.UUID]models.TermSheet)}
}

func (r *fakeTermSheetRepo) put(sheet models.TermSheet) {
	r.sheets[sheet.ID] = sheet
}

func (r *fakeTermSheetRepo) FindByID(id uuid.UUID) (*models.TermSheet, error) {
	sheet, ok := r.sheets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := sheet
	return &copy, nil
}

func (r *fakeTermSheetRepo) FindRecipientRow(sheetID, userID uuid.UUID) (*models.TermSheetUser, error) {
	sheet, ok := r.sheets[sheetID]
	if !ok {
		return nil, nil
	}
	for _, row := range sheet.Recipients {
		if row.UserID == userID {
			copy := row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeTermSheetRepo) CreateInTx(tx *gorm.DB, sheet *models.TermSheet) error {
	if sheet.ID == uuid.Nil {
		sheet.ID = uuid.New()
	}
	for i := range sheet.Recipients {
		if sheet.Recipients[i].ID == uuid.Nil {
			sheet.Recipients[i].ID = uuid.New()
		}
		sheet.Recipients[i].TermSheetID = sheet.ID
	}
	r.sheets[sheet.ID] = *sheet
	return nil
}

func (r *fakeTermSheetRepo) SaveRecipientInTx(tx *gorm.DB, row *models.TermSheetUser) error {
	sheet := r.sheets[row.TermSheetID]
	for i := range sheet.Recipients {
		if sheet.Recipients[i].ID == row.ID {
			sheet.Recipients[i] = *row
		}
	}
	r.sheets[row.TermSheetID] = sheet
	return nil
}

// fakePublisher records every dispatched event.
type fakePublisher struct {
	noteEvents    []events.NoteEvent
	paymentEvents []events.PaymentEvent
	termEvents    []events.TermEvent
}

func (p *fakePublisher) PublishNoteEvent(ctx context.Context, event *events.NoteEvent) error {
	p.noteEvents = append(p.noteEvents, *event)
	return nil
}

func (p *fakePublisher) PublishPaymentEvent(ctx context.Context, event *events.PaymentEvent) error {
	p.paymentEvents = append(p.paymentEvents, *event)
	return nil
}

func (p *fakePublisher) PublishTermEvent(ctx context.Context, event *events.TermEvent) error {
	p.termEvents = append(p.termEvents, *event)
	return nil
}

func (p *fakePublisher) noteEventsOfType(eventType string) []events.NoteEvent {
	var out []events.NoteEvent
	for _, e := range p.noteEvents {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (p *fakePublisher) paymentEventsOfType(eventType string) []events.PaymentEvent {
	var out []events.PaymentEvent
	for _, e := range p.paymentEvents {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeTermsCache records cache traffic in memory.
type fakeTermsCache struct {
	entries       map[uuid.UUID]*redisclient.CachedTerms
	invalidations int
	stores        int
}

func newFakeTermsCache() *fakeTermsCache {
	return &fakeTermsCache{entries: make(map[uuid.UUID]*redisclient.CachedTerms)}
}

func (c *fakeTermsCache) Get(ctx context.Context, companyID uuid.UUID) (*redisclient.CachedTerms, error) {
	return c.entries[companyID], nil
}

func (c *fakeTermsCache) Store(ctx context.Context, companyID uuid.UUID, terms *redisclient.CachedTerms) error {
	c.stores++
	c.entries[companyID] = terms
	return nil
}

func (c *fakeTermsCache) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	c.invalidations++
	delete(c.entries, companyID)
	return nil
}

type fakeStorage struct {
	saved map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, data []byte, key string) (string, error) {
	s.saved[key] = data
	return "mem://" + key, nil
}

// fakeProvider scripts the external payment rail.
type fakeProvider struct {
	authorization payments.Authorization
	authorizeErr  error
	charge        payments.Charge
	chargeErr     error
	chargeCalls   int
}

func (p *fakeProvider) Authorize(ctx context.Context, req payments.AuthorizeRequest) (*payments.Authorization, error) {
	if p.authorizeErr != nil {
		return nil, p.authorizeErr
	}
	auth := p.authorization
	return &auth, nil
}

func (p *fakeProvider) Charge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error) {
	p.chargeCalls++
	if p.chargeErr != nil {
		return nil, p.chargeErr
	}
	charge := p.charge
	return &charge, nil
}

func (p *fakeProvider) Get(ctx context.Context, externalID string) (*payments.Charge, error) {
	charge := p.charge
	return &charge, nil
}

var errProviderDown = fmt.Errorf("provider unreachable")
