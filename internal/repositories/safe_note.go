package repositories

import (
	"time"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SafeNoteRepository interface {
	FindByID(id uuid.UUID) (*models.SafeNote, error)
	// FindSignedByCompany returns all SIGNED notes issued by the company,
	// the input of the MFN max-terms computation.
	FindSignedByCompany(companyID uuid.UUID) ([]models.SafeNote, error)
	// Transactional methods
	CreateInTx(tx *gorm.DB, note *models.SafeNote) error
	SaveInTx(tx *gorm.DB, note *models.SafeNote) error
	FindByIDInTx(tx *gorm.DB, id uuid.UUID) (*models.SafeNote, error)
	// SetSignatureInTx fills a signature slot only if it is still empty.
	// Returns false when the slot was already taken (lost race or re-sign).
	SetSignatureInTx(tx *gorm.DB, noteID uuid.UUID, role models.SignatureRole, url, name string, signedAt time.Time) (bool, error)
	SetStatusInTx(tx *gorm.DB, noteID uuid.UUID, status models.SafeNoteStatus) error
	// AttachPaymentInTx links a payment to the note only if no payment is in
	// progress and the note is unpaid. Returns false on a lost race.
	AttachPaymentInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) (bool, error)
	// DetachPaymentInTx unlinks the payment and clears paid, so a reversed
	// payment never leaves the note looking settled.
	DetachPaymentInTx(tx *gorm.DB, noteID uuid.UUID) error
	// MarkPaidInTx flips paid and status to SIGNED and binds the payment.
	MarkPaidInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) error
	HardDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error
	SoftDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error
}

type safeNoteRepository struct {
	db *gorm.DB
}

func NewSafeNoteRepository(db *gorm.DB) SafeNoteRepository {
	return &safeNoteRepository{db: db}
}

func (r *safeNoteRepository) FindByID(id uuid.UUID) (*models.SafeNote, error) {
	var note models.SafeNote
	if err := r.db.First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *safeNoteRepository) FindSignedByCompany(companyID uuid.UUID) ([]models.SafeNote, error) {
	var notes []models.SafeNote
	err := r.db.
		Where("\"senderCompanyId\" = ? AND status = ?", companyID, models.SafeNoteSigned).
		Find(&notes).Error
	return notes, err
}

func (r *safeNoteRepository) CreateInTx(tx *gorm.DB, note *models.SafeNote) error {
	return tx.Create(note).Error
}

func (r *safeNoteRepository) SaveInTx(tx *gorm.DB, note *models.SafeNote) error {
	return tx.Save(note).Error
}

func (r *safeNoteRepository) FindByIDInTx(tx *gorm.DB, id uuid.UUID) (*models.SafeNote, error) {
	var note models.SafeNote
	if err := tx.First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *safeNoteRepository) SetSignatureInTx(tx *gorm.DB, noteID uuid.UUID, role models.SignatureRole, url, name string, signedAt time.Time) (bool, error) {
	var res *gorm.DB
	if role == models.SignAsSender {
		res = tx.Model(&models.SafeNote{}).
			Where("id = ? AND \"senderSignatureUrl\" IS NULL", noteID).
			Updates(map[string]interface{}{
				"senderSignatureUrl": url,
				"senderSignName":     name,
				"senderSignedAt":     signedAt,
			})
	} else {
		res = tx.Model(&models.SafeNote{}).
			Where("id = ? AND \"recipientSignatureUrl\" IS NULL", noteID).
			Updates(map[string]interface{}{
				"recipientSignatureUrl": url,
				"recipientSignName":     name,
				"recipientSignedAt":     signedAt,
			})
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *safeNoteRepository) SetStatusInTx(tx *gorm.DB, noteID uuid.UUID, status models.SafeNoteStatus) error {
	return tx.Model(&models.SafeNote{}).Where("id = ?", noteID).
		Update("status", status).Error
}

func (r *safeNoteRepository) AttachPaymentInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) (bool, error) {
	res := tx.Model(&models.SafeNote{}).
		Where("id = ? AND \"paymentId\" IS NULL AND paid = ?", noteID, false).
		Update("paymentId", paymentID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *safeNoteRepository) DetachPaymentInTx(tx *gorm.DB, noteID uuid.UUID) error {
	return tx.Model(&models.SafeNote{}).Where("id = ?", noteID).
		Updates(map[string]interface{}{
			"paymentId": nil,
			"paid":      false,
		}).Error
}

func (r *safeNoteRepository) MarkPaidInTx(tx *gorm.DB, noteID, paymentID uuid.UUID) error {
	return tx.Model(&models.SafeNote{}).Where("id = ?", noteID).
		Updates(map[string]interface{}{
			"paid":      true,
			"status":    models.SafeNoteSigned,
			"paymentId": paymentID,
		}).Error
}

func (r *safeNoteRepository) HardDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error {
	return tx.Unscoped().Delete(&models.SafeNote{}, "id = ?", noteID).Error
}

func (r *safeNoteRepository) SoftDeleteInTx(tx *gorm.DB, noteID uuid.UUID) error {
	if err := tx.Model(&models.SafeNote{}).Where("id = ?", noteID).
		Update("status", models.SafeNoteCancelled).Error; err != nil {
		return err
	}
	return tx.Delete(&models.SafeNote{}, "id = ?", noteID).Error
}
