package repositories

import (
	"errors"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	FindByID(id uuid.UUID) (*models.Payment, error)
	// FindByExternalID looks a payment up by processor intent/transfer id.
	// Returns nil, nil when no local payment matches (foreign webhook).
	FindByExternalID(externalID string) (*models.Payment, error)
	// Transactional methods
	CreateInTx(tx *gorm.DB, payment *models.Payment) error
	SetExternalIDInTx(tx *gorm.DB, paymentID uuid.UUID, externalID string) error
	SetStatusInTx(tx *gorm.DB, paymentID uuid.UUID, status models.PaymentStatus) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByExternalID(externalID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("\"externalId\" = ?", externalID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) CreateInTx(tx *gorm.DB, payment *models.Payment) error {
	return tx.Create(payment).Error
}

func (r *paymentRepository) SetExternalIDInTx(tx *gorm.DB, paymentID uuid.UUID, externalID string) error {
	return tx.Model(&models.Payment{}).Where("id = ?", paymentID).
		Update("externalId", externalID).Error
}

func (r *paymentRepository) SetStatusInTx(tx *gorm.DB, paymentID uuid.UUID, status models.PaymentStatus) error {
	return tx.Model(&models.Payment{}).Where("id = ?", paymentID).
		Update("status", status).Error
}
