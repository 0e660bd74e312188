package repositories

import (
	"errors"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TermSheetRepository interface {
	// FindByID loads the sheet with its recipient rows.
	FindByID(id uuid.UUID) (*models.TermSheet, error)
	FindRecipientRow(sheetID, userID uuid.UUID) (*models.TermSheetUser, error)
	// Transactional methods
	CreateInTx(tx *gorm.DB, sheet *models.TermSheet) error
	SaveRecipientInTx(tx *gorm.DB, row *models.TermSheetUser) error
}

type termSheetRepository struct {
	db *gorm.DB
}

func NewTermSheetRepository(db *gorm.DB) TermSheetRepository {
	return &termSheetRepository{db: db}
}

func (r *termSheetRepository) FindByID(id uuid.UUID) (*models.TermSheet, error) {
	var sheet models.TermSheet
	if err := r.db.Preload("Recipients").First(&sheet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *termSheetRepository) FindRecipientRow(sheetID, userID uuid.UUID) (*models.TermSheetUser, error) {
	var row models.TermSheetUser
	err := r.db.Where("\"termSheetId\" = ? AND \"userId\" = ?", sheetID, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *termSheetRepository) CreateInTx(tx *gorm.DB, sheet *models.TermSheet) error {
	return tx.Create(sheet).Error
}

func (r *termSheetRepository) SaveRecipientInTx(tx *gorm.DB, row *models.TermSheetUser) error {
	return tx.Save(row).Error
}
