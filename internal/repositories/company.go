package repositories

import (
	"errors"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	FindByID(id uuid.UUID) (*models.Company, error)
	// FindMembership returns the binding of userID to companyID, if any.
	FindMembership(companyID, userID uuid.UUID) (*models.CompanyUser, error)
	// GetMemberUserIDs returns the user ids bound to the company with any of
	// the given roles.
	GetMemberUserIDs(companyID uuid.UUID, roles ...models.CompanyRole) ([]uuid.UUID, error)
	// Transactional methods
	// EnsureRecipientBindingInTx creates a SAFE_RECIPIENT binding unless the
	// user is already bound to the company in any role.
	EnsureRecipientBindingInTx(tx *gorm.DB, companyID, userID uuid.UUID) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindByID(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.Preload("Owner").First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindMembership(companyID, userID uuid.UUID) (*models.CompanyUser, error) {
	var binding models.CompanyUser
	err := r.db.Where("\"companyId\" = ? AND \"userId\" = ?", companyID, userID).First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

func (r *companyRepository) GetMemberUserIDs(companyID uuid.UUID, roles ...models.CompanyRole) ([]uuid.UUID, error) {
	var bindings []models.CompanyUser
	query := r.db.Where("\"companyId\" = ?", companyID)
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	}
	if err := query.Find(&bindings).Error; err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		userIDs = append(userIDs, b.UserID)
	}
	return userIDs, nil
}

func (r *companyRepository) EnsureRecipientBindingInTx(tx *gorm.DB, companyID, userID uuid.UUID) error {
	binding := models.CompanyUser{
		CompanyID:    companyID,
		UserID:       userID,
		Role:         models.RoleSafeRecipient,
		InviteStatus: models.InviteAccepted,
	}
	// FirstOrCreate keyed on (companyId, userId) keeps the binding idempotent:
	// a second note to the same recipient must not create a second row.
	return tx.Where(models.CompanyUser{CompanyID: companyID, UserID: userID}).
		Attrs(binding).
		FirstOrCreate(&models.CompanyUser{}).Error
}
