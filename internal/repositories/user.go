package repositories

import (
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uuid.UUID) (*models.User, error)
	// FindByEmail matches the address exactly, case-sensitive.
	FindByEmail(email string) (*models.User, error)
	Save(user *models.User) error
	// Transactional methods
	CreateInTx(tx *gorm.DB, user *models.User) error
	SetStripeCustomerInTx(tx *gorm.DB, userID uuid.UUID, customerID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) CreateInTx(tx *gorm.DB, user *models.User) error {
	return tx.Create(user).Error
}

func (r *userRepository) SetStripeCustomerInTx(tx *gorm.DB, userID uuid.UUID, customerID string) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).
		Update("stripeCustomerId", customerID).Error
}
