package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email         string    `gorm:"size:255;not null;unique" json:"email"`
	FullName      string    `gorm:"size:255" json:"fullName"`
	PasswordHash  string    `gorm:"size:255" json:"-"`
	EmailVerified bool      `gorm:"default:false;column:emailVerified" json:"emailVerified"`
	// Customer id at the card processor, set lazily on first card payment.
	StripeCustomerID *string   `gorm:"size:64;column:stripeCustomerId" json:"-"`
	CreatedAt        time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (User) TableName() string {
	return "Users"
}
