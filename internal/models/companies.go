package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyType string

const (
	// CompanyTypeStartup issues SAFE notes.
	CompanyTypeStartup CompanyType = "startup"
	// CompanyTypeAngel is an investor-side company that may be assigned
	// as the recipient company of a note.
	CompanyTypeAngel CompanyType = "angel"
)

type CompanyRole string

const (
	RoleOwner         CompanyRole = "OWNER"
	RoleTeamMember    CompanyRole = "TEAM_MEMBER"
	RoleSafeRecipient CompanyRole = "SAFE_RECIPIENT"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
)

type Company struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	Type      CompanyType `gorm:"size:32;not null" json:"type"`
	OwnerID   uuid.UUID   `gorm:"type:uuid;not null;column:ownerId" json:"ownerId"`
	CreatedAt time.Time   `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"column:updatedAt" json:"updatedAt"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (Company) TableName() string {
	return "Companies"
}

// CompanyUser binds a user to a company with a role. A recipient gets a
// SAFE_RECIPIENT binding the first time a note from that company reaches them.
type CompanyUser struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID    uuid.UUID    `gorm:"type:uuid;not null;column:companyId;index:idx_company_user,unique" json:"companyId"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;column:userId;index:idx_company_user,unique" json:"userId"`
	Role         CompanyRole  `gorm:"size:32;not null" json:"role"`
	InviteStatus InviteStatus `gorm:"size:32;not null;default:'PENDING';column:inviteStatus" json:"inviteStatus"`
	CreatedAt    time.Time    `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"column:updatedAt" json:"updatedAt"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (cu *CompanyUser) BeforeCreate(tx *gorm.DB) (err error) {
	if cu.ID == uuid.Nil {
		cu.ID = uuid.New()
	}
	return
}

func (CompanyUser) TableName() string {
	return "CompanyUsers"
}
