package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user role. Values are stored as-is in the role column
// and must match what the existing clients send.
type Role string

const (
	RolePatient     Role = "patient"
	RolePsychologue Role = "psychologue"
	RolePsychiatre  Role = "psychiatre"
	RoleAdmin       Role = "admin"
)

// IsValidRole reports whether s is one of the known role values.
func IsValidRole(s string) bool {
	switch Role(s) {
	case RolePatient, RolePsychologue, RolePsychiatre, RoleAdmin:
		return true
	}
	return false
}

// User represents the centralized account table
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	Role       Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone      string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Practitioner *Practitioner `gorm:"foreignKey:UserID" json:"practitioner,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsPractitioner checks if the user holds one of the practitioner roles
func (u *User) IsPractitioner() bool {
	return u.Role == RolePsychologue || u.Role == RolePsychiatre
}

// IsAdmin checks if the user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
