package repository

import (
	"mon-mentale-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PractitionerRepository interface {
	Create(db *gorm.DB, practitioner *entity.Practitioner) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Practitioner, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Practitioner, error)
	// FindByIDForUpdate locks the practitioner row for the duration of the
	// surrounding transaction; used to serialize booking conflict checks.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Practitioner, error)
	FindAll(db *gorm.DB, filter *entity.PractitionerFilter) ([]entity.Practitioner, int64, error)
	FindNearby(db *gorm.DB, latitude, longitude float64, maxDistanceMeters int) ([]entity.Practitioner, error)
	Update(db *gorm.DB, practitioner *entity.Practitioner) error
}
