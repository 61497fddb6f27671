package repository

import (
	"time"

	"mon-mentale-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindConflicts returns the active appointments of a practitioner on a
	// given day whose [start,end) time slot overlaps the requested window.
	// excludeID lets an appointment being rescheduled ignore its own slot.
	FindConflicts(db *gorm.DB, practitionerID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
