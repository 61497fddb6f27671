package repository

import (
	"errors"
	"time"

	"mon-mentale-api/internal/domain/entity"
	domainRepo "mon-mentale-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Practitioner").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Preload("Patient").Preload("Practitioner")

	if filter != nil {
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.PractitionerID != nil {
			query = query.Where("practitioner_id = ?", *filter.PractitionerID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	var appointments []entity.Appointment
	err := query.Order("date DESC, time_slot_start DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindConflicts implements the half-open overlap check: two slots
// [s1,e1) and [s2,e2) conflict iff s1 < e2 AND s2 < e1. Cancelled,
// completed and no_show appointments never occupy a slot.
func (r *appointmentRepository) FindConflicts(db *gorm.DB, practitionerID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	query := db.
		Where("practitioner_id = ?", practitionerID).
		Where("date = ?", date.Format("2006-01-02")).
		Where("status IN ?", entity.ActiveAppointmentStatuses).
		Where("time_slot_start < ? AND time_slot_end > ?", end, start)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var conflicts []entity.Appointment
	err := query.Find(&conflicts).Error
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Practitioner").Save(appointment).Error
}
