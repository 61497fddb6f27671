package repository

import (
	"mon-mentale-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Payment, error)
	FindByPaymentIntentID(db *gorm.DB, intentID string) (*entity.Payment, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Payment, error)
	Update(db *gorm.DB, payment *entity.Payment) error
}
