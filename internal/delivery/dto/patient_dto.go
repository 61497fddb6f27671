package dto

import (
	"time"

	"github.com/google/uuid"
)

type PatientProfileDTO struct {
	FirstName string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type UpdatePatientRequest struct {
	Profile *PatientProfileDTO `json:"profile,omitempty"`
}

type PatientResponse struct {
	ID         uuid.UUID         `json:"id"`
	Email      string            `json:"email"`
	Profile    PatientProfileDTO `json:"profile"`
	IsVerified bool              `json:"isVerified"`
	CreatedAt  time.Time         `json:"createdAt"`
}
