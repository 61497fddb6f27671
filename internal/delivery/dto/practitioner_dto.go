package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AddressDTO struct {
	Street      string          `json:"street,omitempty"`
	City        string          `json:"city,omitempty"`
	PostalCode  string          `json:"postalCode,omitempty"`
	Country     string          `json:"country,omitempty"`
	Coordinates *CoordinatesDTO `json:"coordinates,omitempty"`
}

type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PricesDTO struct {
	Consultation     float64 `json:"consultation"`
	Teleconsultation float64 `json:"teleconsultation,omitempty"`
	Domicile         float64 `json:"domicile,omitempty"`
}

type TimeRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityDTO struct {
	Monday    []TimeRangeDTO `json:"monday,omitempty"`
	Tuesday   []TimeRangeDTO `json:"tuesday,omitempty"`
	Wednesday []TimeRangeDTO `json:"wednesday,omitempty"`
	Thursday  []TimeRangeDTO `json:"thursday,omitempty"`
	Friday    []TimeRangeDTO `json:"friday,omitempty"`
	Saturday  []TimeRangeDTO `json:"saturday,omitempty"`
	Sunday    []TimeRangeDTO `json:"sunday,omitempty"`
}

type ProfessionalInfoDTO struct {
	LicenseNumber  string   `json:"licenseNumber"`
	University     string   `json:"university,omitempty"`
	GraduationYear int      `json:"graduationYear,omitempty"`
	Experience     int      `json:"experience"`
	Languages      []string `json:"languages,omitempty"`
	Description    string   `json:"description,omitempty"`
	Approach       string   `json:"approach,omitempty"`
}

type PracticeDTO struct {
	Address              AddressDTO      `json:"address"`
	ConsultationTypes    []string        `json:"consultationTypes"`
	Prices               PricesDTO       `json:"prices"`
	Availability         AvailabilityDTO `json:"availability"`
	ConsultationDuration int             `json:"consultationDuration"`
	BreakDuration        int             `json:"breakDuration"`
}

type CreatePractitionerRequest struct {
	UserID          uuid.UUID           `json:"userId" validate:"required"`
	Specializations []string            `json:"specializations" validate:"required,min=1"`
	ProfessionalInfo ProfessionalInfoDTO `json:"professionalInfo" validate:"required"`
	Practice        PracticeDTO         `json:"practice" validate:"required"`
}

type UpdatePractitionerRequest struct {
	Specializations  []string             `json:"specializations,omitempty"`
	ProfessionalInfo *ProfessionalInfoDTO `json:"professionalInfo,omitempty"`
	Practice         *PracticeDTO         `json:"practice,omitempty"`
	IsActive         *bool                `json:"isActive,omitempty"`
}

// Response DTOs

type VerificationDTO struct {
	IsVerified bool       `json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

type StatisticsDTO struct {
	TotalAppointments int     `json:"totalAppointments"`
	TotalPatients     int     `json:"totalPatients"`
	AverageRating     float64 `json:"averageRating"`
	TotalReviews      int     `json:"totalReviews"`
}

type PractitionerResponse struct {
	ID               uuid.UUID           `json:"id"`
	User             *UserResponse       `json:"user,omitempty"`
	Specializations  []string            `json:"specializations"`
	ProfessionalInfo ProfessionalInfoDTO `json:"professionalInfo"`
	Practice         PracticeDTO         `json:"practice"`
	Verification     VerificationDTO     `json:"verification"`
	Statistics       StatisticsDTO       `json:"statistics"`
	StripeAccountID  string              `json:"stripeAccountId,omitempty"`
	IsActive         bool                `json:"isActive"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// PractitionerListResponse mirrors the paging envelope the clients already
// parse on GET /api/practitioners.
type PractitionerListResponse struct {
	Practitioners []PractitionerResponse `json:"practitioners"`
	TotalPages    int                    `json:"totalPages"`
	CurrentPage   int                    `json:"currentPage"`
	Total         int64                  `json:"total"`
}
