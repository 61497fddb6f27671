package usecase

import (
	"testing"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestApplyPractitionerUpdateKeepsAvailability(t *testing.T) {
	practitioner := &entity.Practitioner{
		City:   "Lyon",
		Prices: entity.ConsultationPrices{Consultation: 60},
		Availability: entity.WeeklyAvailability{
			Monday: []entity.TimeRange{{Start: "09:00", End: "12:00"}},
			Friday: []entity.TimeRange{{Start: "14:00", End: "18:00"}},
		},
	}

	// A price-only update must not wipe the stored weekly windows
	applyPractitionerUpdate(practitioner, &dto.UpdatePractitionerRequest{
		Practice: &dto.PracticeDTO{
			Prices: dto.PricesDTO{Consultation: 70, Teleconsultation: 55},
		},
	})

	assert.Equal(t, 70.0, practitioner.Prices.Consultation)
	assert.Equal(t, 55.0, practitioner.Prices.Teleconsultation)
	assert.Equal(t, []entity.TimeRange{{Start: "09:00", End: "12:00"}}, practitioner.Availability.Monday)
	assert.Equal(t, []entity.TimeRange{{Start: "14:00", End: "18:00"}}, practitioner.Availability.Friday)
	assert.Equal(t, "Lyon", practitioner.City)
}

func TestApplyPractitionerUpdateReplacesAvailability(t *testing.T) {
	practitioner := &entity.Practitioner{
		Availability: entity.WeeklyAvailability{
			Monday: []entity.TimeRange{{Start: "09:00", End: "12:00"}},
		},
	}

	applyPractitionerUpdate(practitioner, &dto.UpdatePractitionerRequest{
		Practice: &dto.PracticeDTO{
			Availability: dto.AvailabilityDTO{
				Tuesday: []dto.TimeRangeDTO{{Start: "10:00", End: "16:00"}},
			},
		},
	})

	// Supplying windows replaces the whole week
	assert.Empty(t, practitioner.Availability.Monday)
	assert.Equal(t, []entity.TimeRange{{Start: "10:00", End: "16:00"}}, practitioner.Availability.Tuesday)
}

func TestApplyPractitionerUpdatePartialFields(t *testing.T) {
	active := false
	practitioner := &entity.Practitioner{
		LicenseNumber: "ADELI-123",
		Description:   "Thérapie cognitive",
		IsActive:      true,
	}

	applyPractitionerUpdate(practitioner, &dto.UpdatePractitionerRequest{
		ProfessionalInfo: &dto.ProfessionalInfoDTO{Description: "Thérapie comportementale"},
		IsActive:         &active,
	})

	assert.Equal(t, "ADELI-123", practitioner.LicenseNumber)
	assert.Equal(t, "Thérapie comportementale", practitioner.Description)
	assert.False(t, practitioner.IsActive)
}
