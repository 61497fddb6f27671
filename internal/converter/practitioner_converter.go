package converter

import (
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"

	"github.com/google/uuid"
)

// PractitionerToResponse converts a Practitioner entity to the nested wire
// shape the clients parse
func PractitionerToResponse(practitioner *entity.Practitioner) *dto.PractitionerResponse {
	if practitioner == nil {
		return nil
	}

	response := &dto.PractitionerResponse{
		ID:              practitioner.ID,
		Specializations: practitioner.Specializations,
		ProfessionalInfo: dto.ProfessionalInfoDTO{
			LicenseNumber:  practitioner.LicenseNumber,
			University:     practitioner.University,
			GraduationYear: practitioner.GraduationYear,
			Experience:     practitioner.Experience,
			Languages:      practitioner.Languages,
			Description:    practitioner.Description,
			Approach:       practitioner.Approach,
		},
		Practice: dto.PracticeDTO{
			Address: dto.AddressDTO{
				Street:     practitioner.Street,
				City:       practitioner.City,
				PostalCode: practitioner.PostalCode,
				Country:    practitioner.Country,
			},
			ConsultationTypes: practitioner.ConsultationTypes,
			Prices: dto.PricesDTO{
				Consultation:     practitioner.Prices.Consultation,
				Teleconsultation: practitioner.Prices.Teleconsultation,
				Domicile:         practitioner.Prices.Domicile,
			},
			Availability:         availabilityToDTO(practitioner.Availability),
			ConsultationDuration: practitioner.ConsultationDuration,
			BreakDuration:        practitioner.BreakDuration,
		},
		Verification: dto.VerificationDTO{
			IsVerified: practitioner.IsVerified,
			VerifiedAt: practitioner.VerifiedAt,
		},
		Statistics: dto.StatisticsDTO{
			TotalAppointments: practitioner.TotalAppointments,
			TotalPatients:     practitioner.TotalPatients,
			AverageRating:     practitioner.AverageRating,
			TotalReviews:      practitioner.TotalReviews,
		},
		StripeAccountID: practitioner.StripeAccountID,
		IsActive:        practitioner.IsActive,
		CreatedAt:       practitioner.CreatedAt,
		UpdatedAt:       practitioner.UpdatedAt,
	}

	if practitioner.Latitude != nil && practitioner.Longitude != nil {
		response.Practice.Address.Coordinates = &dto.CoordinatesDTO{
			Latitude:  *practitioner.Latitude,
			Longitude: *practitioner.Longitude,
		}
	}

	if practitioner.User.ID != uuid.Nil {
		response.User = UserToResponse(&practitioner.User)
	}

	return response
}

// PractitionersToResponses converts a slice of Practitioner entities
func PractitionersToResponses(practitioners []entity.Practitioner) []dto.PractitionerResponse {
	responses := make([]dto.PractitionerResponse, len(practitioners))
	for i, practitioner := range practitioners {
		if resp := PractitionerToResponse(&practitioner); resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

func availabilityToDTO(availability entity.WeeklyAvailability) dto.AvailabilityDTO {
	return dto.AvailabilityDTO{
		Monday:    timeRangesToDTO(availability.Monday),
		Tuesday:   timeRangesToDTO(availability.Tuesday),
		Wednesday: timeRangesToDTO(availability.Wednesday),
		Thursday:  timeRangesToDTO(availability.Thursday),
		Friday:    timeRangesToDTO(availability.Friday),
		Saturday:  timeRangesToDTO(availability.Saturday),
		Sunday:    timeRangesToDTO(availability.Sunday),
	}
}

func timeRangesToDTO(ranges []entity.TimeRange) []dto.TimeRangeDTO {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]dto.TimeRangeDTO, len(ranges))
	for i, r := range ranges {
		out[i] = dto.TimeRangeDTO{Start: r.Start, End: r.End}
	}
	return out
}

// AvailabilityFromDTO maps the request shape back into the entity
func AvailabilityFromDTO(availability dto.AvailabilityDTO) entity.WeeklyAvailability {
	return entity.WeeklyAvailability{
		Monday:    timeRangesFromDTO(availability.Monday),
		Tuesday:   timeRangesFromDTO(availability.Tuesday),
		Wednesday: timeRangesFromDTO(availability.Wednesday),
		Thursday:  timeRangesFromDTO(availability.Thursday),
		Friday:    timeRangesFromDTO(availability.Friday),
		Saturday:  timeRangesFromDTO(availability.Saturday),
		Sunday:    timeRangesFromDTO(availability.Sunday),
	}
}

func timeRangesFromDTO(ranges []dto.TimeRangeDTO) []entity.TimeRange {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]entity.TimeRange, len(ranges))
	for i, r := range ranges {
		out[i] = entity.TimeRange{Start: r.Start, End: r.End}
	}
	return out
}
