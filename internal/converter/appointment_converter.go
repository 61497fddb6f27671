package converter

import (
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to the wire shape
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		Patient:         appointment.PatientID,
		Practitioner:    appointment.PractitionerID,
		AppointmentType: string(appointment.Type),
		Status:          string(appointment.Status),
		Date:            appointment.Date.Format("2006-01-02"),
		Duration:        appointment.Duration,
		TimeSlot: dto.TimeSlotDTO{
			Start: appointment.TimeSlotStart,
			End:   appointment.TimeSlotEnd,
		},
		Location: dto.LocationDTO{
			Type:        appointment.Location.Type,
			Street:      appointment.Location.Street,
			City:        appointment.Location.City,
			PostalCode:  appointment.Location.PostalCode,
			Latitude:    appointment.Location.Latitude,
			Longitude:   appointment.Location.Longitude,
			MeetingLink: appointment.Location.MeetingLink,
		},
		Reason: appointment.Reason,
		Notes: dto.AppointmentNotesDTO{
			Patient:      appointment.PatientNotes,
			Practitioner: appointment.PractitionerNotes,
		},
		Payment: dto.AppointmentPaymentDTO{
			Amount:        appointment.Price.InexactFloat64(),
			Status:        appointment.PaymentStatus,
			Method:        appointment.PaymentMethod,
			TransactionID: appointment.TransactionID,
			PaidAt:        appointment.PaidAt,
		},
		FollowUp: dto.FollowUpDTO{
			IsRequired:    appointment.FollowUp.IsRequired,
			SuggestedDate: appointment.FollowUp.SuggestedDate,
			Notes:         appointment.FollowUp.Notes,
		},
		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}

	if appointment.CancelledAt != nil {
		cancellation := &dto.CancellationDTO{
			CancelledBy: appointment.CancelledBy,
			Reason:      appointment.CancellationReason,
			CancelledAt: appointment.CancelledAt,
		}
		if appointment.RefundAmount != nil {
			refund := appointment.RefundAmount.InexactFloat64()
			cancellation.RefundAmount = &refund
		}
		response.Cancellation = cancellation
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		if resp := AppointmentToResponse(&appointment); resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
