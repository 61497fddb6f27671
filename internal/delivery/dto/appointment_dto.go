package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PractitionerID  uuid.UUID           `json:"practitionerId" validate:"required"`
	AppointmentType string              `json:"appointmentType" validate:"required,oneof=presentiel teleconsultation domicile"`
	Date            string              `json:"date" validate:"required"`      // YYYY-MM-DD
	StartTime       string              `json:"startTime" validate:"required"` // HH:MM
	EndTime         string              `json:"endTime" validate:"required"`   // HH:MM
	Reason          string              `json:"reason" validate:"omitempty,max=500"`
	Location        *LocationDTO        `json:"location,omitempty"`
}

type UpdateAppointmentRequest struct {
	Date              string `json:"date,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	Reason            string `json:"reason,omitempty" validate:"omitempty,max=500"`
	PatientNotes      string `json:"patientNotes,omitempty" validate:"omitempty,max=1000"`
	PractitionerNotes string `json:"practitionerNotes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Response DTOs

type TimeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type LocationDTO struct {
	Type        string  `json:"type"`
	Street      string  `json:"street,omitempty"`
	City        string  `json:"city,omitempty"`
	PostalCode  string  `json:"postalCode,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	MeetingLink string  `json:"meetingLink,omitempty"`
}

type AppointmentNotesDTO struct {
	Patient      string `json:"patient,omitempty"`
	Practitioner string `json:"practitioner,omitempty"`
}

type AppointmentPaymentDTO struct {
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	Method        string     `json:"method,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type CancellationDTO struct {
	CancelledBy  *uuid.UUID `json:"cancelledBy,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	RefundAmount *float64   `json:"refundAmount,omitempty"`
}

type FollowUpDTO struct {
	IsRequired    bool       `json:"isRequired"`
	SuggestedDate *time.Time `json:"suggestedDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID              uuid.UUID             `json:"id"`
	Patient         uuid.UUID             `json:"patient"`
	Practitioner    uuid.UUID             `json:"practitioner"`
	AppointmentType string                `json:"appointmentType"`
	Status          string                `json:"status"`
	Date            string                `json:"date"`
	Duration        int                   `json:"duration"`
	TimeSlot        TimeSlotDTO           `json:"timeSlot"`
	Location        LocationDTO           `json:"location"`
	Reason          string                `json:"reason,omitempty"`
	Notes           AppointmentNotesDTO   `json:"notes"`
	Payment         AppointmentPaymentDTO `json:"payment"`
	Cancellation    *CancellationDTO      `json:"cancellation,omitempty"`
	FollowUp        FollowUpDTO           `json:"followUp"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
