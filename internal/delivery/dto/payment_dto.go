package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateIntentRequest struct {
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	AppointmentID uuid.UUID `json:"appointmentId" validate:"required"`
}

type RefundRequest struct {
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason string   `json:"reason,omitempty" validate:"omitempty,oneof=duplicate fraudulent requested_by_customer"`
}

// Response DTOs

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type StripeRefsDTO struct {
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ChargeID        string `json:"chargeId,omitempty"`
	TransferID      string `json:"transferId,omitempty"`
	RefundID        string `json:"refundId,omitempty"`
}

type RefundDTO struct {
	Amount     float64    `json:"amount"`
	Reason     string     `json:"reason,omitempty"`
	RefundedAt *time.Time `json:"refundedAt,omitempty"`
	RefundedBy *uuid.UUID `json:"refundedBy,omitempty"`
}

type PaymentMetadataDTO struct {
	AppointmentType            string `json:"appointmentType,omitempty"`
	PractitionerSpecialization string `json:"practitionerSpecialization,omitempty"`
	PatientID                  string `json:"patientId,omitempty"`
	PractitionerID             string `json:"practitionerId,omitempty"`
}

type PaymentResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Appointment        uuid.UUID          `json:"appointment"`
	Patient            uuid.UUID          `json:"patient"`
	Practitioner       uuid.UUID          `json:"practitioner"`
	Amount             float64            `json:"amount"`
	PlatformFee        float64            `json:"platformFee"`
	PractitionerAmount float64            `json:"practitionerAmount"`
	Currency           string             `json:"currency"`
	Status             string             `json:"status"`
	PaymentMethod      string             `json:"paymentMethod,omitempty"`
	Stripe             StripeRefsDTO      `json:"stripe"`
	Refund             *RefundDTO         `json:"refund,omitempty"`
	Metadata           PaymentMetadataDTO `json:"metadata"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

type ConnectedAccountResponse struct {
	AccountID     string `json:"accountId"`
	OnboardingURL string `json:"onboardingUrl"`
}

type AccountStatusResponse struct {
	ChargesEnabled   bool `json:"chargesEnabled"`
	PayoutsEnabled   bool `json:"payoutsEnabled"`
	DetailsSubmitted bool `json:"detailsSubmitted"`
}
