package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the gateway-facing lifecycle of a payment
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// CanTransitionTo reports whether the payment status machine allows s -> next.
// Allowed: pending -> processing -> succeeded | failed,
// pending|processing -> cancelled, succeeded -> refunded.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentProcessing || next == PaymentCancelled
	case PaymentProcessing:
		return next == PaymentSucceeded || next == PaymentFailed || next == PaymentCancelled
	case PaymentSucceeded:
		return next == PaymentRefunded
	}
	return false
}

// Payment currencies accepted on the wire
const (
	CurrencyEUR = "eur"
	CurrencyUSD = "usd"
	CurrencyGBP = "gbp"
)

// IsValidCurrency reports whether s is an accepted currency code.
func IsValidCurrency(s string) bool {
	return s == CurrencyEUR || s == CurrencyUSD || s == CurrencyGBP
}

// Payment method values accepted on the wire
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodApplePay     = "apple_pay"
	PaymentMethodGooglePay    = "google_pay"
)

// Refund reasons, passed through to the gateway unchanged
const (
	RefundReasonDuplicate           = "duplicate"
	RefundReasonFraudulent          = "fraudulent"
	RefundReasonRequestedByCustomer = "requested_by_customer"
)

// IsValidRefundReason reports whether s is a reason the gateway accepts.
func IsValidRefundReason(s string) bool {
	return s == RefundReasonDuplicate || s == RefundReasonFraudulent || s == RefundReasonRequestedByCustomer
}

// BillingInfo is the payer's billing details, stored as jsonb
type BillingInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// PaymentMetadata mirrors the metadata attached to the gateway intent
type PaymentMetadata struct {
	AppointmentType            string `json:"appointmentType,omitempty"`
	PractitionerSpecialization string `json:"practitionerSpecialization,omitempty"`
	PatientID                  string `json:"patientId,omitempty"`
	PractitionerID             string `json:"practitionerId,omitempty"`
}

// Payment references exactly one appointment, one patient, one practitioner.
// Invariant: PractitionerAmount + PlatformFee == Amount to the cent; the
// settlement package derives the practitioner amount by subtraction so the
// two sides can never drift.
type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment"`
	PatientID      uuid.UUID `gorm:"type:uuid;not null;index" json:"patient"`
	PractitionerID uuid.UUID `gorm:"type:uuid;not null;index" json:"practitioner"`

	Amount             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PlatformFee        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"platformFee"`
	PractitionerAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"practitionerAmount"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Status             PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod      string          `gorm:"type:varchar(20)" json:"paymentMethod,omitempty"`

	// Gateway references
	StripePaymentIntentID string `gorm:"type:varchar(100);index" json:"-"`
	StripeChargeID        string `gorm:"type:varchar(100)" json:"-"`
	StripeTransferID      string `gorm:"type:varchar(100)" json:"-"`
	StripeRefundID        string `gorm:"type:varchar(100)" json:"-"`
	StripeClientSecret    string `gorm:"type:varchar(255)" json:"-"`

	Billing  BillingInfo     `gorm:"type:jsonb;serializer:json" json:"billing"`
	Metadata PaymentMetadata `gorm:"type:jsonb;serializer:json" json:"metadata"`

	// Refund sub-record, only populated after a successful payment
	RefundAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"-"`
	RefundReason string           `gorm:"type:varchar(30)" json:"-"`
	RefundedAt   *time.Time       `json:"-"`
	RefundedBy   *uuid.UUID       `gorm:"type:uuid" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsSucceeded checks if the payment has been confirmed by the gateway
func (p *Payment) IsSucceeded() bool {
	return p.Status == PaymentSucceeded
}
