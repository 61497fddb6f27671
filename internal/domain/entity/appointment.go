package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// IsValidAppointmentStatus reports whether s is a known status value.
func IsValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows s -> next.
// Allowed: scheduled -> confirmed -> in_progress -> completed,
// plus scheduled|confirmed -> cancelled|no_show.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentScheduled:
		return next == AppointmentConfirmed || next == AppointmentCancelled || next == AppointmentNoShow
	case AppointmentConfirmed:
		return next == AppointmentInProgress || next == AppointmentCancelled || next == AppointmentNoShow
	case AppointmentInProgress:
		return next == AppointmentCompleted
	}
	return false
}

// ActiveAppointmentStatuses are the statuses that occupy a time slot for
// conflict checking purposes.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentInProgress,
}

// TimeSlotsOverlap reports whether [start1,end1) and [start2,end2) overlap
// under half-open semantics. Times are "HH:MM" strings, which compare
// correctly lexicographically.
func TimeSlotsOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// AppointmentLocation is the place where the consultation happens.
// Stored as a jsonb column.
type AppointmentLocation struct {
	Type        string  `json:"type"`
	Street      string  `json:"street,omitempty"`
	City        string  `json:"city,omitempty"`
	PostalCode  string  `json:"postalCode,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	MeetingLink string  `json:"meetingLink,omitempty"`
}

// AppointmentDocument is a file attached to the appointment
type AppointmentDocument struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// FollowUp captures whether a follow-up consultation is suggested
type FollowUp struct {
	IsRequired    bool       `json:"isRequired"`
	SuggestedDate *time.Time `json:"suggestedDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// Appointment payment sub-record statuses (distinct from the Payment row,
// which tracks the gateway flow).
const (
	AppointmentPaymentPending  = "pending"
	AppointmentPaymentPaid     = "paid"
	AppointmentPaymentFailed   = "failed"
	AppointmentPaymentRefunded = "refunded"
)

// Appointment represents a booked consultation between a patient and a
// practitioner. Per practitioner and date, no two appointments with an
// active status may have overlapping time slots; an exclusion constraint
// in the database enforces this alongside the usecase-level check.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_patient_date" json:"patient"`
	PractitionerID uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_practitioner_date" json:"practitioner"`
	Type           ConsultationType  `gorm:"column:appointment_type;type:varchar(20);not null" json:"appointmentType"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Date           time.Time         `gorm:"type:date;not null;index:idx_appointments_patient_date;index:idx_appointments_practitioner_date" json:"date"`
	Duration       int               `gorm:"not null" json:"duration"`
	TimeSlotStart  string            `gorm:"type:time;not null" json:"-"`
	TimeSlotEnd    string            `gorm:"type:time;not null" json:"-"`

	Location AppointmentLocation `gorm:"type:jsonb;serializer:json" json:"location"`
	Reason   string              `gorm:"type:varchar(500)" json:"reason,omitempty"`

	PatientNotes      string `gorm:"type:varchar(1000)" json:"-"`
	PractitionerNotes string `gorm:"type:varchar(1000)" json:"-"`

	Documents []AppointmentDocument `gorm:"type:jsonb;serializer:json" json:"documents,omitempty"`

	// Payment summary as the clients see it on the appointment itself
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"-"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'pending'" json:"-"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"-"`
	TransactionID   string          `gorm:"type:varchar(100)" json:"-"`
	PaidAt          *time.Time      `json:"-"`

	// Cancellation sub-record
	CancelledBy        *uuid.UUID       `gorm:"type:uuid" json:"-"`
	CancellationReason string           `gorm:"type:varchar(500)" json:"-"`
	CancelledAt        *time.Time       `json:"-"`
	RefundAmount       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"-"`

	FollowUp FollowUp `gorm:"type:jsonb;serializer:json" json:"followUp"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Patient      User         `gorm:"foreignKey:PatientID" json:"-"`
	Practitioner Practitioner `gorm:"foreignKey:PractitionerID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentCancelled
}

// AppointmentFilter is a domain-level filter for listing appointments.
type AppointmentFilter struct {
	PatientID      *uuid.UUID
	PractitionerID *uuid.UUID
	Status         string
}
