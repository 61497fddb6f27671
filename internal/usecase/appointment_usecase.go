package usecase

import (
	"context"
	"errors"
	"time"

	"mon-mentale-api/internal/converter"
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrPractitionerNotFound   = errors.New("practitioner not found")
	ErrSlotConflict           = errors.New("time slot conflicts with an existing appointment")
	ErrInvalidDateFormat      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat      = errors.New("invalid time format, use HH:MM")
	ErrInvalidTimeSlot        = errors.New("end time must be after start time")
	ErrInvalidDuration        = errors.New("appointment duration must be between 15 and 120 minutes")
	ErrDatePast               = errors.New("cannot book a past date")
	ErrInvalidStatusChange    = errors.New("status transition not allowed")
	ErrConsultationNotOffered = errors.New("practitioner does not offer this consultation type")
)

type AppointmentUsecase interface {
	ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	practitionerRepo repository.PractitionerRepository
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	practitionerRepo repository.PractitionerRepository,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		practitionerRepo: practitionerRepo,
	}
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

// CreateAppointment books a slot for a patient.
//
// Flow:
//  1. Validate date/time input before touching the database
//  2. Verify the practitioner exists, is active, and offers the type
//  3. Inside a transaction: lock the practitioner row, re-run the conflict
//     check, insert. The row lock serializes concurrent bookings for the
//     same practitioner so check and insert cannot interleave; the
//     exclusion constraint in the schema is the backstop for any write
//     path that skips this usecase.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := parseAppointmentDate(req.Date)
	if err != nil {
		return nil, err
	}
	duration, err := validateTimeSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, ErrDatePast
	}

	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), req.PractitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner %s: %+v", req.PractitionerID, err)
		return nil, err
	}
	if practitioner == nil || !practitioner.IsActive {
		return nil, ErrPractitionerNotFound
	}
	if !offersConsultationType(practitioner, req.AppointmentType) {
		return nil, ErrConsultationNotOffered
	}

	appointment := &entity.Appointment{
		PatientID:      patientID,
		PractitionerID: practitioner.ID,
		Type:           entity.ConsultationType(req.AppointmentType),
		Status:         entity.AppointmentScheduled,
		Date:           date,
		Duration:       duration,
		TimeSlotStart:  req.StartTime,
		TimeSlotEnd:    req.EndTime,
		Reason:         req.Reason,
		Location:       buildLocation(practitioner, req),
		Price:          priceForType(practitioner, req.AppointmentType),
		PaymentStatus:  entity.AppointmentPaymentPending,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Serialize against concurrent bookings for this practitioner
	if _, err := u.practitionerRepo.FindByIDForUpdate(tx, practitioner.ID); err != nil {
		u.log.Warnf("Failed to lock practitioner %s: %+v", practitioner.ID, err)
		return nil, err
	}

	conflicts, err := u.appointmentRepo.FindConflicts(tx, practitioner.ID, date, req.StartTime, req.EndTime, nil)
	if err != nil {
		u.log.Warnf("Failed conflict check for practitioner %s: %+v", practitioner.ID, err)
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, ErrSlotConflict
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isExclusionError(err, "no_overlap") {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isExclusionError(err, "no_overlap") {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment created: id=%s, practitioner=%s, date=%s %s-%s",
		appointment.ID, practitioner.ID, req.Date, req.StartTime, req.EndTime)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status.IsTerminal() {
		return nil, ErrInvalidStatusChange
	}

	reschedule := false
	if req.Date != "" {
		date, err := parseAppointmentDate(req.Date)
		if err != nil {
			return nil, err
		}
		appointment.Date = date
		reschedule = true
	}
	if req.StartTime != "" {
		appointment.TimeSlotStart = req.StartTime
		reschedule = true
	}
	if req.EndTime != "" {
		appointment.TimeSlotEnd = req.EndTime
		reschedule = true
	}
	if reschedule {
		duration, err := validateTimeSlot(appointment.TimeSlotStart, appointment.TimeSlotEnd)
		if err != nil {
			return nil, err
		}
		appointment.Duration = duration

		// Same rule as booking: a slot cannot be moved into the past
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if appointment.Date.Before(today) {
			return nil, ErrDatePast
		}
	}
	if req.Reason != "" {
		appointment.Reason = req.Reason
	}
	if req.PatientNotes != "" {
		appointment.PatientNotes = req.PatientNotes
	}
	if req.PractitionerNotes != "" {
		appointment.PractitionerNotes = req.PractitionerNotes
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if reschedule {
		if _, err := u.practitionerRepo.FindByIDForUpdate(tx, appointment.PractitionerID); err != nil {
			u.log.Warnf("Failed to lock practitioner %s: %+v", appointment.PractitionerID, err)
			return nil, err
		}

		// The appointment's own slot is excluded so a no-op reschedule
		// does not conflict with itself
		conflicts, err := u.appointmentRepo.FindConflicts(tx, appointment.PractitionerID,
			appointment.Date, appointment.TimeSlotStart, appointment.TimeSlotEnd, &appointment.ID)
		if err != nil {
			u.log.Warnf("Failed conflict check for practitioner %s: %+v", appointment.PractitionerID, err)
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, ErrSlotConflict
		}
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isExclusionError(err, "no_overlap") {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isExclusionError(err, "no_overlap") {
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error) {
	if !entity.IsValidAppointmentStatus(status) {
		return nil, ErrInvalidStatusChange
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	next := entity.AppointmentStatus(status)
	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusChange
	}

	appointment.Status = next
	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to update appointment status %s: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Appointment status updated: id=%s, status=%s", id, status)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.Status.CanTransitionTo(entity.AppointmentCancelled) {
		return nil, ErrInvalidStatusChange
	}

	now := time.Now().UTC()
	appointment.Status = entity.AppointmentCancelled
	appointment.CancelledBy = &cancelledBy
	appointment.CancellationReason = reason
	appointment.CancelledAt = &now

	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Appointment cancelled: id=%s, by=%s", id, cancelledBy)
	return converter.AppointmentToResponse(appointment), nil
}

// parseAppointmentDate parses a YYYY-MM-DD calendar day.
func parseAppointmentDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return date, nil
}

// validateTimeSlot checks both HH:MM bounds and returns the slot length in
// minutes. Fails fast so no query runs on malformed input.
func validateTimeSlot(start, end string) (int, error) {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	if !endAt.After(startAt) {
		return 0, ErrInvalidTimeSlot
	}
	duration := int(endAt.Sub(startAt).Minutes())
	if duration < 15 || duration > 120 {
		return 0, ErrInvalidDuration
	}
	return duration, nil
}

func offersConsultationType(practitioner *entity.Practitioner, consultationType string) bool {
	if len(practitioner.ConsultationTypes) == 0 {
		// Legacy profiles without an explicit list offer in-person only
		return consultationType == string(entity.ConsultationPresentiel)
	}
	for _, offered := range practitioner.ConsultationTypes {
		if offered == consultationType {
			return true
		}
	}
	return false
}

func priceForType(practitioner *entity.Practitioner, consultationType string) decimal.Decimal {
	price := practitioner.Prices.Consultation
	switch entity.ConsultationType(consultationType) {
	case entity.ConsultationTeleconsultation:
		if practitioner.Prices.Teleconsultation > 0 {
			price = practitioner.Prices.Teleconsultation
		}
	case entity.ConsultationDomicile:
		if practitioner.Prices.Domicile > 0 {
			price = practitioner.Prices.Domicile
		}
	}
	return decimal.NewFromFloat(price)
}

func buildLocation(practitioner *entity.Practitioner, req *dto.CreateAppointmentRequest) entity.AppointmentLocation {
	if req.Location != nil {
		return entity.AppointmentLocation{
			Type:        req.Location.Type,
			Street:      req.Location.Street,
			City:        req.Location.City,
			PostalCode:  req.Location.PostalCode,
			Latitude:    req.Location.Latitude,
			Longitude:   req.Location.Longitude,
			MeetingLink: req.Location.MeetingLink,
		}
	}

	location := entity.AppointmentLocation{Type: "cabinet"}
	switch entity.ConsultationType(req.AppointmentType) {
	case entity.ConsultationTeleconsultation:
		location.Type = "teleconsultation"
	case entity.ConsultationDomicile:
		location.Type = "domicile"
	default:
		location.Street = practitioner.Street
		location.City = practitioner.City
		location.PostalCode = practitioner.PostalCode
		if practitioner.Latitude != nil {
			location.Latitude = *practitioner.Latitude
		}
		if practitioner.Longitude != nil {
			location.Longitude = *practitioner.Longitude
		}
	}
	return location
}
