package usecase

import (
	"context"
	"testing"
	"time"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	repoimpl "mon-mentale-api/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTimeSlot(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		duration int
		err      error
	}{
		{"valid 45 minutes", "14:00", "14:45", 45, nil},
		{"minimum 15 minutes", "09:00", "09:15", 15, nil},
		{"maximum 120 minutes", "09:00", "11:00", 120, nil},
		{"too short", "09:00", "09:10", 0, ErrInvalidDuration},
		{"too long", "09:00", "11:15", 0, ErrInvalidDuration},
		{"end before start", "15:00", "14:00", 0, ErrInvalidTimeSlot},
		{"zero length", "14:00", "14:00", 0, ErrInvalidTimeSlot},
		{"bad start format", "2pm", "14:45", 0, ErrInvalidTimeFormat},
		{"bad end format", "14:00", "late", 0, ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, err := validateTimeSlot(tt.start, tt.end)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.duration, duration)
		})
	}
}

func TestParseAppointmentDate(t *testing.T) {
	date, err := parseAppointmentDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, 15, date.Day())

	_, err = parseAppointmentDate("15/09/2026")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = parseAppointmentDate("")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestOffersConsultationType(t *testing.T) {
	practitioner := &entity.Practitioner{
		ConsultationTypes: []string{"presentiel", "teleconsultation"},
	}

	assert.True(t, offersConsultationType(practitioner, "presentiel"))
	assert.True(t, offersConsultationType(practitioner, "teleconsultation"))
	assert.False(t, offersConsultationType(practitioner, "domicile"))

	// Profiles without an explicit list offer in-person only
	legacy := &entity.Practitioner{}
	assert.True(t, offersConsultationType(legacy, "presentiel"))
	assert.False(t, offersConsultationType(legacy, "teleconsultation"))
}

func TestPriceForType(t *testing.T) {
	practitioner := &entity.Practitioner{
		Prices: entity.ConsultationPrices{
			Consultation:     60,
			Teleconsultation: 50,
		},
	}

	assert.Equal(t, "60", priceForType(practitioner, "presentiel").String())
	assert.Equal(t, "50", priceForType(practitioner, "teleconsultation").String())
	// Unpriced type falls back to the base consultation price
	assert.Equal(t, "60", priceForType(practitioner, "domicile").String())
}

func TestUpdateAppointmentRejectsPastReschedule(t *testing.T) {
	db, mock := newUsecaseDB(t)
	uc := NewAppointmentUsecase(db, newTestLogger(),
		repoimpl.NewAppointmentRepository(), repoimpl.NewPractitionerRepository())

	appointmentID := uuid.New()
	patientID := uuid.New()
	practitionerID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "patient_id", "practitioner_id", "appointment_type",
			"status", "date", "duration", "time_slot_start", "time_slot_end",
		}).AddRow(
			appointmentID.String(), patientID.String(), practitionerID.String(), "presentiel",
			"scheduled", time.Now().UTC().AddDate(0, 0, 7), 45, "14:00", "14:45",
		))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(patientID.String()))
	mock.ExpectQuery(`SELECT (.+) FROM "practitioners"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(practitionerID.String()))

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := uc.UpdateAppointment(context.Background(), appointmentID,
		&dto.UpdateAppointmentRequest{Date: yesterday})

	assert.ErrorIs(t, err, ErrDatePast)
	// Rejected before any conflict check or update runs
	assert.NoError(t, mock.ExpectationsWereMet())
}
