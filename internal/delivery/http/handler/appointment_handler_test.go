package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/delivery/http/middleware"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/usecase"
	"mon-mentale-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type stubAppointmentUsecase struct {
	listFn   func(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	createFn func(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	cancelFn func(ctx context.Context, id, cancelledBy uuid.UUID, reason string) (*dto.AppointmentResponse, error)
	statusFn func(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error)
}

func (s *stubAppointmentUsecase) ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	return s.listFn(ctx, filter)
}

func (s *stubAppointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return nil, usecase.ErrAppointmentNotFound
}

func (s *stubAppointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.createFn(ctx, patientID, req)
}

func (s *stubAppointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return nil, usecase.ErrAppointmentNotFound
}

func (s *stubAppointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error) {
	return s.statusFn(ctx, id, status)
}

func (s *stubAppointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	return s.cancelFn(ctx, id, cancelledBy, reason)
}

type stubPractitionerUsecase struct {
	getByUserFn func(ctx context.Context, userID uuid.UUID) (*dto.PractitionerResponse, error)
}

func (s *stubPractitionerUsecase) ListPractitioners(ctx context.Context, filter *entity.PractitionerFilter) (*dto.PractitionerListResponse, error) {
	return nil, usecase.ErrPractitionerNotFound
}

func (s *stubPractitionerUsecase) GetPractitioner(ctx context.Context, id uuid.UUID) (*dto.PractitionerResponse, error) {
	return nil, usecase.ErrPractitionerNotFound
}

func (s *stubPractitionerUsecase) GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (*dto.PractitionerResponse, error) {
	if s.getByUserFn != nil {
		return s.getByUserFn(ctx, userID)
	}
	return nil, usecase.ErrPractitionerNotFound
}

func (s *stubPractitionerUsecase) CreatePractitioner(ctx context.Context, req *dto.CreatePractitionerRequest) (*dto.PractitionerResponse, error) {
	return nil, usecase.ErrPractitionerNotFound
}

func (s *stubPractitionerUsecase) UpdatePractitioner(ctx context.Context, id uuid.UUID, req *dto.UpdatePractitionerRequest) (*dto.PractitionerResponse, error) {
	return nil, usecase.ErrPractitionerNotFound
}

func (s *stubPractitionerUsecase) SearchNearby(ctx context.Context, latitude, longitude float64, maxDistanceMeters int) ([]dto.PractitionerResponse, error) {
	return nil, usecase.ErrPractitionerNotFound
}

func newAppointmentHandler(stub *stubAppointmentUsecase, practitioners *stubPractitionerUsecase) *AppointmentHandler {
	if practitioners == nil {
		practitioners = &stubPractitionerUsecase{}
	}
	return NewAppointmentHandler(stub, practitioners, validator.NewValidator())
}

func authContext(req *http.Request, userID uuid.UUID, role entity.Role) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, string(role))
	return req.WithContext(ctx)
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	patientID := uuid.New()
	stub := &stubAppointmentUsecase{
		createFn: func(ctx context.Context, pid uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
			assert.Equal(t, patientID, pid)
			return nil, usecase.ErrSlotConflict
		},
	}
	h := newAppointmentHandler(stub, nil)

	body := `{
		"practitionerId": "` + uuid.NewString() + `",
		"appointmentType": "presentiel",
		"date": "2026-09-15",
		"startTime": "14:00",
		"endTime": "14:45"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req = authContext(req, patientID, entity.RolePatient)
	w := httptest.NewRecorder()
	h.CreateAppointment(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAppointmentBadConsultationType(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{}, nil)

	body := `{
		"practitionerId": "` + uuid.NewString() + `",
		"appointmentType": "hypnose",
		"date": "2026-09-15",
		"startTime": "14:00",
		"endTime": "14:45"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req = authContext(req, uuid.New(), entity.RolePatient)
	w := httptest.NewRecorder()
	h.CreateAppointment(w, req)

	// Rejected by validation before the usecase runs
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentRequiresAuth(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.CreateAppointment(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAppointmentsScopesPatientToSelf(t *testing.T) {
	patientID := uuid.New()
	stub := &stubAppointmentUsecase{
		listFn: func(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
			if assert.NotNil(t, filter.PatientID) {
				assert.Equal(t, patientID, *filter.PatientID)
			}
			assert.Nil(t, filter.PractitionerID)
			return &dto.AppointmentListResponse{}, nil
		},
	}
	h := newAppointmentHandler(stub, nil)

	// A patient asking for someone else's appointments still only gets their own
	req := httptest.NewRequest(http.MethodGet, "/api/appointments?userId="+uuid.NewString(), nil)
	req = authContext(req, patientID, entity.RolePatient)
	w := httptest.NewRecorder()
	h.ListAppointments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAppointmentsResolvesPractitionerProfile(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()
	stub := &stubAppointmentUsecase{
		listFn: func(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
			// The filter must carry the profile id; appointments never
			// reference the user id behind it
			if assert.NotNil(t, filter.PractitionerID) {
				assert.Equal(t, profileID, *filter.PractitionerID)
				assert.NotEqual(t, userID, *filter.PractitionerID)
			}
			assert.Nil(t, filter.PatientID)
			return &dto.AppointmentListResponse{}, nil
		},
	}
	practitioners := &stubPractitionerUsecase{
		getByUserFn: func(ctx context.Context, id uuid.UUID) (*dto.PractitionerResponse, error) {
			assert.Equal(t, userID, id)
			return &dto.PractitionerResponse{ID: profileID}, nil
		},
	}
	h := newAppointmentHandler(stub, practitioners)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req = authContext(req, userID, entity.RolePsychologue)
	w := httptest.NewRecorder()
	h.ListAppointments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAppointmentsPractitionerWithoutProfile(t *testing.T) {
	h := newAppointmentHandler(&stubAppointmentUsecase{
		listFn: func(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
			t.Fatal("list must not run without a resolved profile")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req = authContext(req, uuid.New(), entity.RolePsychiatre)
	w := httptest.NewRecorder()
	h.ListAppointments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "appointments")
}

func TestListAppointmentsAdminFilters(t *testing.T) {
	patientID := uuid.New()
	practitionerID := uuid.New()
	stub := &stubAppointmentUsecase{
		listFn: func(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
			if assert.NotNil(t, filter.PatientID) {
				assert.Equal(t, patientID, *filter.PatientID)
			}
			if assert.NotNil(t, filter.PractitionerID) {
				assert.Equal(t, practitionerID, *filter.PractitionerID)
			}
			return &dto.AppointmentListResponse{}, nil
		},
	}
	h := newAppointmentHandler(stub, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/appointments?userId="+patientID.String()+"&practitionerId="+practitionerID.String(), nil)
	req = authContext(req, uuid.New(), entity.RoleAdmin)
	w := httptest.NewRecorder()
	h.ListAppointments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusRejected(t *testing.T) {
	stub := &stubAppointmentUsecase{
		statusFn: func(ctx context.Context, id uuid.UUID, status string) (*dto.AppointmentResponse, error) {
			return nil, usecase.ErrInvalidStatusChange
		},
	}
	h := newAppointmentHandler(stub, nil)

	appointmentID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, "/api/appointments/"+appointmentID+"/status",
		strings.NewReader(`{"status":"completed"}`))
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID})
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAppointment(t *testing.T) {
	userID := uuid.New()
	appointmentID := uuid.New()
	stub := &stubAppointmentUsecase{
		cancelFn: func(ctx context.Context, id, cancelledBy uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
			assert.Equal(t, appointmentID, id)
			assert.Equal(t, userID, cancelledBy)
			assert.Equal(t, "indisponible", reason)
			return &dto.AppointmentResponse{ID: appointmentID, Status: "cancelled"}, nil
		},
	}
	h := newAppointmentHandler(stub, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/"+appointmentID.String(),
		strings.NewReader(`{"reason":"indisponible"}`))
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	req = authContext(req, userID, entity.RolePatient)
	w := httptest.NewRecorder()
	h.CancelAppointment(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cancelled")
}
