package handler

import (
	"encoding/json"
	"net/http"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/delivery/http/middleware"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/usecase"
	"mon-mentale-api/pkg/response"
	"mon-mentale-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	practitionerUsecase usecase.PractitionerUsecase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	practitionerUsecase usecase.PractitionerUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase:  appointmentUsecase,
		practitionerUsecase: practitionerUsecase,
		validator:           validator,
	}
}

// ListAppointments returns appointments filtered by the query string.
// Patients and practitioners only ever see their own; admins may pass
// explicit userId/practitionerId filters.
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	filter := &entity.AppointmentFilter{
		Status: r.URL.Query().Get("status"),
	}

	switch entity.Role(role) {
	case entity.RolePatient:
		filter.PatientID = &userID
	case entity.RolePsychologue, entity.RolePsychiatre:
		// Appointments reference the practitioner profile id, not the
		// user id behind it
		profile, err := h.practitionerUsecase.GetPractitionerByUserID(r.Context(), userID)
		if err != nil {
			if err == usecase.ErrPractitionerNotFound {
				// A practitioner account without a profile has no bookings
				response.Success(w, http.StatusOK, "Appointments retrieved successfully",
					&dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}})
				return
			}
			response.InternalServerError(w, "Failed to get appointments")
			return
		}
		filter.PractitionerID = &profile.ID
	default:
		if raw := r.URL.Query().Get("userId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
				return
			}
			filter.PatientID = &id
		}
		if raw := r.URL.Query().Get("practitionerId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
				return
			}
			filter.PractitionerID = &id
		}
	}

	result, err := h.appointmentUsecase.ListAppointments(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", result)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), userID, &req)
	if err != nil {
		h.writeAppointmentError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		h.writeAppointmentError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), appointmentID, req.Status)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatusChange:
			response.Error(w, http.StatusBadRequest, "Status transition not allowed", nil)
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// CancelAppointment soft-cancels: the appointment moves to cancelled with
// a cancellation record, it is never deleted.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CancelAppointmentRequest
	json.NewDecoder(r.Body).Decode(&req)

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID, userID, req.Reason)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatusChange:
			response.Error(w, http.StatusBadRequest, "Appointment can no longer be cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrPractitionerNotFound:
		response.NotFound(w, "Practitioner not found")
	case usecase.ErrSlotConflict:
		response.Conflict(w, "Time slot is already booked")
	case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeSlot,
		usecase.ErrInvalidDuration, usecase.ErrDatePast, usecase.ErrConsultationNotOffered:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
