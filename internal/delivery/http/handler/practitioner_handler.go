package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/delivery/http/middleware"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/usecase"
	"mon-mentale-api/pkg/response"
	"mon-mentale-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PractitionerHandler struct {
	practitionerUsecase usecase.PractitionerUsecase
	paymentUsecase      usecase.PaymentUsecase
	validator           *validator.CustomValidator
}

func NewPractitionerHandler(
	practitionerUsecase usecase.PractitionerUsecase,
	paymentUsecase usecase.PaymentUsecase,
	validator *validator.CustomValidator,
) *PractitionerHandler {
	return &PractitionerHandler{
		practitionerUsecase: practitionerUsecase,
		paymentUsecase:      paymentUsecase,
		validator:           validator,
	}
}

// ListPractitioners returns verified active practitioners, paged.
// Supported query params: specialization, city, consultationType, page, limit.
func (h *PractitionerHandler) ListPractitioners(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.PractitionerFilter{
		Specialization:   query.Get("specialization"),
		City:             query.Get("city"),
		ConsultationType: query.Get("consultationType"),
		Page:             parseIntParam(query.Get("page"), 1),
		Limit:            parseIntParam(query.Get("limit"), 10),
	}

	result, err := h.practitionerUsecase.ListPractitioners(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get practitioners")
		return
	}

	response.Success(w, http.StatusOK, "Practitioners retrieved successfully", result)
}

func (h *PractitionerHandler) GetPractitioner(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	practitionerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	practitioner, err := h.practitionerUsecase.GetPractitioner(r.Context(), practitionerID)
	if err != nil {
		switch err {
		case usecase.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to get practitioner")
		}
		return
	}

	response.Success(w, http.StatusOK, "Practitioner retrieved successfully", practitioner)
}

func (h *PractitionerHandler) CreatePractitioner(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePractitionerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	practitioner, err := h.practitionerUsecase.CreatePractitioner(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrUserNotPractitioner:
			response.Error(w, http.StatusBadRequest, "User does not have a practitioner role", nil)
		case usecase.ErrLicenseAlreadyExists:
			response.Conflict(w, "License number already registered")
		case usecase.ErrProfileAlreadyExists:
			response.Conflict(w, "Practitioner profile already exists for this user")
		default:
			response.InternalServerError(w, "Failed to create practitioner")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Practitioner created successfully", practitioner)
}

func (h *PractitionerHandler) UpdatePractitioner(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	practitionerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	var req dto.UpdatePractitionerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	practitioner, err := h.practitionerUsecase.UpdatePractitioner(r.Context(), practitionerID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to update practitioner")
		}
		return
	}

	response.Success(w, http.StatusOK, "Practitioner updated successfully", practitioner)
}

// SearchNearby finds practitioners within maxDistance meters of a point.
// Query params: latitude, longitude (required), maxDistance (meters).
func (h *PractitionerHandler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	latitude, err := strconv.ParseFloat(query.Get("latitude"), 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or missing latitude", nil)
		return
	}
	longitude, err := strconv.ParseFloat(query.Get("longitude"), 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or missing longitude", nil)
		return
	}
	maxDistance := parseIntParam(query.Get("maxDistance"), 0)

	practitioners, err := h.practitionerUsecase.SearchNearby(r.Context(), latitude, longitude, maxDistance)
	if err != nil {
		response.InternalServerError(w, "Failed to search practitioners")
		return
	}

	response.Success(w, http.StatusOK, "Practitioners retrieved successfully", practitioners)
}

// CreateConnectedAccount starts gateway onboarding for a practitioner.
// Only the profile owner or an admin may call it.
func (h *PractitionerHandler) CreateConnectedAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	vars := mux.Vars(r)
	practitionerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	account, err := h.paymentUsecase.CreateConnectedAccount(r.Context(), practitionerID, userID, entity.Role(role))
	if err != nil {
		switch err {
		case usecase.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case usecase.ErrProfileNotOwned:
			response.Forbidden(w, "You may only onboard your own profile")
		default:
			response.InternalServerError(w, "Failed to create connected account")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Connected account created successfully", account)
}

func (h *PractitionerHandler) GetAccountStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	vars := mux.Vars(r)
	practitionerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	status, err := h.paymentUsecase.GetAccountStatus(r.Context(), practitionerID, userID, entity.Role(role))
	if err != nil {
		switch err {
		case usecase.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case usecase.ErrProfileNotOwned:
			response.Forbidden(w, "You may only view your own account status")
		case usecase.ErrNoConnectedAccount:
			response.NotFound(w, "Practitioner has no connected account")
		default:
			response.InternalServerError(w, "Failed to get account status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Account status retrieved successfully", status)
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
