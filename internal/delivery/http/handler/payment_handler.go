package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/delivery/http/middleware"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/service"
	"mon-mentale-api/internal/usecase"
	"mon-mentale-api/pkg/response"
	"mon-mentale-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxWebhookBody caps the webhook payload read. Stripe events are a few KB.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
		log:            log,
	}
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	intent, err := h.paymentUsecase.CreateIntent(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrPractitionerNotFound):
			response.NotFound(w, "Practitioner not found")
		case errors.Is(err, service.ErrGateway):
			response.Error(w, http.StatusBadGateway, "Payment gateway error", nil)
		default:
			response.InternalServerError(w, "Failed to create payment intent")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Payment intent created successfully", intent)
}

// Webhook receives gateway events. The raw body is needed for signature
// verification, so this route must not sit behind any body-rewriting
// middleware. It always answers 200 for events it chose to ignore so the
// gateway stops retrying them.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.paymentUsecase.HandleWebhook(r.Context(), payload, signature); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSignature):
			response.Error(w, http.StatusBadRequest, "Invalid signature", nil)
		case errors.Is(err, usecase.ErrInvalidEvent):
			response.Error(w, http.StatusBadRequest, "Malformed event", nil)
		case errors.Is(err, usecase.ErrPaymentNotFound):
			// Unknown intent: acknowledge so the gateway does not retry forever
			h.log.Warnf("Webhook for unknown payment acknowledged")
			response.Success(w, http.StatusOK, "Event received", nil)
		default:
			// Transient failure: a non-2xx makes the gateway redeliver
			response.InternalServerError(w, "Failed to process event")
		}
		return
	}

	response.Success(w, http.StatusOK, "Event processed", nil)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	vars := mux.Vars(r)
	paymentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return
	}

	payment, err := h.paymentUsecase.GetPayment(r.Context(), paymentID, userID, entity.Role(role))
	if err != nil {
		switch err {
		case usecase.ErrPaymentNotFound:
			response.NotFound(w, "Payment not found")
		case usecase.ErrProfileNotOwned:
			response.Forbidden(w, "You may only view your own payments")
		default:
			response.InternalServerError(w, "Failed to get payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved successfully", payment)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	paymentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payment ID", nil)
		return
	}

	var req dto.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payment, err := h.paymentUsecase.Refund(r.Context(), paymentID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, usecase.ErrRefundNotAllowed):
			response.Error(w, http.StatusBadRequest, "Only a succeeded payment can be refunded", nil)
		case errors.Is(err, usecase.ErrRefundTooLarge):
			response.Error(w, http.StatusBadRequest, "Refund amount exceeds the original amount", nil)
		case errors.Is(err, service.ErrGateway):
			response.Error(w, http.StatusBadGateway, "Payment gateway error", nil)
		default:
			response.InternalServerError(w, "Failed to refund payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment refunded successfully", payment)
}
