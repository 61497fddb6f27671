package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/usecase"
	"mon-mentale-api/pkg/response"
	"mon-mentale-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentUsecase struct {
	createIntentFn  func(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)
	handleWebhookFn func(ctx context.Context, payload []byte, signature string) error
	getPaymentFn    func(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error)
}

func (s *stubPaymentUsecase) CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	return s.createIntentFn(ctx, req)
}

func (s *stubPaymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.handleWebhookFn(ctx, payload, signature)
}

func (s *stubPaymentUsecase) GetPayment(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error) {
	return s.getPaymentFn(ctx, id, callerID, callerRole)
}

func (s *stubPaymentUsecase) Refund(ctx context.Context, paymentID, refundedBy uuid.UUID, req *dto.RefundRequest) (*dto.PaymentResponse, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubPaymentUsecase) CreateConnectedAccount(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.ConnectedAccountResponse, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubPaymentUsecase) GetAccountStatus(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.AccountStatusResponse, error) {
	return nil, errors.New("not stubbed")
}

func newPaymentHandler(stub *stubPaymentUsecase) *PaymentHandler {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewPaymentHandler(stub, validator.NewValidator(), log)
}

func TestCreateIntentValidation(t *testing.T) {
	h := newPaymentHandler(&stubPaymentUsecase{})

	// Missing amount
	body := `{"appointmentId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-intent", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateIntent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestCreateIntentSuccess(t *testing.T) {
	appointmentID := uuid.New()
	stub := &stubPaymentUsecase{
		createIntentFn: func(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
			assert.Equal(t, appointmentID, req.AppointmentID)
			assert.Equal(t, 60.0, req.Amount)
			return &dto.CreateIntentResponse{ClientSecret: "pi_1_secret"}, nil
		},
	}
	h := newPaymentHandler(stub)

	body := `{"amount":60,"appointmentId":"` + appointmentID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-intent", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateIntent(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "pi_1_secret")
}

func TestWebhookInvalidSignature(t *testing.T) {
	stub := &stubPaymentUsecase{
		handleWebhookFn: func(ctx context.Context, payload []byte, signature string) error {
			return usecase.ErrInvalidSignature
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	w := httptest.NewRecorder()
	h.Webhook(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookUnknownPaymentAcknowledged(t *testing.T) {
	stub := &stubPaymentUsecase{
		handleWebhookFn: func(ctx context.Context, payload []byte, signature string) error {
			return usecase.ErrPaymentNotFound
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Webhook(w, req)

	// Unknown intents are acknowledged so the gateway stops retrying
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookTransientFailureTriggersRetry(t *testing.T) {
	stub := &stubPaymentUsecase{
		handleWebhookFn: func(ctx context.Context, payload []byte, signature string) error {
			return errors.New("redis down")
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Webhook(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookPassesRawBodyAndSignature(t *testing.T) {
	payload := `{"id":"evt_1","type":"payment_intent.succeeded"}`
	called := false
	stub := &stubPaymentUsecase{
		handleWebhookFn: func(ctx context.Context, body []byte, signature string) error {
			called = true
			assert.Equal(t, payload, string(body))
			assert.Equal(t, "t=1,v1=abc", signature)
			return nil
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	h.Webhook(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPaymentNotFound(t *testing.T) {
	stub := &stubPaymentUsecase{
		getPaymentFn: func(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error) {
			return nil, usecase.ErrPaymentNotFound
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+uuid.NewString(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	req = authContext(req, uuid.New(), entity.RoleAdmin)
	w := httptest.NewRecorder()
	h.GetPayment(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPaymentForwardsCaller(t *testing.T) {
	userID := uuid.New()
	paymentID := uuid.New()
	stub := &stubPaymentUsecase{
		getPaymentFn: func(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error) {
			assert.Equal(t, paymentID, id)
			assert.Equal(t, userID, callerID)
			assert.Equal(t, entity.RolePatient, callerRole)
			return &dto.PaymentResponse{ID: paymentID}, nil
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+paymentID.String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": paymentID.String()})
	req = authContext(req, userID, entity.RolePatient)
	w := httptest.NewRecorder()
	h.GetPayment(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPaymentForbiddenForStranger(t *testing.T) {
	stub := &stubPaymentUsecase{
		getPaymentFn: func(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error) {
			return nil, usecase.ErrProfileNotOwned
		},
	}
	h := newPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+uuid.NewString(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	req = authContext(req, uuid.New(), entity.RolePatient)
	w := httptest.NewRecorder()
	h.GetPayment(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
