package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mon-mentale-api/config"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(baseURL string) *StripeService {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewStripeService(config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test123",
		BaseURL:       baseURL,
		FrontendURL:   "https://app.example.com",
	}, log)
}

func TestCreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test_123", user)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "6000", r.PostForm.Get("amount"))
		assert.Equal(t, "eur", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "apt_1", r.PostForm.Get("metadata[appointmentId]"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pi_123","client_secret":"pi_123_secret_abc","status":"requires_payment_method"}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	intent, err := s.CreatePaymentIntent(context.Background(), decimal.NewFromFloat(60.00), "eur", map[string]string{
		"appointmentId": "apt_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
}

func TestCreatePaymentIntentGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined."}}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	_, err := s.CreatePaymentIntent(context.Background(), decimal.NewFromFloat(60.00), "eur", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
}

func TestCreateTransfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "5700", r.PostForm.Get("amount"))
		assert.Equal(t, "acct_42", r.PostForm.Get("destination"))
		assert.Equal(t, "pi_123", r.PostForm.Get("transfer_group"))
		assert.Equal(t, "practitioner_payment", r.PostForm.Get("metadata[type]"))
		fmt.Fprint(w, `{"id":"tr_1"}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	transfer, err := s.CreateTransfer(context.Background(), "acct_42", decimal.NewFromFloat(57.00), "eur", "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "tr_1", transfer.ID)
}

func TestCreateRefundFullAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ch_1", r.PostForm.Get("charge"))
		// Full refund sends no amount
		assert.Empty(t, r.PostForm.Get("amount"))
		assert.Equal(t, "requested_by_customer", r.PostForm.Get("reason"))
		fmt.Fprint(w, `{"id":"re_1","amount":6000}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	refund, err := s.CreateRefund(context.Background(), "ch_1", nil, "requested_by_customer")
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.ID)
}

func TestCreateRefundPartialAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2550", r.PostForm.Get("amount"))
		fmt.Fprint(w, `{"id":"re_2","amount":2550}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	amount := decimal.NewFromFloat(25.50)
	refund, err := s.CreateRefund(context.Background(), "ch_1", &amount, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, int64(2550), refund.Amount)
}

func TestCreateConnectedAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/v1/accounts":
			assert.Equal(t, "express", r.PostForm.Get("type"))
			assert.Equal(t, "FR", r.PostForm.Get("country"))
			assert.Equal(t, "jane@example.com", r.PostForm.Get("email"))
			fmt.Fprint(w, `{"id":"acct_7"}`)
		case "/v1/account_links":
			assert.Equal(t, "acct_7", r.PostForm.Get("account"))
			assert.Equal(t, "account_onboarding", r.PostForm.Get("type"))
			assert.Equal(t, "https://app.example.com/practitioner/onboarding/success", r.PostForm.Get("return_url"))
			fmt.Fprint(w, `{"url":"https://connect.stripe.com/setup/s/abc"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	s := newTestService(server.URL)
	account, err := s.CreateConnectedAccount(context.Background(), "jane@example.com", "Jane", "Doe", "prac_1", []string{"anxiete"})
	require.NoError(t, err)
	assert.Equal(t, "acct_7", account.AccountID)
	assert.Equal(t, "https://connect.stripe.com/setup/s/abc", account.OnboardingURL)
}

func TestGetAccountStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/accounts/acct_7", r.URL.Path)
		fmt.Fprint(w, `{"charges_enabled":true,"payouts_enabled":false,"details_submitted":true}`)
	}))
	defer server.Close()

	s := newTestService(server.URL)
	status, err := s.GetAccountStatus(context.Background(), "acct_7")
	require.NoError(t, err)
	assert.True(t, status.ChargesEnabled)
	assert.False(t, status.PayoutsEnabled)
	assert.True(t, status.DetailsSubmitted)
}

func signPayload(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	s := newTestService("http://unused")
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	sig := signPayload("whsec_test123", "1693526400", payload)
	header := "t=1693526400,v1=" + sig

	assert.True(t, s.VerifyWebhookSignature(payload, header))

	// Tampered payload
	assert.False(t, s.VerifyWebhookSignature([]byte(`{"id":"evt_2"}`), header))

	// Wrong secret
	wrongSig := signPayload("whsec_other", "1693526400", payload)
	assert.False(t, s.VerifyWebhookSignature(payload, "t=1693526400,v1="+wrongSig))

	// Malformed headers
	assert.False(t, s.VerifyWebhookSignature(payload, ""))
	assert.False(t, s.VerifyWebhookSignature(payload, "garbage"))
	assert.False(t, s.VerifyWebhookSignature(payload, "t=1693526400"))
	assert.False(t, s.VerifyWebhookSignature(payload, "v1="+sig))
}
