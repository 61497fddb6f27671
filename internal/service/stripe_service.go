package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mon-mentale-api/config"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrGateway wraps every failure coming back from the payment gateway.
// Callers decide whether to retry; nothing in this package retries.
var ErrGateway = errors.New("payment gateway error")

// StripeService is a thin client over the Stripe REST API. All calls are
// single-attempt with a bounded timeout; amounts are converted to cents on
// the way out.
type StripeService struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	frontendURL   string
	httpClient    *http.Client
	log           *logrus.Logger
}

func NewStripeService(cfg config.StripeConfig, log *logrus.Logger) *StripeService {
	return &StripeService{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		frontendURL:   strings.TrimRight(cfg.FrontendURL, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
}

// PaymentIntent is the subset of the gateway's intent object we track.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	LatestCharge string `json:"latest_charge"`
}

// Transfer is a settlement transfer to a connected account.
type Transfer struct {
	ID string `json:"id"`
}

// Refund references the original charge.
type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// ConnectedAccount is a freshly created practitioner gateway account plus
// its onboarding link.
type ConnectedAccount struct {
	AccountID     string
	OnboardingURL string
}

// AccountStatus reports a connected account's enablement flags.
type AccountStatus struct {
	ChargesEnabled   bool `json:"charges_enabled"`
	PayoutsEnabled   bool `json:"payouts_enabled"`
	DetailsSubmitted bool `json:"details_submitted"`
}

// CreatePaymentIntent creates an intent for the given amount and currency.
// Metadata keys end up verbatim on the gateway object.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := url.Values{}
	params.Set("amount", strconv.FormatInt(toCents(amount), 10))
	params.Set("currency", currency)
	params.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		params.Set("metadata["+key+"]", value)
	}

	var intent PaymentIntent
	if err := s.post(ctx, "/v1/payment_intents", params, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// RetrievePaymentIntent fetches the current state of an intent.
func (s *StripeService) RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := s.get(ctx, "/v1/payment_intents/"+intentID, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateTransfer moves the practitioner's share to their connected account.
// The transfer group carries the source intent id so the settlement stays
// traceable and re-issuing for the same intent is detectable.
func (s *StripeService) CreateTransfer(ctx context.Context, destination string, amount decimal.Decimal, currency, sourceIntentID string) (*Transfer, error) {
	params := url.Values{}
	params.Set("amount", strconv.FormatInt(toCents(amount), 10))
	params.Set("currency", currency)
	params.Set("destination", destination)
	params.Set("transfer_group", sourceIntentID)
	params.Set("metadata[type]", "practitioner_payment")
	params.Set("metadata[source_payment]", sourceIntentID)

	var transfer Transfer
	if err := s.post(ctx, "/v1/transfers", params, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// CreateRefund refunds a charge, fully when amount is nil.
func (s *StripeService) CreateRefund(ctx context.Context, chargeID string, amount *decimal.Decimal, reason string) (*Refund, error) {
	params := url.Values{}
	params.Set("charge", chargeID)
	if amount != nil {
		params.Set("amount", strconv.FormatInt(toCents(*amount), 10))
	}
	if reason != "" {
		params.Set("reason", reason)
	}
	params.Set("metadata[type]", "appointment_refund")

	var refund Refund
	if err := s.post(ctx, "/v1/refunds", params, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// CreateConnectedAccount opens an Express account for a practitioner and
// returns the hosted onboarding link.
func (s *StripeService) CreateConnectedAccount(ctx context.Context, email, firstName, lastName, practitionerID string, specializations []string) (*ConnectedAccount, error) {
	params := url.Values{}
	params.Set("type", "express")
	params.Set("country", "FR")
	params.Set("email", email)
	params.Set("business_type", "individual")
	params.Set("capabilities[card_payments][requested]", "true")
	params.Set("capabilities[transfers][requested]", "true")
	params.Set("individual[first_name]", firstName)
	params.Set("individual[last_name]", lastName)
	params.Set("individual[email]", email)
	params.Set("metadata[practitioner_id]", practitionerID)
	if len(specializations) > 0 {
		params.Set("metadata[specialization]", strings.Join(specializations, ","))
	}

	var account struct {
		ID string `json:"id"`
	}
	if err := s.post(ctx, "/v1/accounts", params, &account); err != nil {
		return nil, err
	}

	linkParams := url.Values{}
	linkParams.Set("account", account.ID)
	linkParams.Set("refresh_url", s.frontendURL+"/practitioner/onboarding/refresh")
	linkParams.Set("return_url", s.frontendURL+"/practitioner/onboarding/success")
	linkParams.Set("type", "account_onboarding")

	var link struct {
		URL string `json:"url"`
	}
	if err := s.post(ctx, "/v1/account_links", linkParams, &link); err != nil {
		return nil, err
	}

	return &ConnectedAccount{AccountID: account.ID, OnboardingURL: link.URL}, nil
}

// GetAccountStatus retrieves a connected account's charge/payout enablement.
func (s *StripeService) GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	var status AccountStatus
	if err := s.get(ctx, "/v1/accounts/"+accountID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *StripeService) post(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, out)
}

func (s *StripeService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrGateway, err)
	}
	return s.do(req, out)
}

func (s *StripeService) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(s.secretKey, "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		s.log.Warnf("Stripe %s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
		return fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: parse response: %v", ErrGateway, err)
		}
	}
	return nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
