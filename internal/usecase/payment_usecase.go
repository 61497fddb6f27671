package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mon-mentale-api/internal/converter"
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/domain/repository"
	"mon-mentale-api/internal/service"
	"mon-mentale-api/internal/settlement"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrInvalidEvent       = errors.New("malformed webhook event")
	ErrRefundNotAllowed   = errors.New("only a succeeded payment can be refunded")
	ErrRefundTooLarge     = errors.New("refund amount exceeds the original amount")
	ErrNoConnectedAccount = errors.New("practitioner has no connected account")
)

// webhookDedupTTL bounds how long a processed gateway event id is
// remembered. The status guard on the Payment row covers replays past it.
const webhookDedupTTL = 24 * time.Hour

type PaymentUsecase interface {
	CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetPayment(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error)
	Refund(ctx context.Context, paymentID, refundedBy uuid.UUID, req *dto.RefundRequest) (*dto.PaymentResponse, error)
	CreateConnectedAccount(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.ConnectedAccountResponse, error)
	GetAccountStatus(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.AccountStatusResponse, error)
}

type paymentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	paymentRepo      repository.PaymentRepository
	appointmentRepo  repository.AppointmentRepository
	practitionerRepo repository.PractitionerRepository
	userRepo         repository.UserRepository
	stripeService    *service.StripeService
	redisClient      *redis.Client
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	paymentRepo repository.PaymentRepository,
	appointmentRepo repository.AppointmentRepository,
	practitionerRepo repository.PractitionerRepository,
	userRepo repository.UserRepository,
	stripeService *service.StripeService,
	redisClient *redis.Client,
) PaymentUsecase {
	return &paymentUsecase{
		db:               db,
		log:              log,
		paymentRepo:      paymentRepo,
		appointmentRepo:  appointmentRepo,
		practitionerRepo: practitionerRepo,
		userRepo:         userRepo,
		stripeService:    stripeService,
		redisClient:      redisClient,
	}
}

// CreateIntent creates the Payment row and the gateway intent for an
// appointment.
//
// Flow:
//  1. Load the appointment and its practitioner
//  2. Compute the settlement split (fee by rounding, payout by subtraction)
//  3. Insert the Payment row as pending
//  4. Create the gateway intent; on success store the intent id and client
//     secret and move the row to processing
//
// The gateway call is single-attempt; if it fails the row stays pending
// and the client may call again, which creates a fresh intent.
func (u *paymentUsecase) CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), appointment.PractitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner %s: %+v", appointment.PractitionerID, err)
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	fee, payout := settlement.Split(amount)

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), appointment.PatientID)
	if err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		AppointmentID:      appointment.ID,
		PatientID:          appointment.PatientID,
		PractitionerID:     appointment.PractitionerID,
		Amount:             amount,
		PlatformFee:        fee,
		PractitionerAmount: payout,
		Currency:           entity.CurrencyEUR,
		Status:             entity.PaymentPending,
		Metadata: entity.PaymentMetadata{
			AppointmentType: string(appointment.Type),
			PatientID:       appointment.PatientID.String(),
			PractitionerID:  appointment.PractitionerID.String(),
		},
	}
	if len(practitioner.Specializations) > 0 {
		payment.Metadata.PractitionerSpecialization = practitioner.Specializations[0]
	}
	if patient != nil {
		payment.Billing = entity.BillingInfo{
			Email: patient.Email,
			Name:  fmt.Sprintf("%s %s", patient.FirstName, patient.LastName),
		}
	}

	if err := u.paymentRepo.Create(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to create payment: %+v", err)
		return nil, err
	}

	intent, err := u.stripeService.CreatePaymentIntent(ctx, amount, payment.Currency, map[string]string{
		"appointmentId": appointment.ID.String(),
		"paymentId":     payment.ID.String(),
	})
	if err != nil {
		u.log.Warnf("Failed to create payment intent for payment %s: %+v", payment.ID, err)
		return nil, err
	}

	payment.StripePaymentIntentID = intent.ID
	payment.StripeClientSecret = intent.ClientSecret
	payment.Status = entity.PaymentProcessing
	if err := u.paymentRepo.Update(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to update payment %s after intent creation: %+v", payment.ID, err)
		return nil, err
	}

	u.log.Infof("Payment intent created: payment=%s, intent=%s, amount=%s", payment.ID, intent.ID, amount)
	return &dto.CreateIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// HandleWebhook processes a raw gateway event. Replays are harmless: the
// event id is claimed atomically in Redis before any work starts, so
// concurrent deliveries of the same event collapse to one winner, and the
// Payment status guard refuses to re-apply a transition that already
// happened, so a duplicate succeeded event can never issue a second
// transfer.
func (u *paymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !u.stripeService.VerifyWebhookSignature(payload, signature) {
		return ErrInvalidSignature
	}

	var event service.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ErrInvalidEvent
	}
	if event.ID == "" {
		return ErrInvalidEvent
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return u.handleIntentSucceeded(ctx, &event)
	case "payment_intent.payment_failed":
		return u.handleIntentFailed(ctx, &event)
	default:
		u.log.Infof("Webhook event ignored: type=%s, id=%s", event.Type, event.ID)
		return nil
	}
}

func (u *paymentUsecase) handleIntentSucceeded(ctx context.Context, event *service.StripeEvent) error {
	var intent struct {
		ID           string `json:"id"`
		LatestCharge string `json:"latest_charge"`
	}
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil || intent.ID == "" {
		return ErrInvalidEvent
	}

	claimed, err := u.claimEvent(ctx, event.ID)
	if err != nil {
		u.log.Warnf("Failed webhook dedup claim for event %s: %+v", event.ID, err)
		return err
	}
	if !claimed {
		u.log.Infof("Webhook event already processed: id=%s", event.ID)
		return nil
	}

	payment, err := u.paymentRepo.FindByPaymentIntentID(u.db.WithContext(ctx), intent.ID)
	if err != nil {
		u.log.Warnf("Failed to find payment for intent %s: %+v", intent.ID, err)
		u.releaseEvent(ctx, event.ID)
		return err
	}
	if payment == nil {
		u.log.Warnf("Webhook for unknown payment intent: %s", intent.ID)
		u.releaseEvent(ctx, event.ID)
		return ErrPaymentNotFound
	}

	// A replayed event for a payment that already succeeded must not
	// double-apply the transfer or the status update
	if !payment.Status.CanTransitionTo(entity.PaymentSucceeded) {
		u.log.Infof("Payment %s already in status %s, ignoring event %s", payment.ID, payment.Status, event.ID)
		return nil
	}

	payment.Status = entity.PaymentSucceeded
	payment.StripeChargeID = intent.LatestCharge
	if err := u.paymentRepo.Update(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to mark payment %s succeeded: %+v", payment.ID, err)
		u.releaseEvent(ctx, event.ID)
		return err
	}

	u.settleToPractitioner(ctx, payment)
	u.markAppointmentPaid(ctx, payment)

	u.log.Infof("Payment succeeded: id=%s, intent=%s, fee=%s, payout=%s",
		payment.ID, intent.ID, payment.PlatformFee, payment.PractitionerAmount)
	return nil
}

func (u *paymentUsecase) handleIntentFailed(ctx context.Context, event *service.StripeEvent) error {
	var intent struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil || intent.ID == "" {
		return ErrInvalidEvent
	}

	claimed, err := u.claimEvent(ctx, event.ID)
	if err != nil {
		u.log.Warnf("Failed webhook dedup claim for event %s: %+v", event.ID, err)
		return err
	}
	if !claimed {
		return nil
	}

	payment, err := u.paymentRepo.FindByPaymentIntentID(u.db.WithContext(ctx), intent.ID)
	if err != nil {
		u.releaseEvent(ctx, event.ID)
		return err
	}
	if payment == nil {
		u.releaseEvent(ctx, event.ID)
		return ErrPaymentNotFound
	}
	if !payment.Status.CanTransitionTo(entity.PaymentFailed) {
		return nil
	}

	payment.Status = entity.PaymentFailed
	if err := u.paymentRepo.Update(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to mark payment %s failed: %+v", payment.ID, err)
		u.releaseEvent(ctx, event.ID)
		return err
	}

	u.log.Infof("Payment failed: id=%s, intent=%s", payment.ID, intent.ID)
	return nil
}

// settleToPractitioner transfers the practitioner share to their connected
// account. A failure here is logged and left for back-office follow-up
// rather than failing the webhook: the payment itself did succeed.
func (u *paymentUsecase) settleToPractitioner(ctx context.Context, payment *entity.Payment) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), payment.PractitionerID)
	if err != nil || practitioner == nil {
		u.log.Errorf("Cannot settle payment %s, practitioner %s lookup failed: %+v", payment.ID, payment.PractitionerID, err)
		return
	}
	if practitioner.StripeAccountID == "" {
		u.log.Warnf("Cannot settle payment %s, practitioner %s has no connected account", payment.ID, practitioner.ID)
		return
	}

	transfer, err := u.stripeService.CreateTransfer(ctx, practitioner.StripeAccountID,
		payment.PractitionerAmount, payment.Currency, payment.StripePaymentIntentID)
	if err != nil {
		u.log.Errorf("Transfer failed for payment %s: %+v", payment.ID, err)
		return
	}

	payment.StripeTransferID = transfer.ID
	if err := u.paymentRepo.Update(u.db.WithContext(ctx), payment); err != nil {
		u.log.Errorf("Failed to store transfer id for payment %s: %+v", payment.ID, err)
	}
}

// markAppointmentPaid mirrors the result onto the appointment's payment
// sub-record. The appointment status itself is untouched; confirmation is
// a separate practitioner action.
func (u *paymentUsecase) markAppointmentPaid(ctx context.Context, payment *entity.Payment) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), payment.AppointmentID)
	if err != nil || appointment == nil {
		u.log.Warnf("Failed to find appointment %s for paid payment %s: %+v", payment.AppointmentID, payment.ID, err)
		return
	}

	now := time.Now().UTC()
	appointment.PaymentStatus = entity.AppointmentPaymentPaid
	appointment.TransactionID = payment.StripePaymentIntentID
	appointment.PaidAt = &now
	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to mark appointment %s paid: %+v", appointment.ID, err)
	}
}

// GetPayment returns a payment to its patient, its practitioner, or an
// admin. The route layer enforces authentication, ownership lives here.
func (u *paymentUsecase) GetPayment(ctx context.Context, id, callerID uuid.UUID, callerRole entity.Role) (*dto.PaymentResponse, error) {
	payment, err := u.paymentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find payment %s: %+v", id, err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	if err := u.authorizePaymentAccess(ctx, payment, callerID, callerRole); err != nil {
		return nil, err
	}
	return converter.PaymentToResponse(payment), nil
}

// authorizePaymentAccess checks the caller against the payment's parties.
// PatientID is the patient's user id; PractitionerID is a practitioner
// profile id, so the caller's profile is resolved before comparing.
func (u *paymentUsecase) authorizePaymentAccess(ctx context.Context, payment *entity.Payment, callerID uuid.UUID, callerRole entity.Role) error {
	switch callerRole {
	case entity.RoleAdmin:
		return nil
	case entity.RolePatient:
		if payment.PatientID == callerID {
			return nil
		}
	case entity.RolePsychologue, entity.RolePsychiatre:
		profile, err := u.practitionerRepo.FindByUserID(u.db.WithContext(ctx), callerID)
		if err != nil {
			return err
		}
		if profile != nil && profile.ID == payment.PractitionerID {
			return nil
		}
	}
	return ErrProfileNotOwned
}

func (u *paymentUsecase) Refund(ctx context.Context, paymentID, refundedBy uuid.UUID, req *dto.RefundRequest) (*dto.PaymentResponse, error) {
	payment, err := u.paymentRepo.FindByID(u.db.WithContext(ctx), paymentID)
	if err != nil {
		u.log.Warnf("Failed to find payment %s: %+v", paymentID, err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if !payment.Status.CanTransitionTo(entity.PaymentRefunded) {
		return nil, ErrRefundNotAllowed
	}

	refundAmount := payment.Amount
	var gatewayAmount *decimal.Decimal
	if req.Amount != nil {
		refundAmount = decimal.NewFromFloat(*req.Amount).Round(2)
		if refundAmount.GreaterThan(payment.Amount) {
			return nil, ErrRefundTooLarge
		}
		gatewayAmount = &refundAmount
	}

	reason := req.Reason
	if reason == "" {
		reason = entity.RefundReasonRequestedByCustomer
	}

	refund, err := u.stripeService.CreateRefund(ctx, payment.StripeChargeID, gatewayAmount, reason)
	if err != nil {
		u.log.Warnf("Refund failed for payment %s: %+v", paymentID, err)
		return nil, err
	}

	now := time.Now().UTC()
	payment.Status = entity.PaymentRefunded
	payment.StripeRefundID = refund.ID
	payment.RefundAmount = &refundAmount
	payment.RefundReason = reason
	payment.RefundedAt = &now
	payment.RefundedBy = &refundedBy

	if err := u.paymentRepo.Update(u.db.WithContext(ctx), payment); err != nil {
		u.log.Warnf("Failed to store refund for payment %s: %+v", paymentID, err)
		return nil, err
	}

	u.log.Infof("Payment refunded: id=%s, refund=%s, amount=%s", paymentID, refund.ID, refundAmount)
	return converter.PaymentToResponse(payment), nil
}

func (u *paymentUsecase) CreateConnectedAccount(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.ConnectedAccountResponse, error) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), practitionerID)
	if err != nil {
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}
	// Only the profile owner or an admin may start onboarding
	if callerRole != entity.RoleAdmin && practitioner.UserID != callerID {
		return nil, ErrProfileNotOwned
	}

	account, err := u.stripeService.CreateConnectedAccount(ctx,
		practitioner.User.Email, practitioner.User.FirstName, practitioner.User.LastName,
		practitioner.ID.String(), practitioner.Specializations)
	if err != nil {
		u.log.Warnf("Failed to create connected account for practitioner %s: %+v", practitionerID, err)
		return nil, err
	}

	practitioner.StripeAccountID = account.AccountID
	if err := u.practitionerRepo.Update(u.db.WithContext(ctx), practitioner); err != nil {
		u.log.Warnf("Failed to store connected account for practitioner %s: %+v", practitionerID, err)
		return nil, err
	}

	u.log.Infof("Connected account created: practitioner=%s, account=%s", practitionerID, account.AccountID)
	return &dto.ConnectedAccountResponse{
		AccountID:     account.AccountID,
		OnboardingURL: account.OnboardingURL,
	}, nil
}

func (u *paymentUsecase) GetAccountStatus(ctx context.Context, practitionerID, callerID uuid.UUID, callerRole entity.Role) (*dto.AccountStatusResponse, error) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), practitionerID)
	if err != nil {
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}
	if callerRole != entity.RoleAdmin && practitioner.UserID != callerID {
		return nil, ErrProfileNotOwned
	}
	if practitioner.StripeAccountID == "" {
		return nil, ErrNoConnectedAccount
	}

	status, err := u.stripeService.GetAccountStatus(ctx, practitioner.StripeAccountID)
	if err != nil {
		u.log.Warnf("Failed to get account status for practitioner %s: %+v", practitionerID, err)
		return nil, err
	}

	return &dto.AccountStatusResponse{
		ChargesEnabled:   status.ChargesEnabled,
		PayoutsEnabled:   status.PayoutsEnabled,
		DetailsSubmitted: status.DetailsSubmitted,
	}, nil
}

// claimEvent atomically marks an event id as taken. Only the delivery that
// wins the claim processes the event; later or concurrent deliveries see
// claimed=false and stop.
func (u *paymentUsecase) claimEvent(ctx context.Context, eventID string) (bool, error) {
	return u.redisClient.SetNX(ctx, webhookEventKey(eventID), "processed", webhookDedupTTL).Result()
}

// releaseEvent gives the claim back after a failure so the gateway's
// redelivery can reprocess the event.
func (u *paymentUsecase) releaseEvent(ctx context.Context, eventID string) {
	if err := u.redisClient.Del(ctx, webhookEventKey(eventID)).Err(); err != nil {
		u.log.Warnf("Failed to release webhook event claim %s: %+v", eventID, err)
	}
}

func webhookEventKey(eventID string) string {
	return "stripe:event:" + eventID
}
