package converter

import (
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
)

// PaymentToResponse converts a Payment entity to the wire shape
func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	response := &dto.PaymentResponse{
		ID:                 payment.ID,
		Appointment:        payment.AppointmentID,
		Patient:            payment.PatientID,
		Practitioner:       payment.PractitionerID,
		Amount:             payment.Amount.InexactFloat64(),
		PlatformFee:        payment.PlatformFee.InexactFloat64(),
		PractitionerAmount: payment.PractitionerAmount.InexactFloat64(),
		Currency:           payment.Currency,
		Status:             string(payment.Status),
		PaymentMethod:      payment.PaymentMethod,
		Stripe: dto.StripeRefsDTO{
			PaymentIntentID: payment.StripePaymentIntentID,
			ChargeID:        payment.StripeChargeID,
			TransferID:      payment.StripeTransferID,
			RefundID:        payment.StripeRefundID,
		},
		Metadata: dto.PaymentMetadataDTO{
			AppointmentType:            payment.Metadata.AppointmentType,
			PractitionerSpecialization: payment.Metadata.PractitionerSpecialization,
			PatientID:                  payment.Metadata.PatientID,
			PractitionerID:             payment.Metadata.PractitionerID,
		},
		CreatedAt: payment.CreatedAt,
		UpdatedAt: payment.UpdatedAt,
	}

	if payment.RefundAmount != nil {
		response.Refund = &dto.RefundDTO{
			Amount:     payment.RefundAmount.InexactFloat64(),
			Reason:     payment.RefundReason,
			RefundedAt: payment.RefundedAt,
			RefundedBy: payment.RefundedBy,
		}
	}

	return response
}
