package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentProcessing, true},
		{PaymentPending, PaymentCancelled, true},
		{PaymentPending, PaymentSucceeded, false},
		{PaymentProcessing, PaymentSucceeded, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentProcessing, PaymentCancelled, true},
		{PaymentProcessing, PaymentRefunded, false},
		{PaymentSucceeded, PaymentRefunded, true},
		{PaymentSucceeded, PaymentSucceeded, false},
		{PaymentSucceeded, PaymentFailed, false},
		{PaymentFailed, PaymentProcessing, false},
		{PaymentCancelled, PaymentProcessing, false},
		{PaymentRefunded, PaymentSucceeded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsValidCurrency(t *testing.T) {
	assert.True(t, IsValidCurrency("eur"))
	assert.True(t, IsValidCurrency("usd"))
	assert.True(t, IsValidCurrency("gbp"))
	assert.False(t, IsValidCurrency("EUR"))
	assert.False(t, IsValidCurrency("chf"))
	assert.False(t, IsValidCurrency(""))
}

func TestIsValidRefundReason(t *testing.T) {
	assert.True(t, IsValidRefundReason("duplicate"))
	assert.True(t, IsValidRefundReason("fraudulent"))
	assert.True(t, IsValidRefundReason("requested_by_customer"))
	assert.False(t, IsValidRefundReason("other"))
}
