// Package settlement holds the platform fee math, kept free of any
// persistence or gateway coupling so it stays unit-testable on its own.
package settlement

import "github.com/shopspring/decimal"

// feeRate is the share of each paid appointment the platform retains.
var feeRate = decimal.NewFromFloat(0.05)

// PlatformFee returns the platform's 5% cut of amount, rounded half away
// from zero to the cent.
func PlatformFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(feeRate).Round(2)
}

// PractitionerAmount returns what the practitioner receives for amount.
// Derived by subtraction from the rounded fee, never computed
// independently, so fee + payout always reconstructs the amount exactly.
func PractitionerAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2).Sub(PlatformFee(amount))
}

// Split returns both sides of the settlement for amount.
func Split(amount decimal.Decimal) (fee, payout decimal.Decimal) {
	fee = PlatformFee(amount)
	payout = amount.Round(2).Sub(fee)
	return fee, payout
}
