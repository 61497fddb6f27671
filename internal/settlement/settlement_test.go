package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		amount     string
		wantFee    string
		wantPayout string
	}{
		{"60.00", "3.00", "57.00"},
		{"55.55", "2.78", "52.77"}, // 55.55*0.05 = 2.7775 rounds up
		{"100.00", "5.00", "95.00"},
		{"0.00", "0.00", "0.00"},
		{"0.01", "0.00", "0.01"}, // 0.0005 rounds to 0.00
		{"0.10", "0.01", "0.09"}, // 0.005 rounds half up
		{"45.00", "2.25", "42.75"},
		{"70.30", "3.52", "66.78"}, // 3.515 rounds up
		{"123.45", "6.17", "117.28"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)

			fee, payout := Split(amount)
			assert.Equal(t, tt.wantFee, fee.StringFixed(2))
			assert.Equal(t, tt.wantPayout, payout.StringFixed(2))
		})
	}
}

func TestSplitSumsToAmount(t *testing.T) {
	// No cent may be lost or gained across the two sides, whatever the
	// amount looks like before rounding.
	for cents := int64(0); cents < 20000; cents += 7 {
		amount := decimal.New(cents, -2)
		fee, payout := Split(amount)
		if !fee.Add(payout).Equal(amount.Round(2)) {
			t.Fatalf("split of %s drifted: fee=%s payout=%s", amount, fee, payout)
		}
	}
}

func TestPractitionerAmountMatchesSplit(t *testing.T) {
	amount := decimal.NewFromFloat(87.65)
	_, payout := Split(amount)
	assert.True(t, PractitionerAmount(amount).Equal(payout))
}
