package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStripeFee(t *testing.T) {
	// 2.9% + $0.30 on $100.00 = $3.20
	assert.Equal(t, "3.2", StripeFee(decimal.NewFromInt(100)).String())
	// $0.01 notional still pays the fixed fee.
	assert.Equal(t, "0.3", StripeFee(decimal.RequireFromString("0.01")).String())
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, "5", PlatformFee(decimal.NewFromInt(100)).String())
	assert.Equal(t, "2500", PlatformFee(decimal.NewFromInt(50000)).String())
}

func TestChargeAmountIsNotionalPlusBothFees(t *testing.T) {
	for _, notional := range []int64{1, 100, 999, 50000, 1000000} {
		amount := decimal.NewFromInt(notional)
		expected := amount.Add(StripeFee(amount)).Add(PlatformFee(amount))
		assert.True(t, ChargeAmount(amount).Equal(expected), "notional %d", notional)
		assert.True(t, ChargeAmount(amount).GreaterThan(amount))
	}
}
