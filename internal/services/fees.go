package services

import "github.com/shopspring/decimal"

var (
	stripePercentFee   = decimal.RequireFromString("0.029")
	stripeFixedFee     = decimal.RequireFromString("0.30")
	platformPercentFee = decimal.RequireFromString("0.05")
)

// StripeFee is the card-processor fee for collecting amount: 2.9% + $0.30,
// rounded to cents.
func StripeFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(stripePercentFee).Add(stripeFixedFee).Round(2)
}

// PlatformFee is the platform's cut: 5% of the notional amount.
func PlatformFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(platformPercentFee).Round(2)
}

// ChargeAmount is what the card path actually submits for collection:
// notional amount plus both fees.
func ChargeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(StripeFee(amount)).Add(PlatformFee(amount))
}
