package utils

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits kept on finalised amounts.
const MoneyScale int32 = 4

// RateScale is the number of fractional digits stored on exchange rates.
const RateScale int32 = 6

var hundred = decimal.NewFromInt(100)

// RoundHalfUp rounds d to places using HALF_UP. shopspring's Round rounds half away
// from zero, which is HALF_UP for the non-negative amounts handled here.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundMoney finalises an amount to MoneyScale with HALF_UP.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, MoneyScale)
}

// PercentOf returns amount × percent / 100 rounded to MoneyScale.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(percent).Div(hundred))
}

// ToMinorUnits converts a major-unit amount to the smallest currency unit, truncating
// toward zero (e.g. NGN to kobo).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Truncate(0).IntPart()
}

