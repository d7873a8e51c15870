package domain

import "strings"

// CurrencyCode is an ISO 4217 code for a currency the platform prices in.
type CurrencyCode string

const (
	CurrencyNGN CurrencyCode = "NGN"
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyGBP CurrencyCode = "GBP"
)

var supportedCurrencies = map[CurrencyCode]struct{}{
	CurrencyNGN: {},
	CurrencyUSD: {},
	CurrencyEUR: {},
	CurrencyGBP: {},
}

// ParseCurrencyCode normalises code and reports whether it is supported.
func ParseCurrencyCode(code string) (CurrencyCode, bool) {
	c := CurrencyCode(strings.ToUpper(strings.TrimSpace(code)))
	_, ok := supportedCurrencies[c]
	return c, ok
}

// IsValid reports whether c is a supported currency.
func (c CurrencyCode) IsValid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c CurrencyCode) String() string { return string(c) }

// PairKey renders a display key such as "USD_TO_NGN".
func PairKey(from, to CurrencyCode) string {
	return string(from) + "_TO_" + string(to)
}
