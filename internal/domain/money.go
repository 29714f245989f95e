package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Money-related validation errors
var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO 4217 code")
)

// DefaultMinorUnits is the number of decimal places used by most currencies.
const DefaultMinorUnits int32 = 2

// minorUnitExceptions lists ISO 4217 currencies whose minor unit is not 2.
var minorUnitExceptions = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// MinorUnits returns the number of decimal places for the given currency code.
func MinorUnits(currency string) int32 {
	if places, ok := minorUnitExceptions[strings.ToUpper(currency)]; ok {
		return places
	}
	return DefaultMinorUnits
}

// RoundToMinorUnit rounds an amount to the currency's minor unit using
// round-half-to-even.
func RoundToMinorUnit(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.RoundBank(MinorUnits(currency))
}

// NormalizeCurrency upper-cases a currency code and checks its shape.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}
