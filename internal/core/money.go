// Package core provides the domain types of the finance tracker and its money
// helpers.
//
// Amounts are decimal.Decimal values rounded half-up to two places; storage
// layers persist them as integer cents.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency labels formatted amounts when no currency is configured.
const DefaultCurrency = "LKR"

// maxAmount bounds parsed amounts so that cents always fit an int64.
var maxAmount = decimal.New(1, 15)

// ParseAmount converts a user-entered amount into a decimal rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Signs, exponents, grouping and
// zero amounts are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
//	ParseAmount("0.004")  -> ErrInvalidAmount (rounds to zero)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if s == "." {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() || d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountToCents converts an amount to integer cents, rounding half-up.
func AmountToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// AmountFromCents is the inverse of AmountToCents.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders an amount with en-US grouping and exactly two
// decimals, prefixed by the currency label: "LKR 1,234.50", "-LKR 12.00".
func FormatAmount(currency string, d decimal.Decimal) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	sign := ""
	d = d.Round(2)
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + currency + " " + p.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}
