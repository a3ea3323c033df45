package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// groupingThreshold is the magnitude from which the display uses thousands
// separators.
const groupingThreshold = 1000

// maxDisplayFraction caps fractional digits in grouped output.
const maxDisplayFraction = 8

// FormatNumber returns the canonical string form of v as written to the
// display buffer: shortest round-trip digits, fixed notation between 1e-6 and
// 1e21, exponent notation outside that range, and Infinity / -Infinity / NaN
// for non-finite values. Negative zero renders as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDisplay renders a display buffer for presentation. Finite values with
// magnitude of at least 1000 get en-US thousands separators and at most eight
// fractional digits; everything else, including partial numerals like "12."
// and non-finite values, is returned unchanged.
func FormatDisplay(buffer string) string {
	v, err := strconv.ParseFloat(buffer, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return buffer
	}
	if math.Abs(v) < groupingThreshold {
		return buffer
	}

	// Round the shortest round-trip digits, not the binary expansion of v.
	digits := decimal.NewFromFloat(v).Round(maxDisplayFraction).Abs().String()
	intPart, frac, _ := strings.Cut(digits, ".")
	out := groupInt(intPart)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 {
		out = "-" + out
	}
	return out
}

// groupInt inserts en-US thousands separators into a string of decimal
// digits.
func groupInt(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		p := message.NewPrinter(language.AmericanEnglish)
		return p.Sprint(number.Decimal(n))
	}
	// Beyond int64 the exact digits are grouped directly.
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
