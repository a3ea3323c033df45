package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{"12.344", "12.34", true},
		{" 2.50 ", "2.5", true},
		{".5", "0.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.004", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
		{"1000000000000000", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{1, 99, 100, 123456, 1<<40 + 7} {
		if got := AmountToCents(AmountFromCents(cents)); got != cents {
			t.Fatalf("round trip %d -> %d", cents, got)
		}
	}
	if got := AmountToCents(decimal.RequireFromString("12.345")); got != 1235 {
		t.Fatalf("expected half-up to 1235, got %d", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cur  string
		in   string
		want string
	}{
		{"", "1234.5", "LKR 1,234.50"},
		{"LKR", "0", "LKR 0.00"},
		{"EUR", "12", "EUR 12.00"},
		{"LKR", "1000000.999", "LKR 1,000,001.00"},
		{"LKR", "-12", "-LKR 12.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.cur, decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%q, %s): expected %q, got %q", tc.cur, tc.in, tc.want, got)
		}
	}
}
