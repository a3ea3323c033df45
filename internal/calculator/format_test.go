package calculator

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{20, "20"},
		{-3.25, "-3.25"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Fatalf("FormatNumber(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999.5", "999.5"},
		{"12.", "12."},
		{"0.", "0."},
		{"1000", "1,000"},
		{"1234567", "1,234,567"},
		{"-2500", "-2,500"},
		{"1234.5", "1,234.5"},
		{"Infinity", "Infinity"},
		{"-Infinity", "-Infinity"},
		{"NaN", "NaN"},
		{"Infinit", "Infinit"},
		{"123456789012.123", "123,456,789,012.123"},
		{"1234.123456789", "1,234.12345679"},
		{"-98765.4321", "-98,765.4321"},
		{"99999999999999999999999", "99,999,999,999,999,990,000,000"},
		{"1e+21", "1,000,000,000,000,000,000,000"},
	}
	for _, tc := range cases {
		if got := FormatDisplay(tc.in); got != tc.want {
			t.Fatalf("FormatDisplay(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatDisplayIdempotent(t *testing.T) {
	for _, in := range []string{"0", "12.5", "1000", "98765.4321", "Infinity", "7."} {
		once := FormatDisplay(in)
		if twice := FormatDisplay(once); twice != once {
			t.Fatalf("%q: %q then %q", in, once, twice)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s, err := New().PressAll("2", "5", "0", "0", "+", "1")
	if err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Display != "1" || snap.Buffer != "1" || snap.Expression != "2,500 +" || snap.Pending != "+" || snap.Awaiting {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
