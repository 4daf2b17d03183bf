package domain

import (
	"strings"
	"testing"
)

func TestAmountDecimal(t *testing.T) {
	cases := []struct {
		minor int64
		want  float64
	}{
		{0, 0},
		{1, 0.01},
		{2500, 25},
		{10000, 100},
	}
	for _, tc := range cases {
		if got := AmountDecimal(tc.minor); got != tc.want {
			t.Fatalf("AmountDecimal(%d) = %v, want %v", tc.minor, got, tc.want)
		}
	}
}

func TestDisplayAmount(t *testing.T) {
	got := DisplayAmount(10000, "USD")
	if !strings.Contains(got, "100.00") {
		t.Fatalf("DisplayAmount(10000, USD) = %q, want it to contain 100.00", got)
	}
	if !strings.Contains(got, "$") {
		t.Fatalf("DisplayAmount(10000, USD) = %q, want a dollar symbol", got)
	}
}

func TestDisplayAmountFallsBackToUSD(t *testing.T) {
	got := DisplayAmount(2500, "nope")
	if !strings.Contains(got, "25.00") {
		t.Fatalf("DisplayAmount(2500, nope) = %q, want it to contain 25.00", got)
	}
}
