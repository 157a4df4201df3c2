package currency

import (
	"math"
	"testing"
)

func TestFormatINRGrouping(t *testing.T) {
	cases := map[float64]string{
		0:           "₹0.00",
		800:         "₹800.00",
		1200:        "₹1,200.00",
		1234.5:      "₹1,234.50",
		100000:      "₹1,00,000.00",
		12345678.9:  "₹1,23,45,678.90",
		999:         "₹999.00",
		1000:        "₹1,000.00",
		-800:        "-₹800.00",
		0.005:       "₹0.01",
		2499.999:    "₹2,500.00",
		10000000:    "₹1,00,00,000.00",
		100:         "₹100.00",
		54321.07:    "₹54,321.07",
		123456789.5: "₹12,34,56,789.50",
	}
	for value, want := range cases {
		if got := FormatINR(value); got != want {
			t.Fatalf("FormatINR(%v) = %q, want %q", value, got, want)
		}
	}
}

func TestFormatINRNonFinite(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := FormatINR(value); got != Zero {
			t.Fatalf("FormatINR(%v) = %q, want %q", value, got, Zero)
		}
	}
}
