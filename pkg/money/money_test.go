package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"$12.50":   "12.5",
		"$1,200":   "1200",
		"30":       "30",
		"USD 9.99": "9.99",
		"":         "0",
		"n/a":      "0",
	}
	for input, want := range cases {
		if got := ParsePrice(input); !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParsePrice(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseShipping(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Free":    "0",
		"free":    "0",
		"$5.99":   "5.99",
		"$8":      "8",
		"7.25":    "7.25",
		"":        "0",
		"unknown": "0",
	}
	for input, want := range cases {
		if got := ParseShipping(input); !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseShipping(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := Format(decimal.RequireFromString("12.5")); got != "$12.50" {
		t.Fatalf("unexpected format: %s", got)
	}
}
