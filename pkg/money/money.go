package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Hundred converts between whole currency units and cents.
var Hundred = decimal.NewFromInt(100)

// Cents converts a decimal amount to integer cents, truncating sub-cent
// precision.
func Cents(amount decimal.Decimal) int {
	return int(amount.Mul(Hundred).IntPart())
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(Hundred)
}

// ParsePrice extracts a decimal amount from a formatted price string such
// as "$12.50" by stripping every non-numeric, non-dot character. Malformed
// input parses to zero rather than failing.
func ParsePrice(value string) decimal.Decimal {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// ParseShipping converts a shipping cost label to a decimal amount.
// "Free" (any casing) is zero; otherwise the numeric value after a leading
// "$" is used, with malformed input parsing to zero.
func ParseShipping(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "free") {
		return decimal.Zero
	}
	trimmed = strings.TrimPrefix(trimmed, "$")
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return ParsePrice(trimmed)
	}
	return parsed
}

// Format renders an amount as a display price string with two decimals.
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
