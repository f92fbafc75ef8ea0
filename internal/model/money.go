package model

import (
	"fmt"
	"math"
	"strconv"
)

// ParseCents converts decimal string amounts (e.g. user input "129.90") to
// minor units (int64). Handles edge cases: empty strings, missing decimals,
// large values. Examples: "99.00" → 9900, "1234.56" → 123456, "" → 0.
func ParseCents(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	// math.Round handles both positive and negative numbers correctly
	return int64(math.Round(f * 100))
}

// FormatMinorUnits renders a minor-unit amount for display.
// The storefront API carries all amounts in minor units; formatting is the
// only place the decimal point reappears.
// Examples: (9900, "TRY") → "99.00 TRY", (-550, "TRY") → "-5.50 TRY".
func FormatMinorUnits(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if currency == "" {
		return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, currency)
}
