package extract

import (
	"regexp"
	"strconv"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ParsePrice converts a raw currency-formatted string like "₱26,999.00"
// into a numeric value. Every byte that is not an ASCII digit or a decimal
// point is stripped before parsing. A value that does not survive as a
// valid number returns nil; normalization never fails with an error.
func ParsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	stripped := nonPriceChars.ReplaceAllString(raw, "")
	if stripped == "" {
		return nil
	}
	value, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil
	}
	return &value
}
