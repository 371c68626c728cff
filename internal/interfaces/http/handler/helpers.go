package handler

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// parseDecimal parses a required decimal field submitted as a string.
// Decimals travel as strings on the wire so fractional weights and rates
// survive without float rounding.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number, got %q", field, value)
	}
	return d, nil
}

// parseOptionalDecimal parses an optional decimal field, returning nil when absent
func parseOptionalDecimal(field string, value *string) (*decimal.Decimal, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDecimalOrZero parses an optional decimal field, returning zero when absent
func parseDecimalOrZero(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(field, value)
}
