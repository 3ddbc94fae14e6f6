// Package money parses and validates monetary amounts at the input boundary.
//
// Amounts are fixed-point decimals with at most two fractional digits, strictly
// positive and no greater than 999,999,999.99.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every stored amount carries.
const Scale = 2

var (
	ErrEmpty       = errors.New("amount is required")
	ErrNotNumeric  = errors.New("amount must be a number")
	ErrNotPositive = errors.New("amount must be greater than zero")
	ErrTooPrecise  = errors.New("amount must have at most 2 decimal places")
	ErrTooLarge    = errors.New("amount must not exceed 999999999.99")
)

// Max is the largest amount accepted anywhere in the ledger.
var Max = decimal.RequireFromString("999999999.99")

var numeric = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Parse turns user input such as "12.50" into a validated amount.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}

	if !numeric.MatchString(s) {
		return decimal.Zero, ErrNotNumeric
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}

	if err := Validate(d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

// Validate checks an already decoded amount against the same rules as Parse.
func Validate(d decimal.Decimal) error {
	if d.Exponent() < -Scale {
		return ErrTooPrecise
	}

	if d.Sign() <= 0 {
		return ErrNotPositive
	}

	if d.GreaterThan(Max) {
		return ErrTooLarge
	}

	return nil
}

// Cents converts an amount to an integer number of cents, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(Scale).Round(0).IntPart()
}

// FromCents is the inverse of Cents.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -Scale)
}
