package entity

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat is a numeric field as it arrives from the admin UI's documents:
// a JSON number, a numeric string, an empty string, null, or absent
// altogether. Anything non-numeric unmarshals without error and is reported
// as not valid, so the caller decides the fallback. This keeps the leniency
// policy in one place instead of scattered parsing.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Flex builds a valid FlexFloat, mostly useful in tests and fixtures.
func Flex(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// Or returns the value when it is valid, otherwise the fallback.
func (f FlexFloat) Or(fallback float64) float64 {
	if f.Valid {
		return f.Value
	}
	return fallback
}

// Positive reports whether the field holds a number greater than zero.
func (f FlexFloat) Positive() bool {
	return f.Valid && f.Value > 0
}

// UnmarshalJSON accepts numbers, numeric strings and null. Non-numeric
// input yields an invalid (zero) FlexFloat rather than an error.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Value = 0
	f.Valid = false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	f.Value = v
	f.Valid = true
	return nil
}

// MarshalJSON writes the number, or null when the field was never set.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f.Value, 'f', -1, 64)), nil
}
