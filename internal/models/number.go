// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number is a request value sent either as a JSON number or as a numeric
// string. Form-driven clients post strings; scripted clients post numbers.
type Number struct {
	Value float64
	Set   bool
}

// NumberOf returns a set Number.
func NumberOf(v float64) Number {
	return Number{Value: v, Set: true}
}

// NumberError reports a value that is neither a number nor a numeric string.
type NumberError struct {
	Raw string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s is not a number", e.Raw)
}

// UnmarshalJSON accepts 12.5, "12.5" and " 12.5 ". null and "" leave the
// value unset so required-field validation reports it.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &NumberError{Raw: raw}
	}
	*n = Number{Value: v, Set: true}
	return nil
}

// MarshalJSON writes the value as a plain number, or null when unset.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Value, 'g', -1, 64), nil
}

// intRange is 2^63 on 64-bit platforms, exactly representable as float64.
const intRange = -float64(math.MinInt)

// Int returns the value as an int. ok is false when the value has a
// fractional part or does not fit in int.
func (n Number) Int() (int, bool) {
	if n.Value != math.Trunc(n.Value) || n.Value >= intRange || n.Value < -intRange {
		return 0, false
	}
	return int(n.Value), true
}

// Float64 returns the value and whether it was set.
func (n Number) Float64() (float64, bool) {
	return n.Value, n.Set
}
