// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package classify

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a classifier emits a label with no crop name.
var ErrUnknownLabel = errors.New("unknown crop label")

// UnknownLabelError carries the offending label.
type UnknownLabelError struct {
	Label int
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("classifier produced label %d, outside 1-%d", e.Label, len(cropNames))
}

// Unwrap lets errors.Is match ErrUnknownLabel.
func (e *UnknownLabelError) Unwrap() error {
	return ErrUnknownLabel
}

// cropNames[i] is the crop for label i+1.
var cropNames = [...]string{
	"Rice", "Maize", "Jute", "Cotton", "Coconut", "Papaya", "Orange",
	"Apple", "Muskmelon", "Watermelon", "Grapes", "Mango", "Banana",
	"Pomegranate", "Lentil", "Blackgram", "Mungbean", "Mothbeans",
	"Pigeonpeas", "Kidneybeans", "Chickpea", "Coffee",
}

// LabelCount is the number of crops the classifier can recommend.
const LabelCount = len(cropNames)

// LabelName maps a class label to its crop name.
func LabelName(label int) (string, error) {
	if label < 1 || label > len(cropNames) {
		return "", &UnknownLabelError{Label: label}
	}
	return cropNames[label-1], nil
}
