// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/agrismart/internal/classify"
	"github.com/tomtom215/agrismart/internal/encoder"
	"github.com/tomtom215/agrismart/internal/history"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/models"
	"github.com/tomtom215/agrismart/internal/validation"
)

// maxBodyBytes bounds prediction request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.Quote(strconv.FormatUint(uint64(hash), 16))
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// decodeJSON reads a request body into dst. An empty body, malformed JSON
// and non-numeric numbers all map to 400 BAD_REQUEST.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, models.CodeBadRequest, "Request body too large", nil)
			return false
		}
		respondError(w, http.StatusBadRequest, models.CodeBadRequest, "Could not read request body", nil)
		return false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		respondError(w, http.StatusBadRequest, models.CodeBadRequest, "No data provided", nil)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var numErr *models.NumberError
		msg := err.Error()
		if errors.As(err, &numErr) {
			msg = numErr.Error()
		}
		respondError(w, http.StatusBadRequest, models.CodeBadRequest, "Invalid input data: "+msg, nil)
		return false
	}
	return true
}

// validateRequest runs struct validation and writes the 400 response on
// failure. It returns true when the request may proceed.
func validateRequest(w http.ResponseWriter, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// respondDomainError maps an error from the prediction path to a status
// code and error body. Client errors are logged at warn, the rest at error
// with the request id.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		subsetErr   *history.EmptySubsetError
		categoryErr *encoder.UnknownCategoryError
		labelErr    *classify.UnknownLabelError
	)

	log := logging.Ctx(r.Context())

	switch {
	case errors.As(err, &subsetErr):
		log.Warn().Str("area", sanitizeLogValue(subsetErr.Area)).Str("crop", sanitizeLogValue(subsetErr.Crop)).Msg("No historical rows for request")
		respondError(w, http.StatusBadRequest, models.CodeEmptySubset,
			fmt.Sprintf("No historical data available for %s in %s. Please choose a different combination.", subsetErr.Crop, subsetErr.Area),
			map[string]interface{}{"area": subsetErr.Area, "crop": subsetErr.Crop})

	case errors.As(err, &categoryErr):
		log.Warn().Str("column", categoryErr.Column).Str("value", sanitizeLogValue(categoryErr.Value)).Msg("Unknown category")
		respondError(w, http.StatusBadRequest, models.CodeUnknownCategory, err.Error(),
			map[string]interface{}{"column": categoryErr.Column, "value": categoryErr.Value})

	case errors.As(err, &labelErr):
		log.Error().Int("label", labelErr.Label).Msg("Classifier produced an unknown label")
		respondError(w, http.StatusInternalServerError, models.CodeUnknownLabel, err.Error(),
			map[string]interface{}{"label": labelErr.Label})

	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Warn().Err(err).Msg("Model circuit open")
		respondError(w, http.StatusServiceUnavailable, models.CodeUnavailable, err.Error(), nil)

	default:
		log.Error().Str("error", sanitizeLogValue(err.Error())).Msg("Prediction failed")
		respondError(w, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
	}
}
