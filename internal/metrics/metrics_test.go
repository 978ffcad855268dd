// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errBadInput = errors.New("bad input")

func TestRecordPrediction(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		err        error
		wantResult string
	}{
		{"success", "test-success", nil, "success"},
		{"rejected input", "test-rejected", fmt.Errorf("wrap: %w", errBadInput), "rejected"},
		{"runtime failure", "test-error", errors.New("session closed"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordPrediction(tt.model, time.Millisecond, tt.err, errBadInput)

			got := testutil.ToFloat64(PredictionsTotal.WithLabelValues(tt.model, tt.wantResult))
			if got != 1 {
				t.Errorf("predictions_total{%s,%s} = %v, want 1", tt.model, tt.wantResult, got)
			}
		})
	}
}

func TestRecordArtifactLoad(t *testing.T) {
	RecordArtifactLoad("test-artifact", errors.New("missing"))
	RecordArtifactLoad("test-artifact", errors.New("corrupt"))
	RecordArtifactLoad("test-artifact", nil)

	if got := testutil.ToFloat64(ArtifactLoadAttempts.WithLabelValues("test-artifact", "failure")); got != 2 {
		t.Errorf("failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ArtifactLoadAttempts.WithLabelValues("test-artifact", "success")); got != 1 {
		t.Errorf("successes = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheHits.WithLabelValues("test-cache"))
	RecordCacheLookup("test-cache", true)
	RecordCacheLookup("test-cache", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test-cache")); got != before+1 {
		t.Errorf("hits = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test-cache")); got < 1 {
		t.Errorf("misses = %v, want >= 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active after dec = %v, want %v", got, before)
	}
}

func TestRecordDBQuery(t *testing.T) {
	RecordDBQuery("test-distinct", 5*time.Millisecond, nil)
	RecordDBQuery("test-distinct", 5*time.Millisecond, errors.New("no such file"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test-distinct")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(404); got != "404" {
		t.Errorf("StatusLabel(404) = %q", got)
	}
}
