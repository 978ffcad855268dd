// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package models

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/agrismart/internal/validation"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Number
		wantErr bool
	}{
		{"number", `12.5`, NumberOf(12.5), false},
		{"integer", `1990`, NumberOf(1990), false},
		{"numeric string", `"1485.0"`, NumberOf(1485), false},
		{"padded string", `" 16.37 "`, NumberOf(16.37), false},
		{"zero is set", `0`, NumberOf(0), false},
		{"null", `null`, Number{}, false},
		{"empty string", `""`, Number{}, false},
		{"word", `"lots"`, Number{}, true},
		{"nan string", `"NaN"`, Number{}, true},
		{"bool", `true`, Number{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n Number
			err := n.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var ne *NumberError
				if !errors.As(err, &ne) {
					t.Errorf("error = %T, want *NumberError", err)
				}
				return
			}
			if n != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %+v, want %+v", tt.input, n, tt.want)
			}
		})
	}
}

func TestNumber_Int(t *testing.T) {
	t.Parallel()

	if v, ok := NumberOf(1990).Int(); !ok || v != 1990 {
		t.Errorf("Int() = %d, %v", v, ok)
	}
	if _, ok := NumberOf(1990.5).Int(); ok {
		t.Error("Int() accepted a fractional year")
	}
	if v, ok := NumberOf(3e9).Int(); !ok || v != 3000000000 {
		t.Errorf("Int(3e9) = %d, %v, want 3000000000, true", v, ok)
	}
	if _, ok := NumberOf(1e30).Int(); ok {
		t.Error("Int() accepted a value beyond the int range")
	}
}

func TestYieldRequest_Decode(t *testing.T) {
	t.Parallel()

	body := `{"Year":"1990","average_rain_fall_mm_per_year":1485.0,"pesticides_tonnes":"121","avg_temp":16.37,"Area":"Albania","Crop":"Maize"}`
	var req YieldRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := validation.ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct() = %v", err)
	}
	if req.Year.Value != 1990 || req.PesticidesTonnes.Value != 121 || req.Area != "Albania" {
		t.Errorf("decoded = %+v", req)
	}
}

func TestCropRequest_MissingFields(t *testing.T) {
	t.Parallel()

	var req CropRequest
	if err := json.Unmarshal([]byte(`{"Nitrogen":"90","Phosporus":42,"pH":""}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	err := validation.ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() expected error")
	}
	got := map[string]bool{}
	for _, fe := range err.Fields {
		got[fe.Field] = true
	}
	for _, field := range []string{"Potassium", "Temperature", "Humidity", "pH", "Rainfall"} {
		if !got[field] {
			t.Errorf("missing-field error for %s not reported (got %v)", field, got)
		}
	}
	if got["Nitrogen"] || got["Phosporus"] {
		t.Errorf("present fields reported as missing: %v", got)
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NumberOf(16.37)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"a":16.37,"b":null}` {
		t.Errorf("Marshal() = %s", out)
	}
}
