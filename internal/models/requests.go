// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package models

// CropRequest is the body of POST /predict-crop. Key spellings, including
// Phosporus, are part of the public contract.
type CropRequest struct {
	Nitrogen    Number `json:"Nitrogen" validate:"required"`
	Phosphorus  Number `json:"Phosporus" validate:"required"`
	Potassium   Number `json:"Potassium" validate:"required"`
	Temperature Number `json:"Temperature" validate:"required"`
	Humidity    Number `json:"Humidity" validate:"required"`
	PH          Number `json:"pH" validate:"required"`
	Rainfall    Number `json:"Rainfall" validate:"required"`
}

// YieldRequest is the body of POST /predict-yield.
type YieldRequest struct {
	Year             Number `json:"Year" validate:"required,whole,positive"`
	RainfallMM       Number `json:"average_rain_fall_mm_per_year" validate:"required"`
	PesticidesTonnes Number `json:"pesticides_tonnes" validate:"required"`
	AvgTemp          Number `json:"avg_temp" validate:"required"`
	Area             string `json:"Area" validate:"notblank,max=128"`
	Crop             string `json:"Crop" validate:"notblank,max=128"`
}
