// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package testinfra writes self-contained fixtures for tests that need a
// complete prediction context: a small historical yield table plus fitted
// transform and model artifacts in every supported serialization format.
//
// Fixtures are written to t.TempDir(), so tests stay hermetic and parallel:
//
//	func TestPredictYield(t *testing.T) {
//	    cfg := testinfra.Config(t)
//	    ctx, err := app.Load(cfg)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer ctx.Close()
//	    // ...
//	}
//
// # Fixture Models
//
// The artifacts are tiny hand-built trees with known outputs, documented on
// the exported constants. No fitting library is involved, so expected values
// in assertions can be derived by hand:
//
//   - Yield regressor: Potatoes → 70000; otherwise year ≤ 2000 → 25000,
//     later years → 40000.
//   - Crop classifier: Nitrogen > 50 → Rice (1); otherwise Phosphorus ≤ 90 →
//     Chickpea (21), higher → label 23, which is outside the crop table.
package testinfra
