// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDistinctOptions_CropColumn(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	path := writeCSV(t, "crop_data.csv", strings.Join([]string{
		"Area,Crop,Year,hg/ha_yield",
		"Kenya,Tea,2001,1200",
		"Albania,Maize,1990,36613",
		"Kenya,Maize,2001,1500",
		"Albania,Maize,1991,29068",
		" ,Wheat,1991,100",
	}, "\n")+"\n")

	opts, err := db.DistinctOptions(context.Background(), path)
	if err != nil {
		t.Fatalf("DistinctOptions() error = %v", err)
	}
	if strings.Join(opts.Areas, ",") != "Albania,Kenya" {
		t.Errorf("Areas = %v", opts.Areas)
	}
	if strings.Join(opts.Crops, ",") != "Maize,Tea,Wheat" {
		t.Errorf("Crops = %v", opts.Crops)
	}
}

func TestDistinctOptions_ItemFallback(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	path := writeCSV(t, "yield_df.csv", "Area,Item,Year\nAlgeria,Wheat,1990\nAlbania,Potatoes,1990\n")

	opts, err := db.DistinctOptions(context.Background(), path)
	if err != nil {
		t.Fatalf("DistinctOptions() error = %v", err)
	}
	if strings.Join(opts.Crops, ",") != "Potatoes,Wheat" {
		t.Errorf("Crops = %v", opts.Crops)
	}
}

func TestDistinctOptions_Errors(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.DistinctOptions(ctx, "yield.xlsx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("xlsx error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := db.DistinctOptions(ctx, filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("missing file expected error")
	}

	noCrop := writeCSV(t, "no_crop.csv", "Area,Year\nKenya,2001\n")
	if _, err := db.DistinctOptions(ctx, noCrop); err == nil {
		t.Error("table without crop column expected error")
	}
}

func TestDistinctOptions_QuotedPath(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	path := writeCSV(t, "farmer's data.csv", "Area,Crop\nPeru,Quinoa\n")

	opts, err := db.DistinctOptions(context.Background(), path)
	if err != nil {
		t.Fatalf("DistinctOptions() error = %v", err)
	}
	if len(opts.Areas) != 1 || opts.Areas[0] != "Peru" {
		t.Errorf("Areas = %v", opts.Areas)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := (&DB{}).Ping(context.Background()); err == nil {
		t.Error("Ping() on nil connection expected error")
	}
}
