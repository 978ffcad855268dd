// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/agrismart/internal/logging"
)

// Column names of the persisted yield table.
const (
	ColYear       = "Year"
	ColRainfall   = "average_rain_fall_mm_per_year"
	ColPesticides = "pesticides_tonnes"
	ColTemp       = "avg_temp"
	ColArea       = "Area"
	ColItem       = "Item"
	ColCrop       = "Crop"
	ColYield      = "hg/ha_yield"
)

// Load reads the table at path. The format is chosen by extension:
// .csv or .xlsx (first sheet). Rows with a missing or non-numeric value are
// dropped; a table with no usable rows is an error.
func Load(path string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVFile(path)
	case ".xlsx":
		rows, err = readXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported historical table format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read historical table %s: %w", path, err)
	}

	records, dropped, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("parse historical table %s: %w", path, err)
	}

	// The caller logs the loaded table; only cleaning losses are reported here
	if dropped > 0 {
		logging.Warn().
			Str("path", path).
			Int("rows", len(records)).
			Int("dropped", dropped).
			Msg("Historical rows dropped during cleaning")
	}

	return New(records)
}

// ReadCSV parses a CSV yield table from r.
func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csvRows(r)
	if err != nil {
		return nil, err
	}
	records, _, err := parseRows(rows)
	return records, err
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	return csvRows(f)
}

func csvRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSXFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only workbook

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// columnIndex maps the required columns to their position in the header.
type columnIndex struct {
	year, rain, pest, temp, area, crop, yield int
}

func indexHeader(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	// The crop column is "Item" in the published dataset and "Crop" in older exports
	cropCol := ColItem
	if _, ok := pos[ColItem]; !ok {
		cropCol = ColCrop
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		year:  lookup(ColYear),
		rain:  lookup(ColRainfall),
		pest:  lookup(ColPesticides),
		temp:  lookup(ColTemp),
		area:  lookup(ColArea),
		crop:  lookup(cropCol),
		yield: lookup(ColYield),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRows(rows [][]string) ([]Record, int, error) {
	if len(rows) == 0 {
		return nil, 0, errors.New("table is empty")
	}

	idx, err := indexHeader(rows[0])
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		rec, ok := parseRecord(idx, row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

func parseRecord(idx columnIndex, row []string) (Record, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	area, crop := cell(idx.area), cell(idx.crop)
	if area == "" || crop == "" {
		return Record{}, false
	}

	year, ok := parseNumber(cell(idx.year))
	if !ok || year != math.Trunc(year) {
		return Record{}, false
	}
	rain, ok1 := parseNumber(cell(idx.rain))
	pest, ok2 := parseNumber(cell(idx.pest))
	temp, ok3 := parseNumber(cell(idx.temp))
	yield, ok4 := parseNumber(cell(idx.yield))
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Record{}, false
	}

	return Record{
		Year:             int(year),
		Area:             area,
		Crop:             crop,
		RainfallMM:       rain,
		PesticidesTonnes: pest,
		AvgTemp:          temp,
		YieldHgPerHa:     yield,
	}, true
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
