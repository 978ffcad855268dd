// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package history holds the historical crop yield table.
//
// The table is loaded once at startup and never mutated afterwards, so it
// can be shared by concurrent requests without locking. Every query returns
// fresh slices; callers may not reach the backing records.
package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptySubset is returned when an (area, crop) filter matches no records.
// It is a client error: the caller asked for a combination the table does not know.
var ErrEmptySubset = errors.New("no historical records")

// EmptySubsetError names the combination that matched nothing.
type EmptySubsetError struct {
	Area string
	Crop string
}

func (e *EmptySubsetError) Error() string {
	return fmt.Sprintf("no historical data available for %s in %s", e.Crop, e.Area)
}

// Unwrap lets errors.Is match ErrEmptySubset.
func (e *EmptySubsetError) Unwrap() error {
	return ErrEmptySubset
}

// Record is one row of the historical yield table.
type Record struct {
	Year             int
	Area             string
	Crop             string
	RainfallMM       float64
	PesticidesTonnes float64
	AvgTemp          float64
	YieldHgPerHa     float64
}

// CropYield is a crop with its mean yield in hg/ha.
type CropYield struct {
	Crop         string  `json:"name"`
	AverageYield float64 `json:"value"`
}

// Combination is an (area, crop) pair with its mean yield.
type Combination struct {
	Area         string  `json:"area"`
	Crop         string  `json:"crop"`
	AverageYield float64 `json:"average_yield"`
}

type pairKey struct {
	area string
	crop string
}

// Table is the immutable in-memory historical dataset.
type Table struct {
	records []Record
	byPair  map[pairKey][]int
	byArea  map[string][]int
	areas   []string
	crops   []string
}

// New builds a Table from records. The slice is copied.
// Duplicate (area, crop, year) rows are kept; aggregates average across them.
func New(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("historical table has no records")
	}

	t := &Table{
		records: make([]Record, len(records)),
		byPair:  make(map[pairKey][]int),
		byArea:  make(map[string][]int),
	}
	copy(t.records, records)

	crops := make(map[string]struct{})
	for i, r := range t.records {
		k := pairKey{area: r.Area, crop: r.Crop}
		t.byPair[k] = append(t.byPair[k], i)
		t.byArea[r.Area] = append(t.byArea[r.Area], i)
		crops[r.Crop] = struct{}{}
	}

	t.areas = make([]string, 0, len(t.byArea))
	for a := range t.byArea {
		t.areas = append(t.areas, a)
	}
	sort.Strings(t.areas)

	t.crops = make([]string, 0, len(crops))
	for c := range crops {
		t.crops = append(t.crops, c)
	}
	sort.Strings(t.crops)

	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Areas returns the distinct areas, sorted.
func (t *Table) Areas() []string {
	return append([]string(nil), t.areas...)
}

// Crops returns the distinct crops, sorted.
func (t *Table) Crops() []string {
	return append([]string(nil), t.crops...)
}

// Filter returns the records for an exact, case-sensitive (area, crop) match,
// ordered by year. Inputs are trimmed. An empty match is an *EmptySubsetError.
func (t *Table) Filter(area, crop string) (Subset, error) {
	area = strings.TrimSpace(area)
	crop = strings.TrimSpace(crop)

	idx := t.byPair[pairKey{area: area, crop: crop}]
	if len(idx) == 0 {
		return nil, &EmptySubsetError{Area: area, Crop: crop}
	}

	out := make(Subset, len(idx))
	for i, j := range idx {
		out[i] = t.records[j]
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Year < out[b].Year })
	return out, nil
}

// AggregateBy returns the mean yield of every crop grown in area, highest first.
// Ties are ordered by crop name. An unknown area yields an empty slice.
func (t *Table) AggregateBy(area string) []CropYield {
	groups := make(map[string][]float64)
	for _, j := range t.byArea[strings.TrimSpace(area)] {
		r := t.records[j]
		groups[r.Crop] = append(groups[r.Crop], r.YieldHgPerHa)
	}

	out := make([]CropYield, 0, len(groups))
	for crop, yields := range groups {
		out = append(out, CropYield{Crop: crop, AverageYield: stat.Mean(yields, nil)})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].AverageYield != out[b].AverageYield {
			return out[a].AverageYield > out[b].AverageYield
		}
		return out[a].Crop < out[b].Crop
	})
	return out
}

// TopCombinations returns the n (area, crop) pairs with the highest mean yield.
func (t *Table) TopCombinations(n int) []Combination {
	out := make([]Combination, 0, len(t.byPair))
	for k, idx := range t.byPair {
		yields := make([]float64, len(idx))
		for i, j := range idx {
			yields[i] = t.records[j].YieldHgPerHa
		}
		out = append(out, Combination{Area: k.area, Crop: k.crop, AverageYield: stat.Mean(yields, nil)})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].AverageYield != out[b].AverageYield {
			return out[a].AverageYield > out[b].AverageYield
		}
		if out[a].Area != out[b].Area {
			return out[a].Area < out[b].Area
		}
		return out[a].Crop < out[b].Crop
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Stats returns min, max and mean of every numeric column over the whole table.
func (t *Table) Stats() Stats {
	return computeStats(t.records)
}

// Quartiles returns the 25th, 50th and 75th percentiles of the input columns.
func (t *Table) Quartiles() Quartiles {
	rain := make([]float64, len(t.records))
	temp := make([]float64, len(t.records))
	pest := make([]float64, len(t.records))
	for i, r := range t.records {
		rain[i] = r.RainfallMM
		temp[i] = r.AvgTemp
		pest[i] = r.PesticidesTonnes
	}
	return Quartiles{
		Rainfall:    quartilesOf(rain),
		Temperature: quartilesOf(temp),
		Pesticides:  quartilesOf(pest),
	}
}

// Subset is the year-ordered result of a Filter call.
type Subset []Record

// Stats returns min, max and mean of every numeric column in the subset.
func (s Subset) Stats() Stats {
	return computeStats(s)
}

// MeanYield returns the arithmetic mean of the yield column, 0 for an empty subset.
func (s Subset) MeanYield() float64 {
	if len(s) == 0 {
		return 0
	}
	yields := make([]float64, len(s))
	for i, r := range s {
		yields[i] = r.YieldHgPerHa
	}
	return stat.Mean(yields, nil)
}

// Recent returns up to n of the latest records with Year <= year, oldest first.
func (s Subset) Recent(year, n int) []Record {
	out := make([]Record, 0, n)
	for _, r := range s {
		if r.Year <= year {
			out = append(out, r)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Stats summarizes every numeric column of a record set.
type Stats struct {
	Year        ColumnStats `json:"year"`
	Rainfall    ColumnStats `json:"rainfall"`
	Pesticides  ColumnStats `json:"pesticides"`
	Temperature ColumnStats `json:"temperature"`
	Yield       ColumnStats `json:"yield"`
}

// Range is a low/medium/high triple of quantiles.
type Range struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Quartiles holds the recommended input ranges derived from the table.
type Quartiles struct {
	Rainfall    Range `json:"rainfall"`
	Temperature Range `json:"temperature"`
	Pesticides  Range `json:"pesticides"`
}

func computeStats(records []Record) Stats {
	if len(records) == 0 {
		return Stats{}
	}
	n := len(records)
	year, rain, pest, temp, yield := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, r := range records {
		year[i] = float64(r.Year)
		rain[i] = r.RainfallMM
		pest[i] = r.PesticidesTonnes
		temp[i] = r.AvgTemp
		yield[i] = r.YieldHgPerHa
	}
	return Stats{
		Year:        columnStats(year),
		Rainfall:    columnStats(rain),
		Pesticides:  columnStats(pest),
		Temperature: columnStats(temp),
		Yield:       columnStats(yield),
	}
}

func columnStats(xs []float64) ColumnStats {
	return ColumnStats{
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: stat.Mean(xs, nil),
	}
}

func quartilesOf(xs []float64) Range {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return Range{
		Low:    quantile(sorted, 0.25),
		Medium: quantile(sorted, 0.5),
		High:   quantile(sorted, 0.75),
	}
}

// quantile interpolates linearly between the two closest ranks
// (position p*(n-1)), the estimator dataframe libraries default to.
// sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
