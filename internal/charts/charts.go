// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package charts renders historical yield views as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tomtom215/agrismart/internal/history"
)

// ContentType is the MIME type of rendered charts.
const ContentType = "image/png"

// Default image sizes.
const (
	BarWidth    = 10 * vg.Inch
	BarHeight   = 6 * vg.Inch
	TrendWidth  = 10 * vg.Inch
	TrendHeight = 5 * vg.Inch
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 0, G: 100, B: 0, A: 255}
)

// AreaYields draws the mean yield of the first n crops of an area, as
// returned by history.Table.AggregateBy.
func AreaYields(area string, crops []history.CropYield, n int) ([]byte, error) {
	if n > 0 && len(crops) > n {
		crops = crops[:n]
	}
	if len(crops) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Average yield by crop in %s", area)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Crop"
	p.Y.Label.Text = "Yield (hg/ha)"

	values := make(plotter.Values, len(crops))
	labels := make([]string, len(crops))
	for i, c := range crops {
		values[i] = c.AverageYield
		labels[i] = c.Crop
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0

	return render(p, BarWidth, BarHeight)
}

// YieldTrend draws yield over time for one area and crop.
func YieldTrend(subset history.Subset) ([]byte, error) {
	if len(subset) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s yield in %s", subset[0].Crop, subset[0].Area)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Yield (hg/ha)"

	points := make(plotter.XYs, len(subset))
	for i, r := range subset {
		points[i].X = float64(r.Year)
		points[i].Y = r.YieldHgPerHa
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("build trend line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)

	p.Add(line)
	p.Add(plotter.NewGrid())

	return render(p, TrendWidth, TrendHeight)
}

func render(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
