// Package chart draws bar charts of parsed benchmark results.
package chart

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"mmapeak/internal/extract"
	"mmapeak/internal/table"
)

const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Formats lists the supported image formats.
var Formats = []string{FormatPNG, FormatSVG}

// ErrNoSamples is returned when there is nothing to plot.
var ErrNoSamples = errors.New("no performance samples to plot")

const (
	DefaultWidth  = 16 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	groupWidth    = 24 // points available to the bars of one operation
)

// Options control the size, format and title of a chart.
type Options struct {
	Title  string
	Format string
	Width  vg.Length
	Height vg.Length
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = "Peak TFLOPS by operation"
	}
	return o
}

// TflopsByOperation returns a grouped bar chart with one group per operation
// and one bar per device. Each bar is the best TFLOPS of the device on that
// operation; missing samples are drawn as zero.
func TflopsByOperation(result extract.ParseResult, opts Options) (*plot.Plot, error) {
	if len(result.PerformanceData) == 0 {
		return nil, ErrNoSamples
	}
	opts = opts.withDefaults()
	operations := table.OperationNames(result)
	devices := table.DeviceNames(result)
	best := table.BestTflops(result)

	p := plot.New()
	p.Title.Text = opts.Title
	p.Y.Label.Text = "TFLOPS"
	p.Y.Min = 0
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.Legend.Top = true

	// only devices that have samples get a bar
	var plotted []string
	for _, device := range devices {
		for _, operation := range operations {
			if _, ok := best[operation][device]; ok {
				plotted = append(plotted, device)
				break
			}
		}
	}
	barWidth := vg.Points(groupWidth / float64(len(plotted)))
	for i, device := range plotted {
		values := make(plotter.Values, len(operations))
		for j, operation := range operations {
			values[j] = best[operation][device]
		}
		bar, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create bar chart for %s", device)
		}
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = plotutil.Color(i)
		bar.Offset = barWidth * vg.Length(float64(i)-float64(len(plotted)-1)/2)
		p.Add(bar)
		p.Legend.Add(device, bar)
	}
	p.NominalX(operations...)
	return p, nil
}

// Render draws the chart and returns the encoded image.
func Render(result extract.ParseResult, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if !slices.Contains(Formats, opts.Format) {
		return nil, fmt.Errorf("unsupported chart format %q, expected one of %v", opts.Format, Formats)
	}
	p, err := TflopsByOperation(result, opts)
	if err != nil {
		return nil, err
	}
	w, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chart writer")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode chart")
	}
	return buf.Bytes(), nil
}

// Save renders the chart into path.
func Save(result extract.ParseResult, opts Options, path string) error {
	out, err := Render(result, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil { // #nosec G306
		return errors.Wrapf(err, "failed to write chart %s", path)
	}
	slog.Debug("chart written", slog.String("path", path), slog.Int("bytes", len(out)))
	return nil
}
