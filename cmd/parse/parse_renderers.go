// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package parse

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mmapeak/internal/format"
	"mmapeak/internal/report"
	"mmapeak/internal/table"
)

// levelColors are the cell fills used for each performance level in xlsx reports
var levelColors = map[format.PerformanceLevel]string{
	format.LevelHigh:   "#009F81",
	format.LevelMedium: "#FFC33B",
	format.LevelLow:    "#EEEEEE",
}

func levelFieldIndex(tableValues table.TableValues) int {
	idx, err := table.GetFieldIndex("Level", tableValues)
	if err != nil {
		slog.Error("performance table has no level", slog.String("error", err.Error()))
		return -1
	}
	return idx
}

// performanceTableTextRenderer prints one sub-table per device
func performanceTableTextRenderer(tableValues table.TableValues) string {
	deviceIdx, err := table.GetFieldIndex("Device", tableValues)
	if err != nil {
		return report.DefaultTextTableRendererFunc(tableValues)
	}
	var devices []string
	rowsByDevice := make(map[string][]int)
	for row, device := range tableValues.Fields[deviceIdx].Values {
		if _, ok := rowsByDevice[device]; !ok {
			devices = append(devices, device)
		}
		rowsByDevice[device] = append(rowsByDevice[device], row)
	}
	var sb strings.Builder
	for i, device := range devices {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(device + "\n")
		deviceTable := table.TableValues{TableDefinition: tableValues.TableDefinition}
		for fieldIdx, field := range tableValues.Fields {
			if fieldIdx == deviceIdx {
				continue
			}
			values := make([]string, 0, len(rowsByDevice[device]))
			for _, row := range rowsByDevice[device] {
				values = append(values, field.Values[row])
			}
			deviceTable.Fields = append(deviceTable.Fields, table.Field{Name: field.Name, Description: field.Description, Values: values})
		}
		sb.WriteString(report.DefaultTextTableRendererFunc(deviceTable))
	}
	return sb.String()
}

// performanceTableHTMLRenderer colors the level cell of each sample
func performanceTableHTMLRenderer(tableValues table.TableValues, reportName string) string {
	levelIdx := levelFieldIndex(tableValues)
	if levelIdx < 0 {
		return report.DefaultHTMLTableRendererFunc(tableValues)
	}
	classes := make([][]string, len(tableValues.Fields[levelIdx].Values))
	for row, level := range tableValues.Fields[levelIdx].Values {
		classes[row] = make([]string, len(tableValues.Fields))
		classes[row][levelIdx] = "level-" + level
	}
	return report.RenderRowTableAsHTML(tableValues, classes)
}

// operationComparisonTableHTMLRenderer draws a bar chart of the best TFLOPS
// per device above the comparison table
func operationComparisonTableHTMLRenderer(tableValues table.TableValues, reportName string) string {
	const firstDeviceField = 2
	if len(tableValues.Fields) <= firstDeviceField {
		return report.DefaultHTMLTableRendererFunc(tableValues)
	}
	var data [][]float64
	var datasetNames []string
	maxValue := 0.0
	for _, field := range tableValues.Fields[firstDeviceField:] {
		values := make([]float64, 0, len(field.Values))
		for _, val := range field.Values {
			tflops, err := strconv.ParseFloat(val, 64)
			if err != nil {
				values = append(values, math.NaN())
				continue
			}
			maxValue = max(maxValue, tflops)
			values = append(values, tflops)
		}
		data = append(data, values)
		datasetNames = append(datasetNames, field.Name)
	}
	chartConfig := report.ChartTemplateStruct{
		ID:            "operationComparison",
		XaxisText:     "Operation",
		YaxisText:     "TFLOPS",
		TitleText:     "",
		DisplayTitle:  "false",
		DisplayLegend: "true",
		AspectRatio:   "3",
		SuggestedMin:  "0",
		SuggestedMax:  strconv.FormatFloat(math.Ceil(maxValue), 'f', 0, 64),
	}
	out := report.RenderBarChart(data, datasetNames, tableValues.Fields[0].Values, chartConfig)
	out += report.DefaultHTMLTableRendererFunc(tableValues)
	return out
}

// performanceTableXlsxRenderer fills the level cell of each sample with the level color
func performanceTableXlsxRenderer(tableValues table.TableValues, f *excelize.File, sheetName string, row *int) {
	headerRow := *row
	report.DefaultXlsxTableRendererFunc(tableValues, f, sheetName, row)
	levelIdx := levelFieldIndex(tableValues)
	if levelIdx < 0 {
		return
	}
	styles := make(map[string]int)
	for level, color := range levelColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "left"},
		})
		if err != nil {
			slog.Error("failed to create level style", slog.String("error", err.Error()))
			return
		}
		styles[string(level)] = style
	}
	col := 2 + levelIdx // the default renderer starts rows in the second column
	for i, level := range tableValues.Fields[levelIdx].Values {
		style, ok := styles[level]
		if !ok {
			continue
		}
		cell := report.CellName(col, headerRow+1+i)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}
