// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"fmt"
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mmapeak/internal/extract"
	"mmapeak/internal/format"
	"mmapeak/internal/util"
)

const (
	DevicesTableName              = "Devices"
	PerformanceTableName          = "Performance"
	DeviceSummaryTableName        = "Device Summary"
	OperationComparisonTableName  = "Operation Comparison"
	InsightsTableName             = "Insights"
	minSignificantSpeedup         = 1.5
	operationComparisonFirstField = 2 // index of the first device field in the comparison table
)

// TableDefinitions holds all tables keyed by name.
var TableDefinitions = map[string]TableDefinition{
	DevicesTableName: {
		Name:        DevicesTableName,
		HasRows:     true,
		MenuLabel:   DevicesTableName,
		NoDataFound: "No devices found in the log.",
		FieldsFunc:  deviceTableValues,
	},
	DeviceSummaryTableName: {
		Name:        DeviceSummaryTableName,
		HasRows:     true,
		MenuLabel:   DeviceSummaryTableName,
		NoDataFound: "No performance samples found in the log.",
		FieldsFunc:  deviceSummaryTableValues,
	},
	OperationComparisonTableName: {
		Name:         OperationComparisonTableName,
		HasRows:      true,
		MenuLabel:    OperationComparisonTableName,
		NoDataFound:  "No performance samples found in the log.",
		FieldsFunc:   operationComparisonTableValues,
		InsightsFunc: operationComparisonInsights,
	},
	PerformanceTableName: {
		Name:        PerformanceTableName,
		HasRows:     true,
		MenuLabel:   PerformanceTableName,
		NoDataFound: "No performance samples found in the log.",
		FieldsFunc:  performanceTableValues,
	},
}

// ReportTableNames is the order of tables in a report.
var ReportTableNames = []string{
	DevicesTableName,
	DeviceSummaryTableName,
	OperationComparisonTableName,
	PerformanceTableName,
}

// ReportTables returns the report's table definitions in report order.
func ReportTables() []TableDefinition {
	var tables []TableDefinition
	for _, name := range ReportTableNames {
		tables = append(tables, TableDefinitions[name])
	}
	return tables
}

func deviceTableValues(result extract.ParseResult) []Field {
	fields := []Field{
		{Name: "ID"},
		{Name: "Name"},
		{Name: "Compute Capability"},
		{Name: "Memory"},
		{Name: "Multiprocessors", Description: "number of streaming multiprocessors"},
	}
	for _, device := range result.Devices {
		fields[0].Values = append(fields[0].Values, strconv.Itoa(device.ID))
		fields[1].Values = append(fields[1].Values, device.Name)
		fields[2].Values = append(fields[2].Values, device.ComputeCapability)
		fields[3].Values = append(fields[3].Values, device.Memory)
		fields[4].Values = append(fields[4].Values, strconv.Itoa(device.MultiprocessorCount))
	}
	return fields
}

func performanceTableValues(result extract.ParseResult) []Field {
	fields := []Field{
		{Name: "Device"},
		{Name: "Operation"},
		{Name: "Description"},
		{Name: "Time"},
		{Name: "Time (ms)"},
		{Name: "TFLOPS"},
		{Name: "Level", Description: "high above 1000 TFLOPS, medium above 500 TFLOPS"},
	}
	for _, sample := range result.PerformanceData {
		fields[0].Values = append(fields[0].Values, sample.Device)
		fields[1].Values = append(fields[1].Values, sample.Operation)
		fields[2].Values = append(fields[2].Values, sample.OperationCN)
		fields[3].Values = append(fields[3].Values, format.Time(sample.TimeMs))
		fields[4].Values = append(fields[4].Values, strconv.FormatFloat(sample.TimeMs, 'f', -1, 64))
		fields[5].Values = append(fields[5].Values, strconv.FormatFloat(sample.Tflops, 'f', -1, 64))
		fields[6].Values = append(fields[6].Values, string(format.Level(sample.Tflops)))
	}
	return fields
}

func deviceSummaryTableValues(result extract.ParseResult) []Field {
	fields := []Field{
		{Name: "Device"},
		{Name: "Samples"},
		{Name: "Peak"},
		{Name: "Peak Operation"},
		{Name: "Geomean", Description: "geometric mean of all samples in TFLOPS"},
		{Name: "Total Time"},
		{Name: "High"},
		{Name: "Medium"},
		{Name: "Low"},
	}
	if len(result.PerformanceData) == 0 {
		return fields
	}
	p := message.NewPrinter(language.English) // use printer to get commas at thousands, e.g., 1,462.4
	for _, device := range DeviceNames(result) {
		var samples []extract.PerformanceData
		for _, sample := range result.PerformanceData {
			if sample.Device == device {
				samples = append(samples, sample)
			}
		}
		var peak extract.PerformanceData
		var tflops []float64
		var totalMs float64
		levels := make(map[format.PerformanceLevel]int)
		for i, sample := range samples {
			if i == 0 || sample.Tflops > peak.Tflops {
				peak = sample
			}
			tflops = append(tflops, sample.Tflops)
			totalMs += sample.TimeMs
			levels[format.Level(sample.Tflops)]++
		}
		geomean := ""
		if len(tflops) > 0 {
			geomean = p.Sprintf("%.1f", util.GeoMean(tflops))
		}
		peakValue := ""
		if len(samples) > 0 {
			peakValue = format.Tflops(peak.Tflops)
		}
		fields[0].Values = append(fields[0].Values, device)
		fields[1].Values = append(fields[1].Values, strconv.Itoa(len(samples)))
		fields[2].Values = append(fields[2].Values, peakValue)
		fields[3].Values = append(fields[3].Values, peak.Operation)
		fields[4].Values = append(fields[4].Values, geomean)
		fields[5].Values = append(fields[5].Values, format.Time(totalMs))
		fields[6].Values = append(fields[6].Values, strconv.Itoa(levels[format.LevelHigh]))
		fields[7].Values = append(fields[7].Values, strconv.Itoa(levels[format.LevelMedium]))
		fields[8].Values = append(fields[8].Values, strconv.Itoa(levels[format.LevelLow]))
	}
	return fields
}

func operationComparisonTableValues(result extract.ParseResult) []Field {
	fields := []Field{
		{Name: "Operation"},
		{Name: "Description"},
	}
	if len(result.PerformanceData) == 0 {
		return fields
	}
	devices := DeviceNames(result)
	for _, device := range devices {
		fields = append(fields, Field{Name: device, Description: "TFLOPS"})
	}
	best := BestTflops(result)
	for _, operation := range OperationNames(result) {
		fields[0].Values = append(fields[0].Values, operation)
		fields[1].Values = append(fields[1].Values, extract.OperationDescription(operation))
		for i, device := range devices {
			value := ""
			if tflops, ok := best[operation][device]; ok {
				value = strconv.FormatFloat(tflops, 'f', -1, 64)
			}
			fields[operationComparisonFirstField+i].Values = append(fields[operationComparisonFirstField+i].Values, value)
		}
	}
	return fields
}

// operationComparisonInsights notes operations where the fastest device is
// significantly faster than the slowest.
func operationComparisonInsights(result extract.ParseResult, tableValues TableValues) []Insight {
	var insights []Insight
	if len(tableValues.Fields) <= operationComparisonFirstField+1 {
		return insights
	}
	for row, operation := range tableValues.Fields[0].Values {
		var fastest, slowest string
		var fastestValue, slowestValue float64
		for _, field := range tableValues.Fields[operationComparisonFirstField:] {
			value, err := strconv.ParseFloat(field.Values[row], 64)
			if err != nil {
				continue
			}
			if fastest == "" || value > fastestValue {
				fastest, fastestValue = field.Name, value
			}
			if slowest == "" || value < slowestValue {
				slowest, slowestValue = field.Name, value
			}
		}
		if fastest == slowest || slowestValue <= 0 {
			continue
		}
		speedup := fastestValue / slowestValue
		if speedup < minSignificantSpeedup {
			continue
		}
		insights = append(insights, Insight{
			Observation: fmt.Sprintf("%s is %.1fx faster than %s on %s", fastest, speedup, slowest, operation),
			Detail:      fmt.Sprintf("%s vs %s", format.Tflops(fastestValue), format.Tflops(slowestValue)),
		})
	}
	return insights
}

// InsightsTableValues collects the insights of all tables into one table.
func InsightsTableValues(allTableValues []TableValues) TableValues {
	insightsTableValues := TableValues{
		TableDefinition: TableDefinition{
			Name:        InsightsTableName,
			HasRows:     true,
			MenuLabel:   InsightsTableName,
			NoDataFound: "No insights.",
		},
		Fields: []Field{
			{Name: "Observation", Values: []string{}},
			{Name: "Detail", Values: []string{}},
		},
	}
	for _, tableValues := range allTableValues {
		for _, insight := range tableValues.Insights {
			insightsTableValues.Fields[0].Values = append(insightsTableValues.Fields[0].Values, insight.Observation)
			insightsTableValues.Fields[1].Values = append(insightsTableValues.Fields[1].Values, insight.Detail)
		}
	}
	return insightsTableValues
}

// DeviceNames returns the device display names in report order: devices
// from the device list first, then any other device a sample refers to.
func DeviceNames(result extract.ParseResult) []string {
	var names []string
	for _, device := range result.Devices {
		names = util.UniqueAppend(names, device.Name)
	}
	for _, sample := range result.PerformanceData {
		names = util.UniqueAppend(names, sample.Device)
	}
	return names
}

// OperationNames returns the operations present in the result, known
// operations in benchmark run order followed by unknown ones in order of
// appearance.
func OperationNames(result extract.ParseResult) []string {
	present := mapset.NewSet[string]()
	for _, sample := range result.PerformanceData {
		present.Add(sample.Operation)
	}
	var names []string
	for _, code := range extract.OperationCodes() {
		if present.Contains(code) {
			names = append(names, code)
		}
	}
	for _, sample := range result.PerformanceData {
		if !slices.Contains(names, sample.Operation) {
			names = append(names, sample.Operation)
		}
	}
	return names
}

// BestTflops returns the highest throughput per operation per device.
func BestTflops(result extract.ParseResult) map[string]map[string]float64 {
	best := make(map[string]map[string]float64)
	for _, sample := range result.PerformanceData {
		if best[sample.Operation] == nil {
			best[sample.Operation] = make(map[string]float64)
		}
		if current, ok := best[sample.Operation][sample.Device]; !ok || sample.Tflops > current {
			best[sample.Operation][sample.Device] = sample.Tflops
		}
	}
	return best
}
