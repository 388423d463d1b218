package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/perf/benchfmt"

	"mmapeak/internal/extract"
	"mmapeak/internal/table"
)

const device0 = "NVIDIA GeForce RTX 5090 D (设备 0)"

func sampleReportInputs(t *testing.T) ([]table.TableValues, extract.ParseResult) {
	t.Helper()
	data, err := os.ReadFile("../extract/testdata/sample.log")
	require.NoError(t, err)
	result := extract.ParseResultData(string(data))
	allTableValues := table.ProcessTables(table.ReportTables(), result)
	allTableValues = append(allTableValues, table.InsightsTableValues(allTableValues))
	return allTableValues, result
}

func TestCreateRejectsMismatchedFields(t *testing.T) {
	tv := table.TableValues{
		TableDefinition: table.TableDefinition{Name: "bad", HasRows: true},
		Fields: []table.Field{
			{Name: "a", Values: []string{"1", "2"}},
			{Name: "b", Values: []string{"1"}},
		},
	}
	_, err := Create(FormatTxt, []table.TableValues{tv}, extract.ParseResult{}, "bad")
	assert.Error(t, err)
}

func TestCreateUnknownFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = Create("pdf", nil, extract.ParseResult{}, "x")
	})
}

func TestFileExtensionsCoverFormats(t *testing.T) {
	for _, format := range FormatOptions {
		assert.NotEmpty(t, FileExtensions[format], format)
	}
}

func TestCreateTextReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatTxt, allTableValues, result, "sample")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Devices\n=======\n")
	assert.Contains(t, text, device0)
	assert.Contains(t, text, "mma_mxf4mxf4f32_16_8_64")
	assert.Contains(t, text, "1.5K TFLOPS")
}

func TestCreateTextReportNoData(t *testing.T) {
	allTableValues := table.ProcessTables(table.ReportTables(), extract.ParseResult{})
	out, err := Create(FormatTxt, allTableValues, extract.ParseResult{}, "empty")
	require.NoError(t, err)
	assert.Contains(t, string(out), "No devices found in the log.")
}

func TestPadRightUsesDisplayWidth(t *testing.T) {
	// each CJK character occupies two columns
	assert.Equal(t, "设备 ", padRight("设备", 5))
	assert.Equal(t, "abc", padRight("abc", 2))
}

func TestCreateJsonReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatJson, allTableValues, result, "sample")
	require.NoError(t, err)

	var decoded struct {
		Devices         []extract.DeviceInfo      `json:"devices"`
		PerformanceData []extract.PerformanceData `json:"performanceData"`
		Tables          map[string][]map[string]string
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded.Devices, 2)
	assert.Len(t, decoded.PerformanceData, 40)
	assert.Equal(t, result.PerformanceData[0], decoded.PerformanceData[0])
	require.Len(t, decoded.Tables[table.DeviceSummaryTableName], 2)
	assert.Equal(t, "20", decoded.Tables[table.DeviceSummaryTableName][0]["Samples"])
	assert.Contains(t, decoded.Tables, table.InsightsTableName)
}

func TestCreateHtmlReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatHtml, allTableValues, result, "run<1>.log")
	require.NoError(t, err)
	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>mmapeak - run&lt;1&gt;.log</title>")
	assert.Contains(t, page, `<a href="#Device Summary">Device Summary</a>`)
	assert.Contains(t, page, `<h2 id="Operation Comparison">Operation Comparison</h2>`)
	assert.NotContains(t, page, "run<1>.log")
}

func TestDefaultHTMLTableRendererEscapesValues(t *testing.T) {
	tv := table.TableValues{
		TableDefinition: table.TableDefinition{Name: "t", HasRows: true},
		Fields:          []table.Field{{Name: "Device", Values: []string{"<script>"}}},
	}
	out := DefaultHTMLTableRendererFunc(tv)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart(
		[][]float64{{1, 2}, {3, 4}},
		[]string{"dev 'a'", "dev b"},
		[]string{"op1", "op2"},
		ChartTemplateStruct{ID: "c1", AspectRatio: "2", SuggestedMin: "0", SuggestedMax: "5", DisplayTitle: "false", DisplayLegend: "true"},
	)
	assert.Contains(t, out, "type: 'bar'")
	assert.Contains(t, out, "labels: ['op1','op2']")
	assert.Contains(t, out, `label: 'dev \'a\''`)
	assert.Contains(t, out, "data: [1,2]")
}

func TestCreateXlsxReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatXlsx, allTableValues, result, "sample")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{XlsxPrimarySheetName, XlsxSamplesSheetName}, f.GetSheetList())

	name, err := f.GetCellValue(XlsxPrimarySheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, table.DevicesTableName, name)

	header, err := f.GetCellValue(XlsxSamplesSheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Device", header)
	device, err := f.GetCellValue(XlsxSamplesSheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, device0, device)
}

func TestGetValueForCell(t *testing.T) {
	assert.Equal(t, 170, getValueForCell("170"))
	assert.Equal(t, 75.8, getValueForCell("75.8"))
	assert.Equal(t, "1.5K TFLOPS", getValueForCell("1.5K TFLOPS"))
}

func TestCreateCsvReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatCsv, allTableValues, result, "sample")
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{table.DevicesTableName}, records[0])
	assert.Equal(t, []string{"ID", "Name", "Compute Capability", "Memory", "Multiprocessors"}, records[1])
	assert.Equal(t, "0", records[2][0])
	assert.Equal(t, device0, records[2][1])
}

func TestCreateGoBenchReport(t *testing.T) {
	allTableValues, result := sampleReportInputs(t)
	out, err := Create(FormatGoBench, allTableValues, result, "sample.log")
	require.NoError(t, err)

	reader := benchfmt.NewReader(bytes.NewReader(out), "sample.bench")
	var results []*benchfmt.Result
	for reader.Scan() {
		if res, ok := reader.Result().(*benchfmt.Result); ok {
			results = append(results, res.Clone())
		}
	}
	require.NoError(t, reader.Err())
	require.Len(t, results, 40)
	first := results[0]
	assert.Equal(t, "MMA/op=mma_s4s4s32_8_8_32", first.Name.String())
	assert.Equal(t, device0, first.GetConfig("device"))
	assert.Equal(t, "sample.log", first.GetConfig("source"))
	tflops, ok := first.Value(GoBenchTflopsUnit)
	require.True(t, ok)
	assert.Equal(t, 75.8, tflops)
	assert.Equal(t, "higher", reader.Units().Get(GoBenchTflopsUnit, "better").Value)
}
