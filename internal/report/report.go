// Package report provides functions to generate reports in various formats such as txt, json, html, xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"mmapeak/internal/extract"
	"mmapeak/internal/table"
)

const (
	FormatHtml    = "html"
	FormatXlsx    = "xlsx"
	FormatJson    = "json"
	FormatTxt     = "txt"
	FormatCsv     = "csv"
	FormatGoBench = "gobench"
	FormatAll     = "all"
)

const noDataFound = "No data found."

// FormatOptions lists the supported report formats, excluding FormatAll.
var FormatOptions = []string{FormatHtml, FormatXlsx, FormatJson, FormatTxt, FormatCsv, FormatGoBench}

// FileExtensions maps each format to the extension of the file it is written to.
var FileExtensions = map[string]string{
	FormatHtml:    "html",
	FormatXlsx:    "xlsx",
	FormatJson:    "json",
	FormatTxt:     "txt",
	FormatCsv:     "csv",
	FormatGoBench: "bench",
}

// Create generates a report in the specified format.
// The function ensures that all fields have the same number of values before generating the report.
// Table formats (txt, json, html, xlsx, csv) are built from allTableValues, the gobench format
// is built from the samples in result.
// If the format is not supported, the function panics with an error message.
//
// Parameters:
// - format: The desired format of the report.
// - allTableValues: The values for each field in each table.
// - result: The parse result the tables were built from.
// - reportName: The name shown in the report title, typically the input file name.
//
// Returns:
// - out: The generated report as a byte slice.
// - err: An error, if any occurred during report generation.
func Create(format string, allTableValues []table.TableValues, result extract.ParseResult, reportName string) (out []byte, err error) {
	// make sure that all fields have the same number of values
	for _, tableValue := range allTableValues {
		numRows := -1
		for _, fieldValues := range tableValue.Fields {
			if numRows == -1 {
				numRows = len(fieldValues.Values)
				continue
			}
			if len(fieldValues.Values) != numRows {
				return nil, fmt.Errorf("table %s: expected %d value(s) for field %s, found %d", tableValue.Name, numRows, fieldValues.Name, len(fieldValues.Values))
			}
		}
	}
	switch format {
	case FormatTxt:
		return createTextReport(allTableValues)
	case FormatJson:
		return createJsonReport(allTableValues, result)
	case FormatHtml:
		return createHtmlReport(allTableValues, reportName)
	case FormatXlsx:
		return createXlsxReport(allTableValues)
	case FormatCsv:
		return createCsvReport(allTableValues)
	case FormatGoBench:
		return createGoBenchReport(result, reportName)
	}
	panic(fmt.Sprintf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format))
}

// hasData reports whether the table has at least one value
func hasData(tableValues table.TableValues) bool {
	return len(tableValues.Fields) > 0 && len(tableValues.Fields[0].Values) > 0
}

// noDataMessage returns the table's no-data message or the default
func noDataMessage(tableValues table.TableValues) string {
	if tableValues.NoDataFound != "" {
		return tableValues.NoDataFound
	}
	return noDataFound
}
