package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"mmapeak/internal/table"
)

// Package-level map for custom text renderers
var customTextRenderers = map[string]table.TextTableRenderer{}

// getCustomTextRenderer returns the custom text renderer for a table, or nil if no custom renderer exists
func getCustomTextRenderer(tableName string) table.TextTableRenderer {
	return customTextRenderers[tableName]
}

// RegisterTextRenderer allows external packages to register custom text renderers for specific tables
func RegisterTextRenderer(tableName string, renderer table.TextTableRenderer) {
	customTextRenderers[tableName] = renderer
}

func createTextReport(allTableValues []table.TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("%s\n", tableValues.Name))
		sb.WriteString(strings.Repeat("=", ansi.StringWidth(tableValues.Name)))
		sb.WriteString("\n")
		if !hasData(tableValues) {
			sb.WriteString(noDataMessage(tableValues) + "\n\n")
			continue
		}
		// custom renderer defined?
		if renderer := getCustomTextRenderer(tableValues.Name); renderer != nil {
			sb.WriteString(renderer(tableValues))
		} else {
			sb.WriteString(DefaultTextTableRendererFunc(tableValues))
		}
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

// padRight pads s with spaces to the given display width. Device names and
// descriptions contain CJK characters that occupy two terminal columns.
func padRight(s string, width int) string {
	if pad := width - ansi.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func DefaultTextTableRendererFunc(tableValues table.TableValues) string {
	var sb strings.Builder
	if tableValues.HasRows { // print the field names as column headings across the top of the table
		// find the longest item per column -- can be the field name (column header) or a value
		maxFieldLen := make([]int, len(tableValues.Fields))
		for i, field := range tableValues.Fields {
			// the last column shouldn't occupy more space than the value
			if i == len(tableValues.Fields)-1 {
				continue
			}
			// other columns should occupy the larger of the field name or the longest value
			maxFieldLen[i] = ansi.StringWidth(field.Name)
			for _, val := range field.Values {
				maxFieldLen[i] = max(maxFieldLen[i], ansi.StringWidth(val))
			}
		}
		columnSpacing := 3
		// print the field names
		for i, field := range tableValues.Fields {
			sb.WriteString(padRight(field.Name, maxFieldLen[i]+columnSpacing))
		}
		sb.WriteString("\n")
		// underline the field names
		for i, field := range tableValues.Fields {
			underline := strings.Repeat("-", ansi.StringWidth(field.Name))
			sb.WriteString(padRight(underline, maxFieldLen[i]+columnSpacing))
		}
		sb.WriteString("\n")
		// print the rows
		numRows := len(tableValues.Fields[0].Values)
		for row := 0; row < numRows; row++ {
			for fieldIdx, field := range tableValues.Fields {
				sb.WriteString(padRight(field.Values[row], maxFieldLen[fieldIdx]+columnSpacing))
			}
			sb.WriteString("\n")
		}
	} else {
		// get the longest field name to format the table nicely
		maxFieldNameLen := 0
		for _, field := range tableValues.Fields {
			maxFieldNameLen = max(maxFieldNameLen, ansi.StringWidth(field.Name))
		}
		// print the field names followed by their value
		for _, field := range tableValues.Fields {
			var value string
			if len(field.Values) > 0 {
				value = field.Values[0]
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", padRight(field.Name+":", maxFieldNameLen+1), value))
		}
	}
	return sb.String()
}
