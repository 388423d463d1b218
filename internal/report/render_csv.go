package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"mmapeak/internal/table"
)

// createCsvReport writes the row-form tables one after another, each preceded
// by a line holding the table name and separated by an empty record
func createCsvReport(allTableValues []table.TableValues) (out []byte, err error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, tableValues := range allTableValues {
		if !tableValues.HasRows || len(tableValues.Fields) == 0 {
			continue
		}
		if err = w.Write([]string{tableValues.Name}); err != nil {
			return nil, fmt.Errorf("failed to write csv table %s: %v", tableValues.Name, err)
		}
		header := make([]string, 0, len(tableValues.Fields))
		for _, field := range tableValues.Fields {
			header = append(header, field.Name)
		}
		if err = w.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write csv table %s: %v", tableValues.Name, err)
		}
		for row := range tableValues.Fields[0].Values {
			record := make([]string, 0, len(tableValues.Fields))
			for _, field := range tableValues.Fields {
				record = append(record, field.Values[row])
			}
			if err = w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write csv table %s: %v", tableValues.Name, err)
			}
		}
		if err = w.Write([]string{}); err != nil {
			return nil, fmt.Errorf("failed to write csv table %s: %v", tableValues.Name, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv report: %v", err)
	}
	out = buf.Bytes()
	return
}
