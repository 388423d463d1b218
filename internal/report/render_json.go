package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"

	"mmapeak/internal/extract"
	"mmapeak/internal/table"
)

type outRecord map[string]string
type outTable []outRecord

// JSONReport is the layout of the json report. The parse result is inlined so
// the file can be loaded directly by the visualization frontend.
type JSONReport struct {
	extract.ParseResult
	Tables map[string]outTable `json:"tables"`
}

func createJsonReport(allTableValues []table.TableValues, result extract.ParseResult) (out []byte, err error) {
	oReport := JSONReport{
		ParseResult: result,
		Tables:      make(map[string]outTable),
	}
	for _, tableValues := range allTableValues {
		oTable := outTable{}
		if len(tableValues.Fields) == 0 {
			oReport.Tables[tableValues.Name] = oTable
			continue
		}
		numRecords := len(tableValues.Fields[0].Values)
		for recordIdx := 0; recordIdx < numRecords; recordIdx++ {
			oRecord := make(outRecord)
			for _, field := range tableValues.Fields {
				oRecord[field.Name] = field.Values[recordIdx]
			}
			oTable = append(oTable, oRecord)
		}
		oReport.Tables[tableValues.Name] = oTable
	}
	return json.MarshalIndent(oReport, "", " ")
}
