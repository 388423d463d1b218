package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/perf/benchfmt"

	"mmapeak/internal/extract"
)

const (
	GoBenchNamePrefix = "MMA/op="
	GoBenchTflopsUnit = "TFLOPS"
)

// createGoBenchReport writes one benchmark line per sample in the Go
// benchmark format, so that runs can be compared with benchstat. The device
// and the source log are recorded as file configuration.
func createGoBenchReport(result extract.ParseResult, reportName string) (out []byte, err error) {
	var buf bytes.Buffer
	w := benchfmt.NewWriter(&buf)
	better := &benchfmt.UnitMetadata{
		UnitMetadataKey: benchfmt.UnitMetadataKey{Unit: GoBenchTflopsUnit, Key: "better"},
		OrigUnit:        GoBenchTflopsUnit,
		Value:           "higher",
	}
	if err = w.Write(better); err != nil {
		return nil, fmt.Errorf("failed to write benchmark unit metadata: %v", err)
	}
	for _, sample := range result.PerformanceData {
		res := &benchfmt.Result{
			Config: []benchfmt.Config{
				{Key: "source", Value: []byte(reportName), File: true},
				{Key: "device", Value: []byte(sample.Device), File: true},
			},
			Name:  benchfmt.Name(GoBenchNamePrefix + benchNameSafe(sample.Operation)),
			Iters: 1,
			Values: []benchfmt.Value{
				{Value: sample.TimeSec, Unit: "sec/op"},
				{Value: sample.Tflops, Unit: GoBenchTflopsUnit},
			},
		}
		if err = w.Write(res); err != nil {
			return nil, fmt.Errorf("failed to write benchmark result for %s: %v", sample.Operation, err)
		}
	}
	out = buf.Bytes()
	return
}

// benchNameSafe replaces whitespace, which would end the benchmark name
func benchNameSafe(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
