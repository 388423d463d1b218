// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package extract

import (
	"log/slog"
	"strconv"
	"strings"
)

// noDevice is the current device index before any device header is seen.
const noDevice = -1

// nonOperationMarkers appear in header, metadata, banner and separator
// lines. A line containing any of them is never an operation.
var nonOperationMarkers = []string{
	"Device",
	"Compute",
	"Total",
	"Multiprocessor",
	"Running",
	"---",
}

// parsePerformance scans lines for operation lines followed by a run result
// and attributes each sample to the most recent device header.
func (p *Parser) parsePerformance(lines []string, devices []DeviceInfo) []PerformanceData {
	performanceData := []PerformanceData{}
	currentDeviceIndex := noDevice
	currentDeviceName := deviceLabel(noDevice)
	for i := range lines {
		line := strings.TrimSpace(lines[i])
		if header, ok := matchDeviceHeader(line); ok {
			currentDeviceIndex = header.id
			currentDeviceName = header.displayName(devices)
			slog.Debug("switching device", slog.Int("index", currentDeviceIndex), slog.String("device", currentDeviceName))
		}
		if !p.isOperationLine(line) {
			continue
		}
		if i+1 >= len(lines) {
			continue
		}
		timeMs, tflops, ok := parseRunResult(strings.TrimSpace(lines[i+1]))
		if !ok {
			slog.Debug("operation without run result", slog.String("operation", line), slog.Int("line", i+1))
			continue
		}
		performanceData = append(performanceData, PerformanceData{
			Operation:   line,
			OperationCN: OperationDescription(line),
			Device:      currentDeviceName,
			TimeMs:      timeMs,
			TimeSec:     timeMs / 1000,
			Tflops:      tflops,
		})
	}
	return performanceData
}

// isOperationLine reports whether a trimmed line names an operation.
func (p *Parser) isOperationLine(line string) bool {
	if line == "" || strings.Contains(line, "run:") {
		return false
	}
	for _, marker := range nonOperationMarkers {
		if strings.Contains(line, marker) {
			return false
		}
	}
	return p.operationPattern.MatchString(line)
}

// parseRunResult extracts the elapsed milliseconds and TFLOPS from a
// "run: <ms> ms <tflops> T(fl)ops" line.
func parseRunResult(line string) (timeMs float64, tflops float64, ok bool) {
	match := reRunResult.FindStringSubmatch(line)
	if match == nil {
		return 0, 0, false
	}
	timeMs, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, false
	}
	tflops, err = strconv.ParseFloat(match[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return timeMs, tflops, true
}
