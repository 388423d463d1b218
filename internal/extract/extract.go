// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package extract parses mmapeak benchmark log output into device and
// performance records.
//
// Parsing is permissive: lines that do not have the expected shape are
// skipped and never reported as errors.
package extract

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
)

// DeviceInfo describes one GPU device found in the log.
type DeviceInfo struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ComputeCapability   string `json:"computeCapability"`
	Memory              string `json:"memory"`
	MultiprocessorCount int    `json:"multiprocessorCount"`
}

// PerformanceData is one benchmark measurement of one operation on one device.
type PerformanceData struct {
	Operation   string  `json:"operation"`
	OperationCN string  `json:"operationCN"`
	Device      string  `json:"device"`
	TimeMs      float64 `json:"timeMs"`
	TimeSec     float64 `json:"timeSec"`
	Tflops      float64 `json:"tflops"`
}

// ParseResult holds everything extracted from a single log.
type ParseResult struct {
	PerformanceData []PerformanceData `json:"performanceData"`
	Devices         []DeviceInfo      `json:"devices"`
}

// DefaultOperationPattern matches the operation codes printed by mmapeak.
const DefaultOperationPattern = `^mma_`

var (
	reDeviceHeader = regexp.MustCompile(`Device (\d+): (.+)`)
	reRunResult    = regexp.MustCompile(`run:\s+([\d.]+)\s+ms\s+([\d.]+)\s+T\(fl\)ops`)
	reLeadingInt   = regexp.MustCompile(`^\d+`)
)

// Parser extracts devices and samples from log text. The zero value is not
// usable, use NewParser.
type Parser struct {
	operationPattern *regexp.Regexp
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithOperationPattern replaces the pattern used to recognize operation lines.
// A nil pattern leaves the default in place.
func WithOperationPattern(re *regexp.Regexp) ParserOption {
	return func(p *Parser) {
		if re != nil {
			p.operationPattern = re
		}
	}
}

// NewParser returns a Parser that recognizes operation lines with the
// default pattern unless overridden by an option.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{operationPattern: regexp.MustCompile(DefaultOperationPattern)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ParseResultData parses the log with the default parser.
func ParseResultData(data string) ParseResult {
	return defaultParser.Parse(data)
}

// Merge concatenates results in order. Devices with the same name are kept
// once, so loading two logs of the same machine does not duplicate devices.
func Merge(results ...ParseResult) ParseResult {
	merged := ParseResult{
		PerformanceData: []PerformanceData{},
		Devices:         []DeviceInfo{},
	}
	seen := make(map[string]bool)
	for _, result := range results {
		merged.PerformanceData = append(merged.PerformanceData, result.PerformanceData...)
		for _, device := range result.Devices {
			if seen[device.Name] {
				continue
			}
			seen[device.Name] = true
			merged.Devices = append(merged.Devices, device)
		}
	}
	return merged
}

// Parse runs the device pass and then the performance pass over data.
// It never fails; an unrecognized log yields empty lists.
func (p *Parser) Parse(data string) ParseResult {
	lines := strings.Split(data, "\n")
	devices := parseDevices(lines)
	performanceData := p.parsePerformance(lines, devices)
	slog.Debug("parsed benchmark log", slog.Int("lines", len(lines)), slog.Int("devices", len(devices)), slog.Int("samples", len(performanceData)))
	return ParseResult{
		Devices:         devices,
		PerformanceData: performanceData,
	}
}

// deviceHeader is a matched "Device <id>: <name>" line.
type deviceHeader struct {
	id    int    // math.MaxInt when the printed id does not fit in an int
	label string // "设备 <id>"
	name  string
}

// displayName returns the name of the device the header refers to, looked up
// by position in devices, or the header's label when there is none.
func (h deviceHeader) displayName(devices []DeviceInfo) string {
	if h.id >= 0 && h.id < len(devices) {
		return devices[h.id].Name
	}
	return h.label
}

// matchDeviceHeader matches a "Device <id>: <name>" line. The line must
// already be trimmed. An id with too many digits for an int still makes a
// header; its label keeps the digits as printed.
func matchDeviceHeader(line string) (deviceHeader, bool) {
	if !strings.HasPrefix(line, "Device ") {
		return deviceHeader{}, false
	}
	match := reDeviceHeader.FindStringSubmatch(line)
	if match == nil {
		return deviceHeader{}, false
	}
	id, ok := leadingInt(match[1])
	if !ok {
		slog.Debug("device id out of range", slog.String("id", match[1]))
		return deviceHeader{id: math.MaxInt, label: "设备 " + match[1], name: match[2]}, true
	}
	return deviceHeader{id: id, label: deviceLabel(id), name: match[2]}, true
}

// fieldValue returns the text between the first and second colon of a
// "label: value" line, trimmed.
func fieldValue(line string) string {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
