// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package filter selects performance samples by device, operation and a
// boolean expression over the sample's fields.
//
// Expression variables:
//
//	operation, operation_cn, device  (strings)
//	time_ms, time_sec, tflops        (numbers)
//	level                            ("high", "medium" or "low")
//
// Example: tflops > 500 && device =~ '5090 D'
package filter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/casbin/govaluate"
	mapset "github.com/deckarep/golang-set/v2"

	"mmapeak/internal/extract"
	"mmapeak/internal/format"
)

// Filter holds the selection criteria. A nil *Filter matches everything.
type Filter struct {
	Expression string
	evaluable  *govaluate.EvaluableExpression
	devices    mapset.Set[string]
	operations mapset.Set[string]
}

// New compiles the expression and builds the selection sets. Devices may be
// given by display name or by numeric id. Empty arguments select everything.
func New(expression string, devices []string, operations []string) (*Filter, error) {
	f := &Filter{
		Expression: strings.TrimSpace(expression),
		devices:    mapset.NewSet[string](),
		operations: mapset.NewSet(operations...),
	}
	for _, device := range devices {
		if device = strings.TrimSpace(device); device != "" {
			f.devices.Add(device)
		}
	}
	if f.Expression != "" {
		var err error
		if f.evaluable, err = govaluate.NewEvaluableExpressionWithFunctions(f.Expression, evaluatorFunctions()); err != nil {
			return nil, fmt.Errorf("invalid filter expression %q: %w", f.Expression, err)
		}
		for _, name := range f.evaluable.Vars() {
			if _, ok := variableNames[name]; !ok {
				return nil, fmt.Errorf("unknown variable %q in filter expression, expected one of: %s", name, strings.Join(variableList, ", "))
			}
		}
	}
	return f, nil
}

// IsEmpty reports whether the filter selects everything.
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.evaluable == nil && f.devices.Cardinality() == 0 && f.operations.Cardinality() == 0)
}

var variableList = []string{"operation", "operation_cn", "device", "time_ms", "time_sec", "tflops", "level"}

var variableNames = func() map[string]struct{} {
	m := make(map[string]struct{}, len(variableList))
	for _, name := range variableList {
		m[name] = struct{}{}
	}
	return m
}()

func parameters(sample extract.PerformanceData) map[string]any {
	return map[string]any{
		"operation":    sample.Operation,
		"operation_cn": sample.OperationCN,
		"device":       sample.Device,
		"time_ms":      sample.TimeMs,
		"time_sec":     sample.TimeSec,
		"tflops":       sample.Tflops,
		"level":        string(format.Level(sample.Tflops)),
	}
}

// evaluatorFunctions defines functions that can be called in filter expressions
func evaluatorFunctions() map[string]govaluate.ExpressionFunction {
	functions := make(map[string]govaluate.ExpressionFunction)
	functions["contains"] = func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("contains expects 2 arguments, got %d", len(args))
		}
		return strings.Contains(fmt.Sprint(args[0]), fmt.Sprint(args[1])), nil
	}
	functions["hasPrefix"] = func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("hasPrefix expects 2 arguments, got %d", len(args))
		}
		return strings.HasPrefix(fmt.Sprint(args[0]), fmt.Sprint(args[1])), nil
	}
	return functions
}

// deviceNames resolves the requested devices to display names.
func (f *Filter) deviceNames(devices []extract.DeviceInfo) mapset.Set[string] {
	names := mapset.NewSet[string]()
	for requested := range f.devices.Iter() {
		id, err := strconv.Atoi(requested)
		if err != nil {
			names.Add(requested)
			continue
		}
		found := false
		for _, device := range devices {
			if device.ID == id {
				names.Add(device.Name)
				found = true
			}
		}
		if !found {
			slog.Warn("no device with requested id", slog.Int("id", id))
		}
	}
	return names
}

// Match reports whether the sample passes the expression and the operation
// selection. Device selection needs the device list and is done in Apply.
func (f *Filter) Match(sample extract.PerformanceData) (bool, error) {
	if f == nil {
		return true, nil
	}
	if f.operations.Cardinality() > 0 && !f.operations.Contains(sample.Operation) {
		return false, nil
	}
	if f.evaluable == nil {
		return true, nil
	}
	result, err := evaluate(f.evaluable, parameters(sample))
	if err != nil {
		return false, fmt.Errorf("%v : %s", err, f.Expression)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression %q must evaluate to a boolean, got %v", f.Expression, result)
	}
	return matched, nil
}

// function to call evaluator so that we can catch panics that come from the evaluator
func evaluate(evaluable *govaluate.EvaluableExpression, parameters map[string]any) (result any, err error) {
	defer func() {
		if errx := recover(); errx != nil {
			err = fmt.Errorf("%v", errx)
		}
	}()
	return evaluable.Evaluate(parameters)
}

// Apply returns a new result containing only the selected devices and
// samples. The input is not modified.
func (f *Filter) Apply(result extract.ParseResult) (extract.ParseResult, error) {
	if f.IsEmpty() {
		return result, nil
	}
	var names mapset.Set[string]
	if f.devices.Cardinality() > 0 {
		names = f.deviceNames(result.Devices)
	}
	filtered := extract.ParseResult{
		Devices:         []extract.DeviceInfo{},
		PerformanceData: []extract.PerformanceData{},
	}
	for _, device := range result.Devices {
		if names == nil || names.Contains(device.Name) {
			filtered.Devices = append(filtered.Devices, device)
		}
	}
	for _, sample := range result.PerformanceData {
		if names != nil && !names.Contains(sample.Device) {
			continue
		}
		ok, err := f.Match(sample)
		if err != nil {
			return extract.ParseResult{}, err
		}
		if ok {
			filtered.PerformanceData = append(filtered.PerformanceData, sample)
		}
	}
	slog.Debug("applied filter", slog.String("expression", f.Expression), slog.Int("samples", len(result.PerformanceData)), slog.Int("selected", len(filtered.PerformanceData)))
	return filtered, nil
}
