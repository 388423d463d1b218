// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package format converts raw benchmark values into display strings and
// performance classifications.
package format

import "fmt"

// PerformanceLevel classifies a throughput value.
type PerformanceLevel string

const (
	LevelHigh   PerformanceLevel = "high"
	LevelMedium PerformanceLevel = "medium"
	LevelLow    PerformanceLevel = "low"
)

// Levels lists all levels from highest to lowest.
var Levels = []PerformanceLevel{LevelHigh, LevelMedium, LevelLow}

// thresholds in TFLOPS, both exclusive
const (
	highThreshold   = 1000
	mediumThreshold = 500
)

// Time renders a duration in milliseconds, switching to seconds at 1000 ms.
func Time(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.1f ms", ms)
	}
	return fmt.Sprintf("%.3f s", ms/1000)
}

// Tflops renders a throughput value, using a K suffix at 1000 TFLOPS and above.
func Tflops(tflops float64) string {
	if tflops >= 1000 {
		return fmt.Sprintf("%.1fK TFLOPS", tflops/1000)
	}
	return fmt.Sprintf("%.1f TFLOPS", tflops)
}

// Level returns the performance level of a throughput value.
func Level(tflops float64) PerformanceLevel {
	if tflops > highThreshold {
		return LevelHigh
	}
	if tflops > mediumThreshold {
		return LevelMedium
	}
	return LevelLow
}

// ParseLevel returns the level named by s.
func ParseLevel(s string) (PerformanceLevel, error) {
	for _, level := range Levels {
		if string(level) == s {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown performance level %q, expected one of high, medium, low", s)
}
