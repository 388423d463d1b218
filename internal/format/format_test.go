// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTime(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{ms: 0, want: "0.0 ms"},
		{ms: 12.34, want: "12.3 ms"},
		{ms: 999.9, want: "999.9 ms"},
		{ms: 1000.0, want: "1.000 s"},
		{ms: 2987.2, want: "2.987 s"},
		{ms: 3000.9, want: "3.001 s"},
		{ms: 125000, want: "125.000 s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Time(tt.ms), "Time(%v)", tt.ms)
	}
}

func TestTflops(t *testing.T) {
	tests := []struct {
		tflops float64
		want   string
	}{
		{tflops: 0, want: "0.0 TFLOPS"},
		{tflops: 75.8, want: "75.8 TFLOPS"},
		{tflops: 999.9, want: "999.9 TFLOPS"},
		{tflops: 1000.0, want: "1.0K TFLOPS"},
		{tflops: 1462.4, want: "1.5K TFLOPS"},
		{tflops: 12500, want: "12.5K TFLOPS"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tflops(tt.tflops), "Tflops(%v)", tt.tflops)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		tflops float64
		want   PerformanceLevel
	}{
		{tflops: 1463.6, want: LevelHigh},
		{tflops: 1000.1, want: LevelHigh},
		{tflops: 1000, want: LevelMedium},
		{tflops: 731.5, want: LevelMedium},
		{tflops: 500.1, want: LevelMedium},
		{tflops: 500, want: LevelLow},
		{tflops: 0, want: LevelLow},
		{tflops: -1, want: LevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.tflops), "Level(%v)", tt.tflops)
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range Levels {
		got, err := ParseLevel(string(level))
		assert.NoError(t, err)
		assert.Equal(t, level, got)
	}
	_, err := ParseLevel("extreme")
	assert.Error(t, err)
}
