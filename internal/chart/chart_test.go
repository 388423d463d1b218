package chart

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmapeak/internal/extract"
)

func sampleResult(t *testing.T) extract.ParseResult {
	t.Helper()
	data, err := os.ReadFile("../extract/testdata/sample.log")
	require.NoError(t, err)
	return extract.ParseResultData(string(data))
}

func TestTflopsByOperation(t *testing.T) {
	p, err := TflopsByOperation(sampleResult(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Peak TFLOPS by operation", p.Title.Text)
	assert.Equal(t, "TFLOPS", p.Y.Label.Text)
}

func TestTflopsByOperationNoSamples(t *testing.T) {
	_, err := TflopsByOperation(extract.ParseResult{}, Options{})
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestRenderPNG(t *testing.T) {
	out, err := Render(sampleResult(t), Options{Format: FormatPNG})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestRenderSVG(t *testing.T) {
	out, err := Render(sampleResult(t), Options{Format: FormatSVG, Title: "run 1"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(sampleResult(t), Options{Format: "bmp"})
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.png")
	require.NoError(t, Save(sampleResult(t), Options{}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
