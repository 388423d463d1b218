package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmapeak/internal/extract"
	"mmapeak/internal/filter"
	"mmapeak/internal/report"
	"mmapeak/internal/table"
)

const sampleLogPath = "../extract/testdata/sample.log"

func TestReadInputsFromFiles(t *testing.T) {
	inputs, err := ReadInputs([]string{sampleLogPath, sampleLogPath}, nil, true)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "sample", inputs[0].Name)
	assert.Equal(t, "sample_2", inputs[1].Name)
	assert.True(t, filepath.IsAbs(inputs[0].Path))
	assert.Contains(t, inputs[0].Data, "Device 0:")
}

func TestReadInputsUniqueNames(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) string {
		t.Helper()
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("Device 0: GPU\n"), 0600))
		return path
	}
	tests := []struct {
		paths []string
		want  []string
	}{
		{
			paths: []string{write("a.log"), write("x/a.log"), write("a_2.log")},
			want:  []string{"a", "a_2", "a_2_2"},
		},
		{
			paths: []string{write("a_2.log"), write("a.log"), write("x/a.log")},
			want:  []string{"a_2", "a", "a_3"},
		},
	}
	for _, tt := range tests {
		inputs, err := ReadInputs(tt.paths, nil, true)
		require.NoError(t, err)
		var names []string
		for _, input := range inputs {
			names = append(names, input.Name)
		}
		assert.Equal(t, tt.want, names)
	}
}

func TestReadInputsFromStdin(t *testing.T) {
	inputs, err := ReadInputs(nil, strings.NewReader("Device 0: GPU\n"), false)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, StdinName, inputs[0].Name)
	assert.Empty(t, inputs[0].Path)
	assert.Equal(t, "Device 0: GPU\n", inputs[0].Data)
}

func TestReadInputsErrors(t *testing.T) {
	_, err := ReadInputs(nil, strings.NewReader(""), true)
	assert.Error(t, err)

	_, err = ReadInputs([]string{filepath.Join(t.TempDir(), "missing.log")}, nil, true)
	assert.Error(t, err)

	_, err = ReadInputs([]string{"-", "-"}, strings.NewReader(""), false)
	assert.Error(t, err)
}

func TestSanitizeReportName(t *testing.T) {
	assert.Equal(t, "run_1_a.b-c", SanitizeReportName("run 1/a.b-c"))
	assert.Equal(t, "__", SanitizeReportName("设备"))
	assert.Equal(t, StdinName, SanitizeReportName(""))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmapeak.yaml")
	content := `formats: [json, txt]
filter: "tflops > 500"
devices: ["1"]
operations:
  - mma_s8s8s32_16_16_16
op_pattern: "^(mma|wmma)_"
listen: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"json", "txt"}, config.Formats)
	assert.Equal(t, "tflops > 500", config.Filter)
	assert.Equal(t, []string{"1"}, config.Devices)
	assert.Equal(t, []string{"mma_s8s8s32_16_16_16"}, config.Operations)
	assert.Equal(t, "^(mma|wmma)_", config.OpPattern)
	assert.Equal(t, ":9090", config.Listen)
}

func TestLoadConfigErrors(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, config)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_key: 1\n"), 0600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func newTestCommand(outputDir string) *cobra.Command {
	root := &cobra.Command{Use: "mmapeak"}
	cmd := &cobra.Command{Use: "parse"}
	root.AddCommand(cmd)
	root.SetContext(context.WithValue(context.Background(), AppContext{}, AppContext{OutputDir: outputDir, Version: "1.0.0"}))
	return cmd
}

func TestGetAppContext(t *testing.T) {
	cmd := newTestCommand("/tmp/out")
	assert.Equal(t, "/tmp/out", GetAppContext(cmd).OutputDir)
	assert.Equal(t, AppContext{}, GetAppContext(&cobra.Command{}))
}

func TestReportingCommandRun(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	inputs, err := ReadInputs([]string{sampleLogPath}, nil, true)
	require.NoError(t, err)
	f, err := filter.New("tflops > 1000", nil, nil)
	require.NoError(t, err)
	rc := ReportingCommand{
		Cmd:     newTestCommand(outputDir),
		Inputs:  inputs,
		Filter:  f,
		Formats: []string{report.FormatJson, report.FormatGoBench},
	}
	require.NoError(t, rc.Run())

	for _, name := range []string{"sample.json", "sample.bench"} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err, name)
	}
	bench, err := os.ReadFile(filepath.Join(outputDir, "sample.bench"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(bench), "\nBenchmark"))
}

func TestReportTableValues(t *testing.T) {
	result := extract.ParseResultData("")
	allTableValues := ReportTableValues(AppContext{Version: "1.2.3"}, Input{Name: StdinName}, result)
	last := allTableValues[len(allTableValues)-1]
	assert.Equal(t, TableNameMmapeak, last.Name)
	assert.Equal(t, []string{"1.2.3"}, last.Fields[0].Values)
	assert.Equal(t, []string{StdinName}, last.Fields[1].Values)
	assert.Equal(t, table.InsightsTableName, allTableValues[len(allTableValues)-2].Name)
}

func TestNewParser(t *testing.T) {
	parser, err := NewParser("")
	require.NoError(t, err)
	assert.NotNil(t, parser)

	parser, err = NewParser(`^gemm_`)
	require.NoError(t, err)
	result := parser.Parse("gemm_f16\n  run: 10.0 ms 2.5 T(fl)ops\nmma_s4s4s32_8_8_32\n  run: 20.0 ms 5.0 T(fl)ops\n")
	require.Len(t, result.PerformanceData, 1)
	assert.Equal(t, "gemm_f16", result.PerformanceData[0].Operation)

	_, err = NewParser("mma_(")
	assert.Error(t, err)
}
