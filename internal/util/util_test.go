package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestGeoMean(t *testing.T) {
	tests := []struct {
		vals []float64
		want float64
	}{
		{vals: []float64{4}, want: 4},
		{vals: []float64{1, 100}, want: 10},
		{vals: []float64{2, 8, 4}, want: 4},
		{vals: nil, want: 1},
	}
	for _, tt := range tests {
		got := GeoMean(tt.vals)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GeoMean(%v) = %v, want %v", tt.vals, got, tt.want)
		}
	}
}

func TestUniqueAppend(t *testing.T) {
	var s []string
	s = UniqueAppend(s, "a")
	s = UniqueAppend(s, "b")
	s = UniqueAppend(s, "a")
	if len(s) != 2 || s[0] != "a" || s[1] != "b" {
		t.Errorf("UniqueAppend() = %v, want [a b]", s)
	}
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "run.log")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if exists, err := FileExists(file); !exists || err != nil {
		t.Errorf("FileExists(%s) = %v, %v", file, exists, err)
	}
	if exists, err := FileExists(filepath.Join(dir, "missing")); exists || err != nil {
		t.Errorf("FileExists(missing) = %v, %v", exists, err)
	}
	if _, err := FileExists(dir); err == nil {
		t.Errorf("FileExists(dir) expected error")
	}

	if exists, err := DirectoryExists(dir); !exists || err != nil {
		t.Errorf("DirectoryExists(%s) = %v, %v", dir, exists, err)
	}
	if _, err := DirectoryExists(file); err == nil {
		t.Errorf("DirectoryExists(file) expected error")
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := CreateDirectoryIfNotExists(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if exists, _ := DirectoryExists(dir); !exists {
		t.Errorf("directory %s not created", dir)
	}
	// second call is a no-op
	if err := CreateDirectoryIfNotExists(dir, 0755); err != nil {
		t.Error(err)
	}
}

func TestBaseNameWithoutExt(t *testing.T) {
	tests := map[string]string{
		"/logs/run1.log":  "run1",
		"run.2025.txt":    "run.2025",
		"noext":           "noext",
		"dir/sub/out.tar": "out",
	}
	for in, want := range tests {
		if got := BaseNameWithoutExt(in); got != want {
			t.Errorf("BaseNameWithoutExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandUser(t *testing.T) {
	if got := ExpandUser("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandUser() = %q", got)
	}
	if got := ExpandUser("~"); got == "~" {
		t.Skip("no home directory available")
	}
}
