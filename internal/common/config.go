package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"mmapeak/internal/util"
)

// Config holds command defaults read from a YAML file. Flags given on the
// command line take precedence.
type Config struct {
	Formats    []string `yaml:"formats"`
	Filter     string   `yaml:"filter"`
	Devices    []string `yaml:"devices"`
	Operations []string `yaml:"operations"`
	OpPattern  string   `yaml:"op_pattern"`
	Listen     string   `yaml:"listen"`
}

// LoadConfig reads the config file at path. An empty path yields an empty config.
func LoadConfig(path string) (Config, error) {
	var config Config
	if path == "" {
		return config, nil
	}
	absPath, err := util.AbsPath(path)
	if err != nil {
		return config, errors.Wrapf(err, "failed to expand config path %s", path)
	}
	yamlFile, err := os.ReadFile(absPath) // #nosec G304
	if err != nil {
		return config, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.UnmarshalStrict(yamlFile, &config); err != nil {
		return config, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return config, nil
}
