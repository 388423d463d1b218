package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"mmapeak/internal/util"
)

// StdinName is the report name used for a log read from standard input.
const StdinName = "stdin"

// Input is one benchmark log to process.
type Input struct {
	Name string // Name is the report base name, unique among the inputs.
	Path string // Path is the file the log was read from, empty for stdin.
	Data string
}

// StdinIsTerminal reports whether standard input is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115
}

// ReadInputs reads the logs named by paths. A path of "-" reads stdin. With
// no paths, stdin is read unless it is a terminal.
func ReadInputs(paths []string, stdin io.Reader, stdinIsTerminal bool) ([]Input, error) {
	if len(paths) == 0 {
		if stdinIsTerminal {
			return nil, fmt.Errorf("no input provided, use --%s or pipe a log to standard input", FlagInputName)
		}
		paths = []string{"-"}
	}
	var inputs []Input
	nameUsed := make(map[string]bool)
	stdinRead := false
	for _, path := range paths {
		var input Input
		if path == "-" {
			if stdinRead {
				return nil, fmt.Errorf("standard input can only be read once")
			}
			stdinRead = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, errors.Wrap(err, "failed to read standard input")
			}
			input = Input{Name: StdinName, Data: string(data)}
		} else {
			absPath, err := util.AbsPath(path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to expand input path %s", path)
			}
			exists, err := util.FileExists(absPath)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to check input %s", path)
			}
			if !exists {
				return nil, fmt.Errorf("input file %s does not exist", path)
			}
			data, err := os.ReadFile(absPath) // #nosec G304
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read input %s", path)
			}
			input = Input{Name: SanitizeReportName(util.BaseNameWithoutExt(absPath)), Path: absPath, Data: string(data)}
		}
		// logs with the same base name get the first free numeric suffix
		if nameUsed[input.Name] {
			base := input.Name
			for n := 2; nameUsed[input.Name]; n++ {
				input.Name = fmt.Sprintf("%s_%d", base, n)
			}
		}
		nameUsed[input.Name] = true
		slog.Debug("read input", slog.String("name", input.Name), slog.String("path", input.Path), slog.Int("bytes", len(input.Data)))
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// SanitizeReportName replaces characters that are not safe in a file name.
// Only alphanumeric characters, underscores, periods, and dashes are kept.
func SanitizeReportName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' {
			return r
		}
		if r >= 'a' && r <= 'z' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r
		}
		if r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
	if sanitized == "" {
		return StdinName
	}
	return sanitized
}
