// Package common defines data structures and functions that are used by multiple
// application commands, e.g., parse, chart, serve.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"mmapeak/internal/extract"
	"mmapeak/internal/filter"
	"mmapeak/internal/progress"
	"mmapeak/internal/report"
	"mmapeak/internal/table"
	"mmapeak/internal/util"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the time the application started.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file, empty when logging elsewhere.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug is true when debug logging is enabled.
	Config      Config // Config holds the defaults read from the config file.
}

// GetAppContext returns the application context stored on the root command.
func GetAppContext(cmd *cobra.Command) AppContext {
	for c := cmd; c != nil; c = c.Parent() {
		if ctx := c.Context(); ctx != nil {
			if appContext, ok := ctx.Value(AppContext{}).(AppContext); ok {
				return appContext
			}
		}
	}
	return AppContext{}
}

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

// UsageFunc returns a usage function that prints the command's flags in the
// given groups, followed by the root command's persistent flags.
func UsageFunc(getFlagGroups func() []FlagGroup) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
		cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		cmd.Println("Flags:")
		for _, group := range getFlagGroups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if f := cmd.Flags().Lookup(flag.Name); f != nil && f.DefValue != "" && f.DefValue != "[]" {
					flagDefault = fmt.Sprintf(" (default: %s)", f.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		if !cmd.HasParent() {
			return nil
		}
		cmd.Println("\nGlobal Flags:")
		cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
			flagDefault := ""
			if pf.DefValue != "" && pf.DefValue != "false" {
				flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
			}
			cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
		})
		return nil
	}
}

const (
	TableNameMmapeak = "mmapeak"
)

var (
	FlagInput  []string
	FlagFormat []string
)

const (
	FlagInputName  = "input"
	FlagFormatName = "format"
)

// ReportingCommand holds what the parse command needs to turn inputs into reports.
type ReportingCommand struct {
	Cmd      *cobra.Command
	Inputs   []Input
	Parser   *extract.Parser
	Filter   *filter.Filter
	Formats  []string
	ToStdout bool // print the txt report instead of writing report files
}

// Run parses each input, applies the filter and writes the requested reports.
func (rc *ReportingCommand) Run() error {
	appContext := GetAppContext(rc.Cmd)
	parser := rc.Parser
	if parser == nil {
		parser = extract.NewParser()
	}
	formats := rc.Formats
	if len(formats) == 0 || slices.Contains(formats, report.FormatAll) {
		formats = report.FormatOptions
	}
	if rc.ToStdout {
		formats = []string{report.FormatTxt}
	} else if err := CreateOutputDir(appContext.OutputDir); err != nil {
		return rc.fail(err)
	}
	var spinner *progress.MultiSpinner
	if !rc.ToStdout {
		spinner = progress.NewMultiSpinner(os.Stderr, term.IsTerminal(int(os.Stderr.Fd()))) // #nosec G115
		for _, input := range rc.Inputs {
			if err := spinner.AddSpinner(input.Name); err != nil {
				slog.Error("failed to add spinner", slog.String("error", err.Error()))
			}
		}
		spinner.Start()
		defer spinner.Finish()
	}
	updateStatus := func(label string, status string) {
		if spinner != nil {
			_ = spinner.Status(label, status)
		}
	}
	var reportFilePaths []string
	for _, input := range rc.Inputs {
		updateStatus(input.Name, "parsing")
		result, err := rc.Filter.Apply(parser.Parse(input.Data))
		if err != nil {
			updateStatus(input.Name, "error")
			return rc.fail(fmt.Errorf("failed to filter %s: %w", input.Name, err))
		}
		if len(result.Devices) == 0 && len(result.PerformanceData) == 0 {
			slog.Warn("no devices or samples found", slog.String("input", input.Name))
		}
		allTableValues := ReportTableValues(appContext, input, result)
		for _, format := range formats {
			reportBytes, err := report.Create(format, allTableValues, result, input.Name)
			if err != nil {
				return rc.fail(fmt.Errorf("failed to create %s report: %w", format, err))
			}
			if rc.ToStdout {
				if len(rc.Inputs) > 1 {
					fmt.Printf("%s:\n", input.Name)
				}
				fmt.Print(string(reportBytes))
				continue
			}
			updateStatus(input.Name, "writing "+format+" report")
			reportFilename := fmt.Sprintf("%s.%s", input.Name, report.FileExtensions[format])
			reportPath := filepath.Join(appContext.OutputDir, reportFilename)
			if err = writeReport(reportBytes, reportPath); err != nil {
				return rc.fail(fmt.Errorf("failed to write report: %w", err))
			}
			reportFilePaths = append(reportFilePaths, reportPath)
		}
		updateStatus(input.Name, fmt.Sprintf("%d device(s), %d sample(s)", len(result.Devices), len(result.PerformanceData)))
	}
	if spinner != nil {
		spinner.Finish()
	}
	if len(reportFilePaths) > 0 {
		fmt.Println("Report files:")
	}
	for _, reportFilePath := range reportFilePaths {
		fmt.Printf("  %s\n", reportFilePath)
	}
	return nil
}

func (rc *ReportingCommand) fail(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	rc.Cmd.SilenceUsage = true
	return err
}

// ReportTableValues builds the tables of one report: the benchmark tables,
// the insights gathered from them and a table describing the run.
func ReportTableValues(appContext AppContext, input Input, result extract.ParseResult) []table.TableValues {
	allTableValues := table.ProcessTables(table.ReportTables(), result)
	allTableValues = append(allTableValues, table.InsightsTableValues(allTableValues))
	source := input.Path
	if source == "" {
		source = StdinName
	}
	allTableValues = append(allTableValues, table.TableValues{
		TableDefinition: table.TableDefinition{
			Name: TableNameMmapeak,
		},
		Fields: []table.Field{
			{Name: "Version", Values: []string{appContext.Version}},
			{Name: "Input", Values: []string{source}},
			{Name: "Args", Values: []string{strings.Join(os.Args, " ")}},
			{Name: "OutputDir", Values: []string{appContext.OutputDir}},
		},
	})
	return allTableValues
}

// CreateOutputDir creates the output directory if it does not exist
func CreateOutputDir(outputDir string) error {
	err := util.CreateDirectoryIfNotExists(outputDir, 0755) // #nosec G301
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// FlagValidationError is used to report an error with a flag
func FlagValidationError(cmd *cobra.Command, msg string) error {
	err := errors.New(msg)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintf(os.Stderr, "See '%s --help' for usage details.\n", cmd.CommandPath())
	cmd.SilenceUsage = true
	return err
}

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		err = fmt.Errorf("failed to write report file: %v", err)
		slog.Error(err.Error())
		return err
	}
	return nil
}

// NewParser returns a parser that recognizes operation lines with the given
// pattern, or the default pattern when it is empty.
func NewParser(operationPattern string) (*extract.Parser, error) {
	if operationPattern == "" {
		return extract.NewParser(), nil
	}
	re, err := regexp.Compile(operationPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid operation pattern: %w", err)
	}
	return extract.NewParser(extract.WithOperationPattern(re)), nil
}
