// Package parse is a subcommand of the root command. It turns mmapeak benchmark logs into reports.
package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mmapeak/internal/common"
	"mmapeak/internal/extract"
	"mmapeak/internal/filter"
	"mmapeak/internal/report"
	"mmapeak/internal/table"
)

const cmdName = "parse"

var examples = []string{
	fmt.Sprintf("  Generate all report formats:            $ %s %s --input mmapeak.log", common.AppName, cmdName),
	fmt.Sprintf("  Generate json and html reports:         $ %s %s --input mmapeak.log --format json,html", common.AppName, cmdName),
	fmt.Sprintf("  Compare two runs in one pass:           $ %s %s --input run1.log --input run2.log", common.AppName, cmdName),
	fmt.Sprintf("  Print high performing samples:          $ %s %s --input mmapeak.log --filter \"level == 'high'\" --stdout", common.AppName, cmdName),
	fmt.Sprintf("  Report on one device from stdin:        $ cat mmapeak.log | %s %s --device 1 --stdout", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Parse mmapeak benchmark log(s) into reports",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagFilter     string
	flagDevices    []string
	flagOperations []string
	flagOpPattern  string
	flagStdout     bool
)

const (
	flagFilterName     = "filter"
	flagDevicesName    = "device"
	flagOperationsName = "operation"
	flagOpPatternName  = "op-pattern"
	flagStdoutName     = "stdout"
)

// set by validateFlags
var (
	parser       *extract.Parser
	sampleFilter *filter.Filter
)

func init() {
	Cmd.Flags().StringSliceVar(&common.FlagInput, common.FlagInputName, nil, "")
	Cmd.Flags().StringSliceVar(&common.FlagFormat, common.FlagFormatName, []string{report.FormatAll}, "")
	Cmd.Flags().StringVar(&flagFilter, flagFilterName, "", "")
	Cmd.Flags().StringSliceVar(&flagDevices, flagDevicesName, nil, "")
	Cmd.Flags().StringSliceVar(&flagOperations, flagOperationsName, nil, "")
	Cmd.Flags().StringVar(&flagOpPattern, flagOpPatternName, extract.DefaultOperationPattern, "")
	Cmd.Flags().BoolVar(&flagStdout, flagStdoutName, false, "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))

	report.RegisterTextRenderer(table.PerformanceTableName, performanceTableTextRenderer)
	report.RegisterHTMLRenderer(table.PerformanceTableName, performanceTableHTMLRenderer)
	report.RegisterHTMLRenderer(table.OperationComparisonTableName, operationComparisonTableHTMLRenderer)
	report.RegisterXlsxRenderer(table.PerformanceTableName, performanceTableXlsxRenderer)
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	groups = append(groups, common.FlagGroup{
		GroupName: "Input Options",
		Flags: []common.Flag{
			{
				Name: common.FlagInputName,
				Help: "benchmark log file(s), use - for standard input; standard input is read when omitted",
			},
			{
				Name: flagOpPatternName,
				Help: "regular expression that identifies operation lines",
			},
		},
	})
	groups = append(groups, common.FlagGroup{
		GroupName: "Selection Options",
		Flags: []common.Flag{
			{
				Name: flagDevicesName,
				Help: "only report the named device(s), by display name or numeric id",
			},
			{
				Name: flagOperationsName,
				Help: "only report the named operation code(s)",
			},
			{
				Name: flagFilterName,
				Help: "expression evaluated per sample, e.g. \"tflops > 500 && contains(operation, 'f8')\"",
			},
		},
	})
	groups = append(groups, common.FlagGroup{
		GroupName: "Output Options",
		Flags: []common.Flag{
			{
				Name: common.FlagFormatName,
				Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
			},
			{
				Name: flagStdoutName,
				Help: "print the txt report to stdout instead of writing report files",
			},
		},
	})
	return groups
}

// applyConfig fills flags that were not given on the command line from the config file
func applyConfig(cmd *cobra.Command, config common.Config) {
	if !cmd.Flags().Lookup(common.FlagFormatName).Changed && len(config.Formats) > 0 {
		common.FlagFormat = config.Formats
	}
	if !cmd.Flags().Lookup(flagFilterName).Changed && config.Filter != "" {
		flagFilter = config.Filter
	}
	if !cmd.Flags().Lookup(flagDevicesName).Changed && len(config.Devices) > 0 {
		flagDevices = config.Devices
	}
	if !cmd.Flags().Lookup(flagOperationsName).Changed && len(config.Operations) > 0 {
		flagOperations = config.Operations
	}
	if !cmd.Flags().Lookup(flagOpPatternName).Changed && config.OpPattern != "" {
		flagOpPattern = config.OpPattern
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	applyConfig(cmd, common.GetAppContext(cmd).Config)
	// validate format options
	formatOptions := append([]string{report.FormatAll}, report.FormatOptions...)
	for _, format := range common.FlagFormat {
		if !slices.Contains(formatOptions, format) {
			return common.FlagValidationError(cmd, fmt.Sprintf("format options are: %s", strings.Join(formatOptions, ", ")))
		}
	}
	if flagStdout && cmd.Flags().Lookup(common.FlagFormatName).Changed && !slices.Equal(common.FlagFormat, []string{report.FormatTxt}) {
		return common.FlagValidationError(cmd, fmt.Sprintf("--%s prints the txt report only, remove --%s", flagStdoutName, common.FlagFormatName))
	}
	var err error
	parser, err = common.NewParser(flagOpPattern)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	sampleFilter, err = filter.New(flagFilter, flagDevices, flagOperations)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	inputs, err := common.ReadInputs(common.FlagInput, os.Stdin, common.StdinIsTerminal())
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	reportingCommand := common.ReportingCommand{
		Cmd:      cmd,
		Inputs:   inputs,
		Parser:   parser,
		Filter:   sampleFilter,
		Formats:  common.FlagFormat,
		ToStdout: flagStdout,
	}
	return reportingCommand.Run()
}
