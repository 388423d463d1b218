// Package chart is a subcommand of the root command. It draws a TFLOPS bar chart from an mmapeak benchmark log.
package chart

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"mmapeak/internal/chart"
	"mmapeak/internal/common"
	"mmapeak/internal/extract"
	"mmapeak/internal/filter"
)

const cmdName = "chart"

var examples = []string{
	fmt.Sprintf("  Draw a png chart:                 $ %s %s --input mmapeak.log", common.AppName, cmdName),
	fmt.Sprintf("  Draw a wide svg chart:            $ %s %s --input mmapeak.log --chart-format svg --width 24", common.AppName, cmdName),
	fmt.Sprintf("  Chart the fp8 operations only:    $ %s %s --input mmapeak.log --filter \"contains(operation, 'f8')\"", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Draw the best TFLOPS per operation and device as a bar chart",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagInput       string
	flagChartFormat string
	flagWidth       float64
	flagHeight      float64
	flagTitle       string
	flagFilter      string
	flagDevices     []string
)

const (
	flagInputName       = "input"
	flagChartFormatName = "chart-format"
	flagWidthName       = "width"
	flagHeightName      = "height"
	flagTitleName       = "title"
	flagFilterName      = "filter"
	flagDevicesName     = "device"
)

// set by validateFlags
var (
	operations   []string
	sampleFilter *filter.Filter
	parser       *extract.Parser
)

func init() {
	Cmd.Flags().StringVar(&flagInput, flagInputName, "", "")
	Cmd.Flags().StringVar(&flagChartFormat, flagChartFormatName, chart.FormatPNG, "")
	Cmd.Flags().Float64Var(&flagWidth, flagWidthName, float64(chart.DefaultWidth/vg.Inch), "")
	Cmd.Flags().Float64Var(&flagHeight, flagHeightName, float64(chart.DefaultHeight/vg.Inch), "")
	Cmd.Flags().StringVar(&flagTitle, flagTitleName, "", "")
	Cmd.Flags().StringVar(&flagFilter, flagFilterName, "", "")
	Cmd.Flags().StringSliceVar(&flagDevices, flagDevicesName, nil, "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		{
			GroupName: "Input Options",
			Flags: []common.Flag{
				{Name: flagInputName, Help: "benchmark log file, use - or omit for standard input"},
				{Name: flagDevicesName, Help: "only chart the named device(s), by display name or numeric id"},
				{Name: flagFilterName, Help: "expression evaluated per sample, e.g. \"level != 'low'\""},
			},
		},
		{
			GroupName: "Chart Options",
			Flags: []common.Flag{
				{Name: flagChartFormatName, Help: fmt.Sprintf("image format, one of: %s", strings.Join(chart.Formats, ", "))},
				{Name: flagWidthName, Help: "image width in inches"},
				{Name: flagHeightName, Help: "image height in inches"},
				{Name: flagTitleName, Help: "chart title"},
			},
		},
	}
}

// applyConfig fills the selection flags that were not given on the command
// line from the config file. Operations have no flag here and always come
// from the config file.
func applyConfig(cmd *cobra.Command, config common.Config) {
	if !cmd.Flags().Lookup(flagFilterName).Changed && config.Filter != "" {
		flagFilter = config.Filter
	}
	if !cmd.Flags().Lookup(flagDevicesName).Changed && len(config.Devices) > 0 {
		flagDevices = config.Devices
	}
	operations = config.Operations
}

func validateFlags(cmd *cobra.Command, args []string) error {
	config := common.GetAppContext(cmd).Config
	applyConfig(cmd, config)
	if !slices.Contains(chart.Formats, flagChartFormat) {
		return common.FlagValidationError(cmd, fmt.Sprintf("chart format options are: %s", strings.Join(chart.Formats, ", ")))
	}
	if flagWidth <= 0 || flagHeight <= 0 {
		return common.FlagValidationError(cmd, "chart width and height must be greater than zero")
	}
	var err error
	sampleFilter, err = filter.New(flagFilter, flagDevices, operations)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	parser, err = common.NewParser(config.OpPattern)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	var paths []string
	if flagInput != "" {
		paths = []string{flagInput}
	}
	inputs, err := common.ReadInputs(paths, os.Stdin, common.StdinIsTerminal())
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	input := inputs[0]
	result, err := sampleFilter.Apply(parser.Parse(input.Data))
	if err != nil {
		return fail(cmd, err)
	}
	if err := common.CreateOutputDir(appContext.OutputDir); err != nil {
		return fail(cmd, err)
	}
	chartPath := filepath.Join(appContext.OutputDir, fmt.Sprintf("%s.%s", input.Name, flagChartFormat))
	opts := chart.Options{
		Title:  flagTitle,
		Format: flagChartFormat,
		Width:  vg.Length(flagWidth) * vg.Inch,
		Height: vg.Length(flagHeight) * vg.Inch,
	}
	if err := chart.Save(result, opts, chartPath); err != nil {
		return fail(cmd, err)
	}
	slog.Info("chart written", slog.String("path", chartPath))
	fmt.Printf("Chart file:\n  %s\n", chartPath)
	return nil
}

func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}
