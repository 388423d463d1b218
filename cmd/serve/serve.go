// Package serve is a subcommand of the root command. It serves parsed benchmark results over HTTP.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mmapeak/internal/common"
	"mmapeak/internal/extract"
	"mmapeak/internal/server"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve results of two runs:        $ %s %s --input run1.log --input run2.log", common.AppName, cmdName),
	fmt.Sprintf("  Start empty, POST logs later:     $ %s %s --listen 127.0.0.1:9090", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Serve parsed results as JSON and Prometheus metrics",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagInput     []string
	flagListen    string
	flagOpPattern string
)

const (
	flagInputName     = "input"
	flagListenName    = "listen"
	flagOpPatternName = "op-pattern"
)

const defaultListen = ":8080"

var parser *extract.Parser

func init() {
	Cmd.Flags().StringSliceVar(&flagInput, flagInputName, nil, "")
	Cmd.Flags().StringVar(&flagListen, flagListenName, defaultListen, "")
	Cmd.Flags().StringVar(&flagOpPattern, flagOpPatternName, "", "")

	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{
		{
			GroupName: "Server Options",
			Flags: []common.Flag{
				{Name: flagInputName, Help: "benchmark log file(s) loaded at startup; logs posted to /api/parse are parsed and returned without being loaded"},
				{Name: flagListenName, Help: "address to listen on"},
				{Name: flagOpPatternName, Help: "regular expression that identifies operation lines"},
			},
		},
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	config := common.GetAppContext(cmd).Config
	if !cmd.Flags().Lookup(flagListenName).Changed && config.Listen != "" {
		flagListen = config.Listen
	}
	if !cmd.Flags().Lookup(flagOpPatternName).Changed && config.OpPattern != "" {
		flagOpPattern = config.OpPattern
	}
	if flagListen == "" {
		return common.FlagValidationError(cmd, "listen address must not be empty")
	}
	var err error
	parser, err = common.NewParser(flagOpPattern)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	srv := server.New(parser)
	if len(flagInput) > 0 {
		// stdin is only read when named explicitly
		inputs, err := common.ReadInputs(flagInput, os.Stdin, false)
		if err != nil {
			return common.FlagValidationError(cmd, err.Error())
		}
		var results []extract.ParseResult
		for _, input := range inputs {
			result := parser.Parse(input.Data)
			slog.Info("loaded input", slog.String("input", input.Name), slog.Int("devices", len(result.Devices)), slog.Int("samples", len(result.PerformanceData)))
			results = append(results, result)
		}
		srv.Load(results...)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Printf("Serving on %s, press Ctrl+C to stop\n", flagListen)
	if err := srv.ListenAndServe(ctx, flagListen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	return nil
}
