// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmapeak/internal/common"
)

func withConfig(t *testing.T, config common.Config) {
	t.Helper()
	Cmd.SetContext(context.WithValue(context.Background(), common.AppContext{}, common.AppContext{Config: config}))
	t.Cleanup(func() {
		Cmd.SetContext(context.Background())
		flagListen = defaultListen
		flagOpPattern = ""
		parser = nil
	})
}

func TestValidateFlagsDefaults(t *testing.T) {
	withConfig(t, common.Config{})
	require.NoError(t, validateFlags(Cmd, nil))
	assert.Equal(t, defaultListen, flagListen)
	assert.NotNil(t, parser)
}

func TestValidateFlagsAppliesConfig(t *testing.T) {
	withConfig(t, common.Config{Listen: "127.0.0.1:9090", OpPattern: `^gemm_`})
	require.NoError(t, validateFlags(Cmd, nil))
	assert.Equal(t, "127.0.0.1:9090", flagListen)
	assert.Equal(t, `^gemm_`, flagOpPattern)

	result := parser.Parse("gemm_f16\n  run: 10.0 ms 2.5 T(fl)ops\n")
	assert.Len(t, result.PerformanceData, 1)
}

func TestValidateFlagsErrors(t *testing.T) {
	withConfig(t, common.Config{OpPattern: "mma_("})
	assert.Error(t, validateFlags(Cmd, nil))

	withConfig(t, common.Config{})
	flagListen = ""
	assert.Error(t, validateFlags(Cmd, nil))
}

func TestFlagGroupsNameRegisteredFlags(t *testing.T) {
	for _, group := range getFlagGroups() {
		for _, flag := range group.Flags {
			assert.NotNil(t, Cmd.Flags().Lookup(flag.Name), flag.Name)
		}
	}
}
