// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package extract

// OperationDefinition pairs an operation code with its description.
type OperationDefinition struct {
	Code        string
	Description string
}

// operationDefinitions lists the known operation codes in the order the
// benchmark runs them.
var operationDefinitions = []OperationDefinition{
	{Code: "mma_s4s4s32_8_8_32", Description: "4位有符号整数矩阵乘法 (8x8x32)"},
	{Code: "mma_mxf4mxf4f32_16_8_64", Description: "4位MX浮点矩阵乘法 (16x8x64)"},
	{Code: "mma_nvf4nvf4f32_16_8_64", Description: "4位NV浮点矩阵乘法 (16x8x64)"},
	{Code: "mma_f4f4f16_16_8_32", Description: "4位浮点到FP16矩阵乘法 (16x8x32)"},
	{Code: "mma_f4f4f32_16_8_32", Description: "4位浮点到FP32矩阵乘法 (16x8x32)"},
	{Code: "mma_f6f6f16_16_8_32", Description: "6位浮点到FP16矩阵乘法 (16x8x32)"},
	{Code: "mma_f6f6f32_16_8_32", Description: "6位浮点到FP32矩阵乘法 (16x8x32)"},
	{Code: "mma_mxf6mxf6f32_16_8_32", Description: "6位MX浮点矩阵乘法 (16x8x32)"},
	{Code: "mma_mxf8mxf8f32_16_8_32", Description: "8位MX浮点矩阵乘法 (16x8x32)"},
	{Code: "mma_f8f8f16_16_8_32", Description: "8位浮点到FP16矩阵乘法 (16x8x32)"},
	{Code: "mma_f8f8f32_16_8_32", Description: "8位浮点到FP32矩阵乘法 (16x8x32)"},
	{Code: "mma_s8s8s32_16_16_16", Description: "8位有符号整数矩阵乘法 (16x16x16)"},
	{Code: "mma_s8s8s32_32_8_16", Description: "8位有符号整数矩阵乘法 (32x8x16)"},
	{Code: "mma_f16f16f16_16_16_16", Description: "FP16矩阵乘法 (16x16x16)"},
	{Code: "mma_f16f16f16_32_8_16", Description: "FP16矩阵乘法 (32x8x16)"},
	{Code: "mma_f16f16f32_16_16_16", Description: "FP16到FP32矩阵乘法 (16x16x16)"},
	{Code: "mma_f16f16f32_32_8_16", Description: "FP16到FP32矩阵乘法 (32x8x16)"},
	{Code: "mma_bf16bf16f32_16_16_16", Description: "BF16到FP32矩阵乘法 (16x16x16)"},
	{Code: "mma_bf16bf16f32_32_8_16", Description: "BF16到FP32矩阵乘法 (32x8x16)"},
	{Code: "mma_tf32tf32f32_16_16_8", Description: "TF32矩阵乘法 (16x16x8)"},
}

var operationDescriptions = func() map[string]string {
	m := make(map[string]string, len(operationDefinitions))
	for _, def := range operationDefinitions {
		m[def.Code] = def.Description
	}
	return m
}()

// OperationDescription returns the human-readable description of an
// operation code, or the code itself when it is not known.
func OperationDescription(code string) string {
	if desc, ok := operationDescriptions[code]; ok {
		return desc
	}
	return code
}

// OperationCodes returns the known operation codes in benchmark run order.
func OperationCodes() []string {
	codes := make([]string, 0, len(operationDefinitions))
	for _, def := range operationDefinitions {
		codes = append(codes, def.Code)
	}
	return codes
}
