// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// deviceDetailLines is the number of lines after a device header that may
// hold the device's detail fields.
const deviceDetailLines = 4

// parseDevices scans lines for device headers and their detail fields.
func parseDevices(lines []string) []DeviceInfo {
	devices := []DeviceInfo{}
	for i := range lines {
		line := strings.TrimSpace(lines[i])
		header, ok := matchDeviceHeader(line)
		if !ok {
			if strings.HasPrefix(line, "Device ") {
				slog.Debug("skipping malformed device header", slog.String("line", line))
			}
			continue
		}
		device := DeviceInfo{
			ID:   header.id,
			Name: fmt.Sprintf("%s (%s)", header.name, header.label),
		}
		for j := i + 1; j < min(i+1+deviceDetailLines, len(lines)); j++ {
			detailLine := strings.TrimSpace(lines[j])
			switch {
			case strings.Contains(detailLine, "Compute capability:"):
				device.ComputeCapability = fieldValue(detailLine)
			case strings.Contains(detailLine, "Total global memory:"):
				device.Memory = fieldValue(detailLine)
			case strings.Contains(detailLine, "Multiprocessor count:"):
				device.MultiprocessorCount, _ = leadingInt(fieldValue(detailLine))
			}
		}
		devices = append(devices, device)
	}
	return devices
}

// deviceLabel is the synthesized label for a device id, also used as the
// display name when the id has no matching device.
func deviceLabel(id int) string {
	return fmt.Sprintf("设备 %d", id)
}

// leadingInt parses the decimal digits at the start of s.
func leadingInt(s string) (int, bool) {
	digits := reLeadingInt.FindString(s)
	if digits == "" {
		return 0, false
	}
	val, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return val, true
}
