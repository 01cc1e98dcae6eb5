// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package facts gathers worker host facts included in agent replies so
// schedulers can weigh processing nodes
package facts

import (
	"context"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	iu "github.com/usgs-eros/espa-wrappers/internal/util"
	"github.com/usgs-eros/espa-wrappers/model"
)

// WorkerFacts describes the capacity and tooling of a processing node
func WorkerFacts(ctx context.Context, log model.Logger, binDir string, executables []string) map[string]any {
	facts := map[string]any{
		"host":   map[string]any{},
		"cpu":    map[string]any{},
		"memory": map[string]any{},
		"disk":   map[string]any{},
		"tools":  toolFacts(binDir, executables),
	}

	hostInfo, err := host.InfoWithContext(ctx)
	if err == nil {
		facts["host"] = map[string]any{
			"hostname": hostInfo.Hostname,
			"os":       hostInfo.OS,
			"platform": hostInfo.Platform,
			"kernel":   hostInfo.KernelVersion,
			"uptime":   hostInfo.Uptime,
		}
	} else {
		log.Warn("Could not gather host facts", "error", err)
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err == nil {
		facts["cpu"] = map[string]any{"cores": cores}
	} else {
		log.Warn("Could not gather cpu facts", "error", err)
	}

	virtual, err := mem.VirtualMemoryWithContext(ctx)
	if err == nil {
		facts["memory"] = map[string]any{
			"total":     virtual.Total,
			"available": virtual.Available,
		}
	} else {
		log.Warn("Could not gather memory facts", "error", err)
	}

	usage, err := disk.UsageWithContext(ctx, workDir(binDir))
	if err == nil {
		facts["disk"] = map[string]any{
			"path":  usage.Path,
			"total": usage.Total,
			"free":  usage.Free,
		}
	} else {
		log.Warn("Could not gather disk facts", "error", err)
	}

	return facts
}

// toolFacts records which science tools are actually runnable on this node
func toolFacts(binDir string, executables []string) map[string]any {
	tools := map[string]any{}

	for _, exe := range executables {
		if binDir != "" {
			tools[exe] = iu.FileExists(filepath.Join(binDir, exe))
			continue
		}

		_, ok, _ := iu.ExecutableInPath(exe)
		tools[exe] = ok
	}

	return tools
}

func workDir(binDir string) string {
	if binDir != "" && iu.IsDirectory(binDir) {
		return binDir
	}

	return "/"
}
