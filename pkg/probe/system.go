// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	log "github.com/sirupsen/logrus"
)

const bytesPerGB = float64(1 << 30)

// ReportSystemInfo logs the OS-level view of CPU, memory, and platform
// details.  These values are later compared against what the cluster
// API reports for this node.
func ReportSystemInfo() error {
	logical, err := cpu.Counts(true)
	if err != nil {
		log.Warnf("Failed to count logical CPUs: %v", err)
	} else {
		log.Infof("CPU cores (logical): %d", logical)
	}

	physical, err := cpu.Counts(false)
	if err != nil {
		log.Warnf("Failed to count physical CPUs: %v", err)
	} else {
		log.Infof("CPU cores (physical): %d", physical)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warnf("Failed to read memory info: %v", err)
	} else {
		log.Infof("Memory total: %.2f GB", float64(vm.Total)/bytesPerGB)
		log.Infof("Memory available: %.2f GB", float64(vm.Available)/bytesPerGB)
		log.Infof("Memory used: %.1f%%", vm.UsedPercent)
	}

	info, err := host.Info()
	if err != nil {
		log.Warnf("Failed to read host info: %v", err)
	} else {
		log.Infof("Platform: %s %s (%s)", info.Platform, info.PlatformVersion, info.KernelVersion)
		log.Infof("Architecture: %s", info.KernelArch)
		log.Infof("Hostname: %s", info.Hostname)
	}
	log.Infof("Go runtime: %s, GOMAXPROCS=%d", runtime.Version(), runtime.GOMAXPROCS(0))

	return nil
}

// SystemView is the OS-level CPU and memory picture used for the
// cluster comparison.
type SystemView struct {
	LogicalCPUs int
	MemoryBytes uint64
}

// GetSystemView returns the OS view of CPU and memory, best-effort.
func GetSystemView() SystemView {
	view := SystemView{}
	if logical, err := cpu.Counts(true); err == nil {
		view.LogicalCPUs = logical
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		view.MemoryBytes = vm.Total
	}
	return view
}
