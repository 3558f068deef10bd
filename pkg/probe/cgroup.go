// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Limit is a cgroup limit value.  The literal token "max" in a cgroup
// interface file means "no limit" and is carried as an explicit
// sentinel rather than a number, so callers can never confuse it with
// a numeric threshold.
type Limit struct {
	Unlimited bool
	Value     int64
}

// ParseLimit parses the contents of a cgroup limit file.
func ParseLimit(raw string) (Limit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "max" {
		return Limit{Unlimited: true}, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Limit{}, fmt.Errorf("unrecognized limit value %q: %s", raw, err.Error())
	}
	return Limit{Value: v}, nil
}

func (l Limit) String() string {
	if l.Unlimited {
		return "max (unlimited)"
	}
	return strconv.FormatInt(l.Value, 10)
}

// CgroupPaths roots the cgroup probes so tests can stage fake trees.
// All fields must be set; callers use the real /proc and /sys paths.
type CgroupPaths struct {
	ProcMounts     string
	ProcSelfCgroup string
	MountRoot      string
}

// ReportCgroupV1 detects a cgroup v1 hierarchy and logs the pids and
// memory limits that apply to this process.  Missing mounts, files, or
// controllers are logged and non-fatal.
func ReportCgroupV1(paths CgroupPaths) error {
	mounts, err := cgroupV1Mounts(paths.ProcMounts)
	if err != nil {
		log.Warnf("Failed to check cgroup v1 info: %v", err)
		return nil
	}

	if len(mounts) == 0 {
		log.Info("No cgroup v1 mounts found")
		if fileExists(filepath.Join(paths.MountRoot, "cgroup.controllers")) {
			log.Info("This indicates the system is using cgroup v2 (unified hierarchy)")
		}
		return nil
	}

	log.Infof("Found %d cgroup v1 mounts", len(mounts))
	for i, mount := range mounts {
		if i >= 3 {
			break
		}
		log.Infof("  %s", mount)
	}

	if path, ok := controllerFile(paths, "pids", "pids.max"); ok {
		if limit, err := readLimitFile(path); err != nil {
			log.Warnf("Failed to read %s: %v", path, err)
		} else {
			log.Infof("cgroup v1 pids.max: %s (%s)", limit, path)
		}
	} else {
		log.Info("cgroup v1 pids.max not found")
	}

	if path, ok := controllerFile(paths, "memory", "memory.limit_in_bytes"); ok {
		if limit, err := readLimitFile(path); err != nil {
			log.Warnf("Failed to read %s: %v", path, err)
		} else if limit.Unlimited {
			log.Infof("cgroup v1 memory limit: %s", limit)
		} else {
			log.Infof("cgroup v1 memory limit: %.2f GB (%d bytes)", float64(limit.Value)/bytesPerGB, limit.Value)
		}
	} else {
		log.Info("cgroup v1 memory limit not found")
	}

	return nil
}

// ReportCgroupV2 detects a cgroup v2 mount and logs the pids, memory,
// and cpu limits that apply to this process.
func ReportCgroupV2(paths CgroupPaths) error {
	mount, err := cgroupV2Mount(paths.ProcMounts)
	if err != nil {
		log.Warnf("Failed to check cgroup v2 info: %v", err)
		return nil
	}
	if mount == "" {
		log.Info("cgroup v2 not mounted")
		return nil
	}
	log.Infof("cgroup v2 mount: %s", mount)

	cgroupPath, err := cgroupV2SelfPath(paths.ProcSelfCgroup)
	if err != nil {
		log.Warnf("Could not determine cgroup v2 path: %v", err)
		return nil
	}
	log.Infof("Current cgroup v2 path: %s", cgroupPath)

	dir := filepath.Join(paths.MountRoot, cgroupPath)
	for _, name := range []string{"pids.max", "memory.max"} {
		file := filepath.Join(dir, name)
		if !fileExists(file) {
			log.Infof("cgroup v2 %s not found", name)
			continue
		}
		limit, err := readLimitFile(file)
		if err != nil {
			log.Warnf("Failed to read %s: %v", file, err)
			continue
		}
		if name == "memory.max" && !limit.Unlimited {
			log.Infof("cgroup v2 memory.max: %.2f GB (%d bytes)", float64(limit.Value)/bytesPerGB, limit.Value)
		} else {
			log.Infof("cgroup v2 %s: %s", name, limit)
		}
	}

	// cpu.max holds "quota period" rather than a single value, where
	// the quota may be the "max" sentinel.
	cpuMaxFile := filepath.Join(dir, "cpu.max")
	if raw, err := os.ReadFile(cpuMaxFile); err == nil {
		log.Infof("cgroup v2 cpu.max: %s", strings.TrimSpace(string(raw)))
	} else {
		log.Info("cgroup v2 cpu.max not found")
	}

	return nil
}

// cgroupV1Mounts returns the cgroup v1 mount lines from a mounts file.
func cgroupV1Mounts(procMounts string) ([]string, error) {
	f, err := os.Open(procMounts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mounts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "cgroup") && !strings.Contains(line, "cgroup2") {
			mounts = append(mounts, strings.TrimSpace(line))
		}
	}
	return mounts, scanner.Err()
}

// cgroupV2Mount returns the first cgroup2 mount line, or "" when the
// unified hierarchy is not mounted.
func cgroupV2Mount(procMounts string) (string, error) {
	f, err := os.Open(procMounts)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "cgroup2") {
			return strings.TrimSpace(line), nil
		}
	}
	return "", scanner.Err()
}

// controllerFile resolves the path of a cgroup v1 interface file for
// the named controller, following this process's cgroup assignment.
func controllerFile(paths CgroupPaths, controller string, name string) (string, bool) {
	f, err := os.Open(paths.ProcSelfCgroup)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, controller+":") {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), ":")
		cgPath := parts[len(parts)-1]
		candidate := filepath.Join(paths.MountRoot, controller, cgPath, name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// cgroupV2SelfPath returns this process's path in the unified
// hierarchy, from the "0::" record.
func cgroupV2SelfPath(procSelfCgroup string) (string, error) {
	f, err := os.Open(procSelfCgroup)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "0::") {
			return strings.TrimPrefix(line, "0::"), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no cgroup v2 record in %s", procSelfCgroup)
}

func readLimitFile(path string) (Limit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Limit{}, err
	}
	return ParseLimit(string(raw))
}
