// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

// Package summary recovers the headline findings from a captured probe
// run log.  It matches the documented line patterns the probes emit,
// so a log that round-trips through capture tooling yields the same
// values that were logged.
package summary

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
)

// Summary holds the values recovered from a run log.  String fields
// are empty, and counts are -1, when the corresponding line was not
// present.
type Summary struct {
	ThreadsCreated int
	FloodOutcome   string
	CgroupV1Pids   string
	CgroupV1Memory string
	CgroupV2Pids   string
	CgroupV2Memory string
	GPUCount       int
}

// The probes emit these patterns; the logrus prefix (and any quoting
// applied when output is not a terminal) is deliberately not anchored
// so captured logs parse the same as live ones.
var (
	floodCapPattern     = regexp.MustCompile(`Thread flood: created (\d+) threads \(limit reached: cap\)`)
	floodFailurePattern = regexp.MustCompile(`Thread creation failed at (\d+) threads: (.+)`)
	progressPattern     = regexp.MustCompile(`Created (\d+) threads\.\.\.`)
	v1PidsPattern       = regexp.MustCompile(`cgroup v1 pids\.max: (\S+)`)
	v1MemoryPattern     = regexp.MustCompile(`cgroup v1 memory limit: (.+)`)
	v2PidsPattern       = regexp.MustCompile(`cgroup v2 pids\.max: (\S+)`)
	v2MemoryPattern     = regexp.MustCompile(`cgroup v2 memory\.max: (.+)`)
	gpuCountPattern     = regexp.MustCompile(`nvidia-smi reported (\d+) GPUs`)
)

// Parse scans a run log and recovers the findings.  Lines that match
// no documented pattern are ignored; later matches win so that a log
// holding multiple runs reports the last one.
func Parse(r io.Reader) (*Summary, error) {
	ret := &Summary{ThreadsCreated: -1, GPUCount: -1}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if m := floodCapPattern.FindStringSubmatch(line); m != nil {
			ret.ThreadsCreated = mustAtoi(m[1])
			ret.FloodOutcome = "limit reached (cap)"
			continue
		}
		if m := floodFailurePattern.FindStringSubmatch(line); m != nil {
			ret.ThreadsCreated = mustAtoi(m[1])
			ret.FloodOutcome = trimQuote(m[2])
			continue
		}
		if m := progressPattern.FindStringSubmatch(line); m != nil {
			// Progress lines are a lower bound; a terminal line that
			// follows will overwrite this.
			if n := mustAtoi(m[1]); n > ret.ThreadsCreated {
				ret.ThreadsCreated = n
			}
			continue
		}
		if m := v1PidsPattern.FindStringSubmatch(line); m != nil {
			ret.CgroupV1Pids = trimQuote(m[1])
			continue
		}
		if m := v1MemoryPattern.FindStringSubmatch(line); m != nil {
			ret.CgroupV1Memory = trimQuote(m[1])
			continue
		}
		if m := v2PidsPattern.FindStringSubmatch(line); m != nil {
			ret.CgroupV2Pids = trimQuote(m[1])
			continue
		}
		if m := v2MemoryPattern.FindStringSubmatch(line); m != nil {
			ret.CgroupV2Memory = trimQuote(m[1])
			continue
		}
		if m := gpuCountPattern.FindStringSubmatch(line); m != nil {
			ret.GPUCount = mustAtoi(m[1])
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ret, nil
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// trimQuote drops the trailing quote logrus adds around messages when
// its output is not a terminal.
func trimQuote(s string) string {
	if len(s) > 0 && s[len(s)-1] == '"' {
		return s[:len(s)-1]
	}
	return s
}
