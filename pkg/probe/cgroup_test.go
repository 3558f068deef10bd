// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dudash/thread-flare/pkg/summary"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		testName      string
		raw           string
		unlimited     bool
		value         int64
		expectedError bool
	}{
		{"test max sentinel", "max", true, 0, false},
		{"test max with newline", "max\n", true, 0, false},
		{"test numeric", "18391", false, 18391, false},
		{"test numeric with newline", "4194304\n", false, 4194304, false},
		{"test garbage", "plenty", false, 0, true},
		{"test empty", "", false, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			limit, err := ParseLimit(tc.raw)
			if tc.expectedError {
				assert.Error(t, err, "Expected a parse error for %q", tc.raw)
				return
			}
			assert.NoError(t, err, "Unexpected parse error: %v", err)
			assert.Equal(t, tc.unlimited, limit.Unlimited, "Unexpected unlimited sentinel")
			assert.Equal(t, tc.value, limit.Value, "Unexpected limit value")
		})
	}
}

// stageCgroupV1 builds a fake cgroup v1 environment under a temporary
// directory and returns the paths to probe it with.
func stageCgroupV1(t *testing.T, pidsMax string, memoryLimit string) CgroupPaths {
	root := t.TempDir()

	mounts := "cgroup /sys/fs/cgroup/pids cgroup rw,pids 0 0\n" +
		"cgroup /sys/fs/cgroup/memory cgroup rw,memory 0 0\n"
	procMounts := filepath.Join(root, "mounts")
	require.NoError(t, os.WriteFile(procMounts, []byte(mounts), 0644))

	selfCgroup := "11:pids:/testgroup\n10:memory:/testgroup\n"
	procSelfCgroup := filepath.Join(root, "cgroup")
	require.NoError(t, os.WriteFile(procSelfCgroup, []byte(selfCgroup), 0644))

	mountRoot := filepath.Join(root, "sys-fs-cgroup")
	pidsDir := filepath.Join(mountRoot, "pids", "testgroup")
	memDir := filepath.Join(mountRoot, "memory", "testgroup")
	require.NoError(t, os.MkdirAll(pidsDir, 0755))
	require.NoError(t, os.MkdirAll(memDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pidsDir, "pids.max"), []byte(pidsMax), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(memDir, "memory.limit_in_bytes"), []byte(memoryLimit), 0644))

	return CgroupPaths{
		ProcMounts:     procMounts,
		ProcSelfCgroup: procSelfCgroup,
		MountRoot:      mountRoot,
	}
}

// stageCgroupV2 builds a fake unified hierarchy.
func stageCgroupV2(t *testing.T, pidsMax string, memoryMax string, cpuMax string) CgroupPaths {
	root := t.TempDir()

	procMounts := filepath.Join(root, "mounts")
	require.NoError(t, os.WriteFile(procMounts, []byte("cgroup2 /sys/fs/cgroup cgroup2 rw 0 0\n"), 0644))

	procSelfCgroup := filepath.Join(root, "cgroup")
	require.NoError(t, os.WriteFile(procSelfCgroup, []byte("0::/testgroup\n"), 0644))

	mountRoot := filepath.Join(root, "sys-fs-cgroup")
	dir := filepath.Join(mountRoot, "testgroup")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pids.max"), []byte(pidsMax), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "memory.max"), []byte(memoryMax), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cpu.max"), []byte(cpuMax), 0644))

	return CgroupPaths{
		ProcMounts:     procMounts,
		ProcSelfCgroup: procSelfCgroup,
		MountRoot:      mountRoot,
	}
}

func capturedMessages(hook *test.Hook) string {
	var sb strings.Builder
	for _, entry := range hook.AllEntries() {
		sb.WriteString(entry.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestReportCgroupV1(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	paths := stageCgroupV1(t, "2048\n", "4294967296\n")
	err := ReportCgroupV1(paths)
	assert.NoError(t, err, "Unexpected error from cgroup v1 probe: %v", err)

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "Found 2 cgroup v1 mounts", "Mounts not reported")
	assert.Contains(t, messages, "cgroup v1 pids.max: 2048", "pids.max not reported")
	assert.Contains(t, messages, "cgroup v1 memory limit: 4.00 GB (4294967296 bytes)", "memory limit not reported")
}

func TestReportCgroupV1NotDetected(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	root := t.TempDir()
	procMounts := filepath.Join(root, "mounts")
	require.NoError(t, os.WriteFile(procMounts, []byte("proc /proc proc rw 0 0\n"), 0644))

	paths := CgroupPaths{
		ProcMounts:     procMounts,
		ProcSelfCgroup: filepath.Join(root, "no-such-cgroup"),
		MountRoot:      filepath.Join(root, "no-such-mount"),
	}
	err := ReportCgroupV1(paths)
	assert.NoError(t, err, "Missing cgroup v1 files must not be an error: %v", err)
	assert.Contains(t, capturedMessages(hook), "No cgroup v1 mounts found", "Absence not reported")
}

func TestReportCgroupV2(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	paths := stageCgroupV2(t, "max\n", "1073741824\n", "200000 100000\n")
	err := ReportCgroupV2(paths)
	assert.NoError(t, err, "Unexpected error from cgroup v2 probe: %v", err)

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "cgroup v2 pids.max: max (unlimited)", "pids.max sentinel not reported")
	assert.Contains(t, messages, "cgroup v2 memory.max: 1.00 GB (1073741824 bytes)", "memory.max not reported")
	assert.Contains(t, messages, "cgroup v2 cpu.max: 200000 100000", "cpu.max not reported")
}

func TestReportCgroupV2NotMounted(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	root := t.TempDir()
	procMounts := filepath.Join(root, "mounts")
	require.NoError(t, os.WriteFile(procMounts, []byte("proc /proc proc rw 0 0\n"), 0644))

	paths := CgroupPaths{
		ProcMounts:     procMounts,
		ProcSelfCgroup: filepath.Join(root, "no-such-cgroup"),
		MountRoot:      filepath.Join(root, "no-such-mount"),
	}
	err := ReportCgroupV2(paths)
	assert.NoError(t, err, "Missing cgroup v2 mount must not be an error: %v", err)
	assert.Contains(t, capturedMessages(hook), "cgroup v2 not mounted", "Absence not reported")
}

// TestSummaryRecoversCgroupFindings runs the cgroup probes against
// staged trees, renders the captured entries with the same formatter
// the CLI uses, and verifies the summary parser recovers the staged
// values from that output.  This keeps the parser's patterns from
// drifting away from what the probes actually log.
func TestSummaryRecoversCgroupFindings(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	require.NoError(t, ReportCgroupV1(stageCgroupV1(t, "4096\n", "4294967296\n")))
	require.NoError(t, ReportCgroupV2(stageCgroupV2(t, "max\n", "8589934592\n", "200000 100000\n")))

	formatter := &log.TextFormatter{FullTimestamp: true}
	var buf bytes.Buffer
	for _, entry := range hook.AllEntries() {
		line, err := formatter.Format(entry)
		require.NoError(t, err, "Could not format log entry: %v", err)
		buf.Write(line)
	}

	result, err := summary.Parse(&buf)
	assert.NoError(t, err, "Unexpected parse error: %v", err)
	assert.Equal(t, "4096", result.CgroupV1Pids, "cgroup v1 pids not recovered")
	assert.Equal(t, "4.00 GB (4294967296 bytes)", result.CgroupV1Memory, "cgroup v1 memory not recovered")
	assert.Equal(t, "max", result.CgroupV2Pids, "cgroup v2 pids sentinel not recovered")
	assert.Equal(t, "8.00 GB (8589934592 bytes)", result.CgroupV2Memory, "cgroup v2 memory not recovered")
}

func TestMain(m *testing.M) {
	// The probes log at info level; keep that visible to the capture
	// hooks regardless of the environment's default.
	log.SetLevel(log.InfoLevel)
	os.Exit(m.Run())
}
