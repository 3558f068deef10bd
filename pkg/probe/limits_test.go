// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestDescriptorBudget(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		testName string
		soft     uint64
		expected int
	}{
		{"test tiny soft limit", 8, 4},
		{"test limit at budget boundary", 200, 100},
		{"test large soft limit", 1048576, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			assert.Equal(t, tc.expected, descriptorBudget(tc.soft), "Unexpected descriptor budget")
		})
	}
}

func TestRlimitString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "unlimited", rlimitString(unix.RLIM_INFINITY), "Infinity must render as unlimited")
	assert.Equal(t, "4096", rlimitString(4096), "Finite limits must render as numbers")
}

func TestOpenDescriptors(t *testing.T) {
	opened, err := openDescriptors(10)
	assert.NoError(t, err, "Opening a handful of descriptors must succeed")
	assert.Equal(t, 10, opened, "Unexpected descriptor count")
}

func TestReportProcessLimitsStagedFile(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits")
	content := "Limit                     Soft Limit           Hard Limit           Units\n" +
		"Max processes             4096                 4096                 processes\n" +
		"Max open files            1024                 1048576              files\n"
	assert.NoError(t, os.WriteFile(limitsFile, []byte(content), 0600))

	hook := test.NewGlobal()
	defer hook.Reset()

	assert.NoError(t, ReportProcessLimits(limitsFile))

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "Proc limits: Max processes             4096                 4096                 processes",
		"Staged processes line must be reported")
}
