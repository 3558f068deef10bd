// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFloodRespectsCap verifies that a capped flood creates exactly
// the requested number of threads and announces the cap.  Small caps
// keep the test from eating the test runner's thread budget; the
// pinned threads are only released when the test binary exits.
func TestFloodRespectsCap(t *testing.T) {
	testCases := []struct {
		testName string
		cap      int
	}{
		{"test zero cap", 0},
		{"test single thread", 1},
		{"test several threads", 8},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			var out bytes.Buffer
			created := Flood(&out, tc.cap)
			assert.Equal(t, int64(tc.cap), created, "Unexpected thread count")

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Equal(t, tc.cap+1, len(lines), "Unexpected number of output lines")
			for i := 0; i < tc.cap; i++ {
				assert.Equal(t, fmt.Sprintf("thread-count %d", i+1), lines[i], "Count lines must be sequential")
			}
			assert.Equal(t, "flood-complete cap-reached", lines[len(lines)-1], "Cap announcement missing")
		})
	}
}

func TestScanFloodOutput(t *testing.T) {
	in := "thread-count 1\nthread-count 2\nflood-complete cap-reached\n"
	result, err := scanFloodOutput(strings.NewReader(in), 1)
	assert.NoError(t, err, "Unexpected scan error: %v", err)
	assert.Equal(t, 2, result.Created, "Unexpected thread count")
	assert.True(t, result.CapReached, "Cap line not recognized")
}

// brokenReader yields its data and then fails, standing in for a pipe
// that dies mid-stream.
type brokenReader struct {
	data []byte
	err  error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	return 0, r.err
}

func TestScanFloodOutputReadError(t *testing.T) {
	r := &brokenReader{
		data: []byte("thread-count 1\nthread-count 2\n"),
		err:  errors.New("read |0: file already closed"),
	}
	result, err := scanFloodOutput(r, 100)
	assert.Error(t, err, "Read failure must be surfaced")
	assert.Equal(t, 2, result.Created, "Counts seen before the read error must be kept")
	assert.False(t, result.CapReached, "No cap line was seen")
}

func TestFailureReason(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		testName string
		stderr   string
		expected string
	}{
		{
			"test runtime diagnostic",
			"runtime: failed to create new OS thread (have 18391 already; errno=11)\nfatal error: newosproc\n",
			"failed to create new OS thread (have 18391 already; errno=11)",
		},
		{
			"test unrelated stderr",
			"something odd happened\n",
			"something odd happened",
		},
		{
			"test empty stderr",
			"",
			"exit status 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			reason := failureReason(tc.stderr, fmt.Errorf("exit status 2"))
			assert.Equal(t, tc.expected, reason, "Unexpected failure reason")
		})
	}
}
