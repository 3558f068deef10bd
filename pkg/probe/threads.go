// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/dudash/thread-flare/pkg/constants"
	log "github.com/sirupsen/logrus"
)

// FloodResult is the terminal state of the thread flood.
type FloodResult struct {
	// Created is the number of threads successfully started before
	// the flood stopped.
	Created int

	// CapReached is true when the flood stopped because it hit the
	// configured cap rather than an OS refusal.
	CapReached bool

	// Reason holds the OS failure diagnostic when CapReached is
	// false.
	Reason string
}

// Patterns the flood worker child prints on its stdout.  The parent
// scans for these; the summary command recovers the final state from
// the parent's log lines.
var (
	countLinePattern = regexp.MustCompile(`^thread-count (\d+)$`)
	capLinePattern   = regexp.MustCompile(`^flood-complete cap-reached$`)
	osThreadFailure  = regexp.MustCompile(`failed to create new OS thread.*`)
)

// RunThreadFlood creates threads until the cap is reached or the
// operating system refuses to create another one.  The OS refusing is
// the probe's expected terminal condition, reported as a result, not
// an error.
//
// The Go runtime aborts the whole process when thread creation fails,
// so the flood runs in a re-exec'd copy of this binary (the hidden
// flood-worker command).  The parent streams the child's per-thread
// count lines, logs progress, and recovers the failure diagnostic from
// the child's stderr when the kernel finally says no.
func RunThreadFlood(maxThreads int, progressInterval int) (*FloodResult, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate own executable: %s", err.Error())
	}

	cmd := exec.Command(exe, constants.FloodWorkerCommandName,
		"--max-threads", strconv.Itoa(maxThreads))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start flood worker: %s", err.Error())
	}

	result, scanErr := scanFloodOutput(stdout, progressInterval)

	waitErr := cmd.Wait()
	if scanErr != nil {
		log.Warnf("Reading flood worker output: %v; the reported count may be low", scanErr)
	}
	switch {
	case result.CapReached:
		log.Infof("Thread flood: created %d threads (limit reached: cap)", result.Created)
	case waitErr != nil:
		result.Reason = failureReason(stderr.String(), waitErr)
		log.Infof("Thread creation failed at %d threads: %s", result.Created, result.Reason)
	default:
		// The worker exited cleanly without announcing a cap.  That
		// only happens for a zero cap worker run.
		log.Infof("Thread flood: created %d threads", result.Created)
	}

	return result, nil
}

// scanFloodOutput consumes the worker's stdout protocol, logging
// progress every progressInterval successful thread starts.  A read
// error means the counts seen so far are a lower bound.
func scanFloodOutput(r io.Reader, progressInterval int) (*FloodResult, error) {
	result := &FloodResult{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if m := countLinePattern.FindStringSubmatch(line); m != nil {
			count, _ := strconv.Atoi(m[1])
			result.Created = count
			if count%progressInterval == 0 {
				log.Infof("Created %d threads...", count)
			}
			continue
		}
		if capLinePattern.MatchString(line) {
			result.CapReached = true
		}
	}
	return result, scanner.Err()
}

// failureReason extracts the runtime's thread creation diagnostic from
// the worker's stderr, falling back to the last non-empty stderr line
// and then to the process exit status.
func failureReason(stderr string, waitErr error) string {
	if m := osThreadFailure.FindString(stderr); m != "" {
		return m
	}

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return waitErr.Error()
}

// ReportThreadFlood wraps RunThreadFlood as a probe, logging the
// configured cap up front.
func ReportThreadFlood(maxThreads int, progressInterval int) error {
	if maxThreads < 0 {
		log.Info("Spawning threads until failure (no cap)")
	} else {
		log.Infof("Spawning threads until failure (cap: %d)", maxThreads)
	}
	_, err := RunThreadFlood(maxThreads, progressInterval)
	return err
}
