// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const ulimitTimeout = 5 * time.Second

// ReportProcessLimits logs the process count limits visible to this
// process.  It tries three independent sources: /proc/self/limits,
// getrlimit(RLIMIT_NPROC), and the shell's ulimit builtin.  Each
// source failing is non-fatal and logged.
func ReportProcessLimits(procSelfLimits string) error {
	if err := reportProcFileLimits(procSelfLimits); err != nil {
		log.Warnf("Failed to read %s: %v", procSelfLimits, err)
	}

	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NPROC, &rlimit); err != nil {
		log.Warnf("Failed to get process limits via getrlimit: %v", err)
	} else {
		log.Infof("Process limit (rlimit): soft=%s, hard=%s", rlimitString(rlimit.Cur), rlimitString(rlimit.Max))
	}

	out, err := runUlimit("-u")
	if err != nil {
		log.Warnf("ulimit command not available: %v", err)
	} else {
		log.Infof("ulimit -u: %s", out)
	}
	return nil
}

// ReportFileDescriptorLimits logs the file descriptor limits and then
// verifies that a reasonable number of descriptors can actually be
// opened.
func ReportFileDescriptorLimits() error {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		log.Warnf("Failed to get file descriptor limits: %v", err)
		return nil
	}
	log.Infof("File descriptor limit - soft: %s, hard: %s", rlimitString(rlimit.Cur), rlimitString(rlimit.Max))

	opened, err := openDescriptors(descriptorBudget(rlimit.Cur))
	if err != nil {
		log.Warnf("File descriptor test stopped after %d descriptors: %v", opened, err)
		return nil
	}
	log.Infof("Successfully opened %d file descriptors", opened)
	return nil
}

// descriptorBudget limits the open-descriptor test to something that
// cannot plausibly starve the rest of the probe run.
func descriptorBudget(soft uint64) int {
	budget := soft / 2
	if budget > 100 {
		budget = 100
	}
	return int(budget)
}

func openDescriptors(n int) (int, error) {
	fds := make([]int, 0, n)
	defer func() {
		for _, fd := range fds {
			unix.Close(fd)
		}
	}()

	for i := 0; i < n; i++ {
		fd, err := unix.Open(os.DevNull, unix.O_RDONLY, 0)
		if err != nil {
			return len(fds), err
		}
		fds = append(fds, fd)
	}
	return len(fds), nil
}

func reportProcFileLimits(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(strings.ToLower(line), "processes") {
			log.Infof("Proc limits: %s", strings.TrimSpace(line))
		}
	}
	return scanner.Err()
}

func runUlimit(arg string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ulimitTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "sh", "-c", "ulimit "+arg).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// rlimitString renders an rlimit value, treating RLIM_INFINITY as the
// "unlimited" sentinel rather than a number.
func rlimitString(v uint64) string {
	if v == unix.RLIM_INFINITY {
		return "unlimited"
	}
	return strconv.FormatUint(v, 10)
}
