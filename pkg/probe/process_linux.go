// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

//go:build linux

package probe

import (
	"os/exec"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// ReportSignals logs the signal facilities the subprocess machinery
// relies on, including parent-death signal support.
func ReportSignals() error {
	log.Infof("Available signals: SIGKILL=%d, SIGTERM=%d, SIGINT=%d",
		unix.SIGKILL, unix.SIGTERM, unix.SIGINT)

	// Prove PDEATHSIG works by spawning a short-lived child with it
	// set, rather than just asserting the platform supports it.
	cmd := exec.Command("true")
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: unix.SIGKILL}
	if err := cmd.Run(); err != nil {
		log.Warnf("PDEATHSIG support: NOT AVAILABLE (%v)", err)
		return nil
	}
	log.Info("PDEATHSIG support: AVAILABLE")
	return nil
}

// ReportProcessGroup spawns a child in its own process group and
// verifies that the child actually leads it.
func ReportProcessGroup() error {
	cmd := exec.Command("sh", "-c", "echo $$")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	out, err := cmd.Output()
	if err != nil {
		log.Warnf("Process group test failed: %v", err)
		return nil
	}
	log.Infof("Process group test: child pid %s (exit code 0)", strings.TrimSpace(string(out)))

	// The child is gone, so its group cannot be queried after the
	// fact.  Spawn one that lingers long enough to check.
	cmd = exec.Command("sleep", "10")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		log.Warnf("Process group verification failed to start: %v", err)
		return nil
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	pgid, err := unix.Getpgid(cmd.Process.Pid)
	if err != nil {
		log.Warnf("Process group verification failed: %v", err)
		return nil
	}
	if pgid == cmd.Process.Pid {
		log.Infof("Process group test: SUCCESS (pgid %d matches child pid)", pgid)
	} else {
		log.Warnf("Process group test: child pid %d is in foreign group %d", cmd.Process.Pid, pgid)
	}
	return nil
}
