// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/dudash/thread-flare/pkg/constants"
	log "github.com/sirupsen/logrus"
)

// ReportReexec exercises the re-exec child process mechanism, the
// closest Go analog to a fork start method: the binary spawns a fresh
// copy of itself that inherits the parent's configuration through its
// arguments.  A zero-cap flood worker makes a convenient no-op child.
func ReportReexec() error {
	exe, err := os.Executable()
	if err != nil {
		log.Warnf("Re-exec test failed: cannot locate own executable: %v", err)
		return nil
	}

	cmd := exec.Command(exe, constants.FloodWorkerCommandName, "--max-threads", "0")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Start(); err != nil {
		log.Warnf("Re-exec test failed to start: %v", err)
		return nil
	}
	pid := cmd.Process.Pid
	if err := cmd.Wait(); err != nil {
		log.Warnf("Re-exec test: child exited with error: %v", err)
		return nil
	}

	if strings.Contains(out.String(), "flood-complete") {
		log.Infof("Re-exec test: SUCCESS (child pid %d)", pid)
	} else {
		log.Warnf("Re-exec test: child ran but produced unexpected output")
	}
	return nil
}
