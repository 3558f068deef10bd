// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

//go:build !linux

package probe

import (
	log "github.com/sirupsen/logrus"
)

// ReportSignals reports that parent-death signal delivery is a
// Linux-only facility.
func ReportSignals() error {
	log.Info("PDEATHSIG support: NOT AVAILABLE (requires Linux)")
	return nil
}

// ReportProcessGroup reports that the process group probe only runs on
// Linux.
func ReportProcessGroup() error {
	log.Info("Process group test: SKIPPED (requires Linux)")
	return nil
}
