// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

// Package probe implements the individual resource probes and the
// sequence runner that executes them.  Each probe is a leaf operation
// that inspects one aspect of the process or container environment and
// logs its findings immediately.  Probes are isolated from each other:
// a failure inside one probe never prevents the remaining probes from
// running.
package probe

import (
	log "github.com/sirupsen/logrus"
)

// Probe pairs a display name with the function that performs the
// inspection.  Run returns an error only for probe-local failures;
// expected outcomes, including the thread flood hitting its limit,
// are logged as results.
type Probe struct {
	Name string
	Run  func() error
}

// RunSequence executes the probes strictly in order.  Errors and
// panics are logged against the failing probe and the sequence
// continues.  Nothing is silently swallowed.
func RunSequence(probes []Probe) {
	for _, p := range probes {
		runIsolated(p)
	}
}

func runIsolated(p Probe) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Probe %q panicked: %v", p.Name, r)
		}
	}()

	log.Infof("=== %s ===", p.Name)
	if err := p.Run(); err != nil {
		log.Warnf("%s: %v", p.Name, err)
	}
}
