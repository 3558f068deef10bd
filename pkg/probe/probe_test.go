// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRunSequenceIsolation(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	var order []string
	record := func(name string) func() error {
		return func() error {
			order = append(order, name)
			return nil
		}
	}

	RunSequence([]Probe{
		{Name: "First", Run: record("first")},
		{Name: "Panics", Run: func() error { panic("boom") }},
		{Name: "Fails", Run: func() error { return errors.New("probe broke") }},
		{Name: "Last", Run: record("last")},
	})

	assert.Equal(t, []string{"first", "last"}, order, "Probes after a failure must still run")

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "=== First ===", "Probe header missing")
	assert.Contains(t, messages, `Probe "Panics" panicked: boom`, "Panic not reported")
	assert.Contains(t, messages, "Fails: probe broke", "Error not reported")
	assert.Contains(t, messages, "=== Last ===", "Later probes not reported")
}
