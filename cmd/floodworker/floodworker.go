// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package floodworker

import (
	"os"

	cmdconstants "github.com/dudash/thread-flare/cmd/constants"
	"github.com/dudash/thread-flare/pkg/cmdutil"
	"github.com/dudash/thread-flare/pkg/constants"
	"github.com/dudash/thread-flare/pkg/probe"
	"github.com/spf13/cobra"
)

const (
	helpShort = "Internal worker for the thread flood probe"
	helpLong  = `Creates threads until the configured cap is reached or the operating
system refuses to create another one.  The run command launches this in a
child process so that the runtime aborting on thread exhaustion does not
take the probe sequence down with it.`
)

var maxThreads int

// NewCmd builds the hidden flood-worker command.  It is re-exec'd by
// the thread flood probe and is not part of the user-facing surface.
func NewCmd() *cobra.Command {
	cmd := cmdutil.NewCommand(constants.FloodWorkerCommandName, helpShort, helpLong)
	cmd.Hidden = true
	cmd.Args = cobra.MatchAll(cobra.ExactArgs(0), cobra.OnlyValidArgs)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		probe.Flood(os.Stdout, maxThreads)
		return nil
	}

	cmd.Flags().IntVarP(&maxThreads, cmdconstants.FlagMaxThreads, cmdconstants.FlagMaxThreadsShort, -1, cmdconstants.FlagMaxThreadsHelp)

	return cmd
}
