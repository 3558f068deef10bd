// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package summary

import (
	"fmt"
	"io"
	"os"

	"github.com/dudash/thread-flare/pkg/cmdutil"
	"github.com/dudash/thread-flare/pkg/summary"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const (
	CommandName = "summary"
	helpShort   = "Extract the headline findings from a captured run log"
	helpLong    = `Extract the headline findings from a log produced by "thread-flare run":
the final thread count and flood outcome, the detected cgroup v1/v2 limits,
and the GPU count.  Reads the given log file, or standard input when no file
is named.`
	helpExample = `
kubectl logs thread-flare | thread-flare summary
thread-flare summary run.log
`
)

func NewCmd() *cobra.Command {
	cmd := cmdutil.NewCommand(CommandName+" [logfile]", helpShort, helpLong)
	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return RunCmd(cmd, args)
	}
	cmd.Example = helpExample
	cmdutil.SilenceUsage(cmd)

	return cmd
}

// RunCmd runs the "thread-flare summary" command
func RunCmd(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	result, err := summary.Parse(in)
	if err != nil {
		return err
	}

	table := uitable.New()
	table.AddRow("FINDING", "VALUE")
	table.AddRow("Threads created", countString(result.ThreadsCreated))
	table.AddRow("Flood outcome", orUnknown(result.FloodOutcome))
	table.AddRow("cgroup v1 pids.max", orUnknown(result.CgroupV1Pids))
	table.AddRow("cgroup v1 memory limit", orUnknown(result.CgroupV1Memory))
	table.AddRow("cgroup v2 pids.max", orUnknown(result.CgroupV2Pids))
	table.AddRow("cgroup v2 memory.max", orUnknown(result.CgroupV2Memory))
	table.AddRow("GPUs (nvidia-smi)", countString(result.GPUCount))
	fmt.Println(table)

	return nil
}

func countString(n int) string {
	if n < 0 {
		return "not found"
	}
	return fmt.Sprintf("%d", n)
}

func orUnknown(s string) string {
	if s == "" {
		return "not found"
	}
	return s
}
