// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package run

import (
	"github.com/dudash/thread-flare/cmd/constants"
	"github.com/dudash/thread-flare/pkg/cmdutil"
	"github.com/dudash/thread-flare/pkg/commands/flare"
	"github.com/dudash/thread-flare/pkg/config"
	"github.com/spf13/cobra"
)

const (
	CommandName = "run"
	helpShort   = "Run the full resource probe sequence"
	helpLong    = `Run every resource probe in order and log the findings: process and file
descriptor limits, system and platform information, container and Kubernetes
environment detection, GPU visibility, cgroup v1/v2 limits, subprocess
mechanisms, the cluster's view of node resources, and finally a thread flood
that creates threads until the configured cap or the operating system's
ceiling is reached.  The thread flood hitting a limit is the expected result
of that probe, not an error.`
	helpExample = `
# Probe everything, flooding threads until the OS refuses
thread-flare run

# Stop the thread flood after 100 threads
thread-flare run --max-threads 100
`
)

var kubeConfig string
var configPath string
var maxThreads int

func NewCmd() *cobra.Command {
	cmd := cmdutil.NewCommand(CommandName, helpShort, helpLong)
	cmd.Args = cobra.MatchAll(cobra.ExactArgs(0), cobra.OnlyValidArgs)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return RunCmd(cmd)
	}
	cmd.Example = helpExample
	cmdutil.SilenceUsage(cmd)

	cmd.Flags().StringVarP(&kubeConfig, constants.FlagKubeconfig, constants.FlagKubeconfigShort, "", constants.FlagKubeconfigHelp)
	cmd.Flags().StringVarP(&configPath, constants.FlagConfig, constants.FlagConfigShort, "", constants.FlagConfigHelp)
	cmd.Flags().IntVarP(&maxThreads, constants.FlagMaxThreads, constants.FlagMaxThreadsShort, -1, constants.FlagMaxThreadsHelp)

	return cmd
}

// RunCmd runs the "thread-flare run" command
func RunCmd(cmd *cobra.Command) error {
	cfg, err := config.Resolve(configPath, maxThreads, cmd.Flags().Changed(constants.FlagMaxThreads), kubeConfig)
	if err != nil {
		return err
	}
	return flare.Run(cfg)
}
