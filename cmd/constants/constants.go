// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package constants

const (
	FlagKubeconfig      = "kubeconfig"
	FlagKubeconfigShort = "k"
	FlagKubeconfigHelp  = "the kubeconfig filepath"

	FlagMaxThreads      = "max-threads"
	FlagMaxThreadsShort = "t"
	FlagMaxThreadsHelp  = "The maximum number of threads the thread flood creates.  A negative value removes the cap and the flood runs until the operating system refuses to create another thread.  Overrides the THREAD_FLARE_MAX_THREADS environment variable."

	FlagConfig      = "config"
	FlagConfigShort = "c"
	FlagConfigHelp  = "The path to a configuration file that supplies default values for the probes. If this value is not provided, the file named by the THREAD_FLARE_DEFAULTS environment variable is used."
)
