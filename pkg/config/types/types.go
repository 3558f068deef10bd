// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package types

// Config holds the optional defaults read from a thread-flare defaults
// file.  Fields are pointers so that a merge can tell "not set" apart
// from a zero value.
type Config struct {
	MaxThreads       *int    `yaml:"maxThreads,omitempty"`
	Kubeconfig       *string `yaml:"kubeconfig,omitempty"`
	NvidiaSMIPath    *string `yaml:"nvidiaSMIPath,omitempty"`
	ProgressInterval *int    `yaml:"progressInterval,omitempty"`
}

// MergeConfig overlays the values in "overlay" onto "base", returning
// a new Config.  Values set in the overlay win.
func MergeConfig(base *Config, overlay *Config) Config {
	ret := Config{}
	if base != nil {
		ret = *base
	}
	if overlay == nil {
		return ret
	}
	if overlay.MaxThreads != nil {
		ret.MaxThreads = overlay.MaxThreads
	}
	if overlay.Kubeconfig != nil {
		ret.Kubeconfig = overlay.Kubeconfig
	}
	if overlay.NvidiaSMIPath != nil {
		ret.NvidiaSMIPath = overlay.NvidiaSMIPath
	}
	if overlay.ProgressInterval != nil {
		ret.ProgressInterval = overlay.ProgressInterval
	}
	return ret
}

// Flare is the fully resolved probe configuration.  It is built once
// before any probe runs; probes never read ambient state themselves.
type Flare struct {
	// MaxThreads caps the thread flood.  A negative value means the
	// flood is uncapped and runs until the OS refuses a new thread.
	MaxThreads int

	// Kubeconfig is the path to a kubeconfig file for the cluster
	// resource probe.  Empty means in-cluster config or the usual
	// default locations.
	Kubeconfig string

	// NvidiaSMIPath is the vendor CLI invoked by the GPU probe.
	NvidiaSMIPath string

	// ProgressInterval is how many thread creations pass between
	// progress log lines during the flood.
	ProgressInterval int
}
