// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package flare

import (
	"github.com/dudash/thread-flare/pkg/config/types"
	"github.com/dudash/thread-flare/pkg/constants"
	"github.com/dudash/thread-flare/pkg/k8s/client"
	"github.com/dudash/thread-flare/pkg/probe"
	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"
)

// Run executes the full probe sequence.  Probes run strictly in order
// and are isolated from each other; the thread flood runs last because
// it deliberately exhausts the process's thread budget.  Completing
// the sequence is success, whatever the individual probes found.
func Run(cfg *types.Flare) error {
	kubeClient := connect(cfg.Kubeconfig)

	cgroupPaths := probe.CgroupPaths{
		ProcMounts:     constants.ProcMounts,
		ProcSelfCgroup: constants.ProcSelfCgroup,
		MountRoot:      constants.CgroupMountRoot,
	}
	environPaths := probe.EnvironPaths{
		DockerEnvFile:  constants.DockerEnvFile,
		PodmanEnvFile:  constants.PodmanEnvFile,
		InitCgroupFile: constants.ProcInitCgroup,
		ServiceAcctDir: constants.K8sServiceAcct,
	}
	gpuOptions := probe.GPUOptions{
		SMIPath:       cfg.NvidiaSMIPath,
		ProcDriverDir: constants.NvidiaProcDriverDir,
		DeviceDir:     constants.DeviceDir,
		Client:        kubeClient,
	}

	probe.RunSequence([]probe.Probe{
		{Name: "Process Limits", Run: func() error {
			return probe.ReportProcessLimits(constants.ProcSelfLimits)
		}},
		{Name: "System Information", Run: probe.ReportSystemInfo},
		{Name: "Environment Detection", Run: func() error {
			return probe.ReportEnvironment(environPaths)
		}},
		{Name: "GPU Detection", Run: func() error {
			return probe.ReportGPUs(gpuOptions)
		}},
		{Name: "File Descriptor Limits", Run: probe.ReportFileDescriptorLimits},
		{Name: "Checking cgroup v1 limits", Run: func() error {
			return probe.ReportCgroupV1(cgroupPaths)
		}},
		{Name: "Checking cgroup v2 limits", Run: func() error {
			return probe.ReportCgroupV2(cgroupPaths)
		}},
		{Name: "Signal Handling", Run: probe.ReportSignals},
		{Name: "Re-exec Process Creation", Run: probe.ReportReexec},
		{Name: "Subprocess Process Groups", Run: probe.ReportProcessGroup},
		{Name: "Cluster Resource Detection", Run: func() error {
			if kubeClient == nil {
				log.Warn("Cluster resource detection unavailable: no cluster connection")
				return nil
			}
			return probe.ReportClusterResources(kubeClient, probe.GetSystemView())
		}},
		// Potentially disruptive, so run last.
		{Name: "Spawning threads until failure", Run: func() error {
			return probe.ReportThreadFlood(cfg.MaxThreads, cfg.ProgressInterval)
		}},
	})

	log.Info("Probe sequence complete")
	return nil
}

// connect builds the cluster client up front so that both the GPU
// probe and the cluster resource probe share it.  Failure to connect
// is a probe-local condition, not a startup error.
func connect(kubeconfig string) kubernetes.Interface {
	kubeClient, err := client.GetKubeClient(kubeconfig)
	if err != nil {
		log.Debugf("No cluster connection: %v", err)
		return nil
	}
	return kubeClient
}
