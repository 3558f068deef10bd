// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package constants

const (
	UserConfigDefaults                    = ".thread-flare/defaults.yaml"
	UserConfigDefaultsEnvironmentVariable = "THREAD_FLARE_DEFAULTS"
	MaxThreadsEnvironmentVariable         = "THREAD_FLARE_MAX_THREADS"

	// Thread flood defaults
	DefaultProgressInterval = 100
	FloodWorkerCommandName  = "flood-worker"

	// Well-known introspection paths.  Probes take a root so tests can
	// stage fake trees underneath a temporary directory.
	ProcSelfLimits  = "/proc/self/limits"
	ProcMounts      = "/proc/mounts"
	ProcSelfCgroup  = "/proc/self/cgroup"
	ProcInitCgroup  = "/proc/1/cgroup"
	CgroupMountRoot = "/sys/fs/cgroup"

	// GPU detection paths
	DefaultNvidiaSMIPath = "nvidia-smi"
	NvidiaProcDriverDir  = "/proc/driver/nvidia"
	DeviceDir            = "/dev"
	MaxNvidiaDevices     = 16

	// Container environment markers
	DockerEnvFile   = "/.dockerenv"
	PodmanEnvFile   = "/run/.containerenv"
	K8sServiceAcct  = "/var/run/secrets/kubernetes.io/serviceaccount"
	K8sServiceHost  = "KUBERNETES_SERVICE_HOST"
	OpenShiftBuild  = "OPENSHIFT_BUILD_NAME"
	OpenShiftDeploy = "OPENSHIFT_DEPLOYMENT_NAME"
)
