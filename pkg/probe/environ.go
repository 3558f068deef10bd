// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"os"
	"strings"

	"github.com/dudash/thread-flare/pkg/constants"
	log "github.com/sirupsen/logrus"
)

// EnvironPaths names the filesystem markers the environment detector
// reads.  Tests point these at staged files.
type EnvironPaths struct {
	DockerEnvFile  string
	PodmanEnvFile  string
	InitCgroupFile string
	ServiceAcctDir string
}

// ReportEnvironment logs the detected container runtime and any
// Kubernetes or OpenShift indicators.
func ReportEnvironment(paths EnvironPaths) error {
	log.Infof("Container type: %s", DetectContainerType(paths))
	log.Infof("Kubernetes environment: %s", DetectKubernetesEnvironment(paths))
	return nil
}

// DetectContainerType inspects well-known markers to classify the
// container runtime this process runs under.
func DetectContainerType(paths EnvironPaths) string {
	if fileExists(paths.DockerEnvFile) {
		return "Docker"
	}
	if fileExists(paths.PodmanEnvFile) {
		return "Podman"
	}

	// Fall back to runtime fingerprints in the init process's cgroup.
	content, err := os.ReadFile(paths.InitCgroupFile)
	if err == nil {
		cgroup := string(content)
		switch {
		case strings.Contains(cgroup, "docker"):
			return "Docker (via cgroup)"
		case strings.Contains(cgroup, "containerd"):
			return "containerd"
		case strings.Contains(cgroup, "crio"):
			return "CRI-O"
		}
	}

	return "None detected"
}

// DetectKubernetesEnvironment collects the Kubernetes and OpenShift
// indicators present in this environment.  The returned string lists
// every indicator found, or "None detected".
func DetectKubernetesEnvironment(paths EnvironPaths) string {
	var indicators []string

	if fileExists(paths.ServiceAcctDir) {
		indicators = append(indicators, "K8s ServiceAccount")
	}
	if os.Getenv(constants.K8sServiceHost) != "" {
		indicators = append(indicators, "K8s Service Host")
	}
	if os.Getenv(constants.OpenShiftBuild) != "" || os.Getenv(constants.OpenShiftDeploy) != "" {
		indicators = append(indicators, "OpenShift")
	}

	if hostname, err := os.Hostname(); err == nil && looksLikePodName(hostname) {
		indicators = append(indicators, "K8s-like hostname: "+hostname)
	}

	if len(indicators) == 0 {
		return "None detected"
	}
	return strings.Join(indicators, ", ")
}

// looksLikePodName reports whether a hostname resembles the generated
// names Kubernetes gives pods.
func looksLikePodName(hostname string) bool {
	for _, pattern := range []string{"-", "pod", "deployment"} {
		if strings.Contains(hostname, pattern) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
