// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dudash/thread-flare/pkg/constants"
	log "github.com/sirupsen/logrus"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const nvidiaSMITimeout = 10 * time.Second

// GPUOptions configures the GPU detection strategies.  A nil Client
// skips the cluster strategy.  Tests stage fake driver and device
// trees through the path fields.
type GPUOptions struct {
	SMIPath       string
	ProcDriverDir string
	DeviceDir     string
	Client        kubernetes.Interface
}

// GPUFinding is the outcome of a single detection strategy.  Each
// strategy is independent; the union of all findings is reported.
type GPUFinding struct {
	Strategy string
	Lines    []string
	Detected int
}

type gpuStrategy func(GPUOptions) GPUFinding

// ReportGPUs runs every detection strategy and logs the union of their
// findings.  A strategy failing (tool absent, path absent, zero
// devices) never hides another strategy's results.
func ReportGPUs(opts GPUOptions) error {
	for _, finding := range DetectGPUs(opts) {
		for _, line := range finding.Lines {
			log.Info(line)
		}
	}
	return nil
}

// DetectGPUs runs the detection strategies in a fixed order and
// returns all findings.
func DetectGPUs(opts GPUOptions) []GPUFinding {
	strategies := []gpuStrategy{
		detectViaSMI,
		detectViaProcDriver,
		detectViaDeviceFiles,
		detectViaCluster,
	}

	findings := make([]GPUFinding, 0, len(strategies))
	for _, strategy := range strategies {
		findings = append(findings, strategy(opts))
	}
	return findings
}

// detectViaSMI invokes the vendor CLI and parses its CSV output.
func detectViaSMI(opts GPUOptions) GPUFinding {
	finding := GPUFinding{Strategy: "nvidia-smi"}

	ctx, cancel := context.WithTimeout(context.Background(), nvidiaSMITimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, opts.SMIPath,
		"--query-gpu=name,memory.total,driver_version",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			finding.Lines = append(finding.Lines,
				"nvidia-smi: Command not found",
				"NVIDIA drivers/tools not installed in container")
		} else {
			finding.Lines = append(finding.Lines, fmt.Sprintf("nvidia-smi: No NVIDIA GPUs found or command failed: %v", err))
		}
		return finding
	}

	rows := parseSMIRows(string(out))
	if len(rows) == 0 {
		finding.Lines = append(finding.Lines, "nvidia-smi: No NVIDIA GPUs found or command failed")
		return finding
	}

	finding.Detected = len(rows)
	finding.Lines = append(finding.Lines, fmt.Sprintf("nvidia-smi reported %d GPUs", len(rows)))
	for i, row := range rows {
		finding.Lines = append(finding.Lines, fmt.Sprintf("  GPU %d: %s, %sMB memory, driver %s", i, row[0], row[1], row[2]))
	}
	return finding
}

// parseSMIRows splits "name, memory, driver" CSV rows, dropping rows
// that do not have all three fields.
func parseSMIRows(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		row := make([]string, 3)
		for i := 0; i < 3; i++ {
			row[i] = strings.TrimSpace(parts[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// detectViaProcDriver checks for the vendor driver's procfs directory.
func detectViaProcDriver(opts GPUOptions) GPUFinding {
	finding := GPUFinding{Strategy: "proc-driver"}

	if !fileExists(opts.ProcDriverDir) {
		finding.Lines = append(finding.Lines, fmt.Sprintf("No NVIDIA driver found in %s", opts.ProcDriverDir))
		return finding
	}

	finding.Detected = 1
	finding.Lines = append(finding.Lines, fmt.Sprintf("NVIDIA driver detected in %s", opts.ProcDriverDir))

	versionFile := filepath.Join(opts.ProcDriverDir, "version")
	if raw, err := readFirstLine(versionFile); err == nil && raw != "" {
		finding.Lines = append(finding.Lines, fmt.Sprintf("  Driver version info: %s", raw))
	}
	return finding
}

// detectViaDeviceFiles enumerates /dev entries matching the vendor's
// naming pattern.
func detectViaDeviceFiles(opts GPUOptions) GPUFinding {
	finding := GPUFinding{Strategy: "device-files"}

	var devices []string
	for i := 0; i < constants.MaxNvidiaDevices; i++ {
		name := fmt.Sprintf("nvidia%d", i)
		if fileExists(filepath.Join(opts.DeviceDir, name)) {
			devices = append(devices, name)
		}
	}

	if len(devices) > 0 {
		finding.Detected = len(devices)
		finding.Lines = append(finding.Lines, fmt.Sprintf("GPU device files: %s", strings.Join(devices, ", ")))
	} else {
		finding.Lines = append(finding.Lines, fmt.Sprintf("No GPU device files found in %s", opts.DeviceDir))
	}

	var special []string
	for _, device := range []string{"nvidia-uvm", "nvidia-modeset", "nvidiactl"} {
		if fileExists(filepath.Join(opts.DeviceDir, device)) {
			special = append(special, device)
		}
	}
	if len(special) > 0 {
		finding.Lines = append(finding.Lines, fmt.Sprintf("NVIDIA special devices: %s", strings.Join(special, ", ")))
	}
	return finding
}

// detectViaCluster sums GPU-tagged extended resources across the
// cluster's nodes.
func detectViaCluster(opts GPUOptions) GPUFinding {
	finding := GPUFinding{Strategy: "cluster"}

	if opts.Client == nil {
		finding.Lines = append(finding.Lines, "Cluster API not available for GPU detection")
		return finding
	}

	nodeList, err := opts.Client.CoreV1().Nodes().List(context.TODO(), metav1.ListOptions{})
	if err != nil {
		finding.Lines = append(finding.Lines, fmt.Sprintf("Cluster GPU detection failed: %v", err))
		return finding
	}

	totals := map[v1.ResourceName]int64{}
	for _, node := range nodeList.Items {
		for name, quantity := range node.Status.Capacity {
			if !strings.Contains(strings.ToLower(string(name)), "gpu") {
				continue
			}
			totals[name] += quantity.Value()
		}
	}

	if len(totals) == 0 {
		finding.Lines = append(finding.Lines, "Cluster: No GPU resources detected on any node")
		return finding
	}

	finding.Lines = append(finding.Lines, "Cluster detected GPU resources:")
	for name, count := range totals {
		finding.Detected += int(count)
		finding.Lines = append(finding.Lines, fmt.Sprintf("  %s: %d", name, count))
	}
	return finding
}

func readFirstLine(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.SplitN(strings.TrimSpace(string(raw)), "\n", 2)
	return lines[0], nil
}
