// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"fmt"
	"time"

	"github.com/dudash/thread-flare/pkg/k8s"
	"github.com/dudash/thread-flare/pkg/util"
	log "github.com/sirupsen/logrus"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/client-go/kubernetes"
)

const clusterListTimeout = 5 * time.Second

// ReportClusterResources queries the cluster's view of node resources
// and compares it against the OS view.  The caller decides how the
// client is built; a connection failure upstream means this probe is
// reported as unavailable and the sequence moves on.
func ReportClusterResources(client kubernetes.Interface, osView SystemView) error {
	// A freshly started API server can be briefly unable to serve a
	// node list.  Retry for a few seconds before declaring the
	// cluster view unavailable.
	listed, _, err := util.LinearRetryTimeout(func(arg interface{}) (interface{}, bool, error) {
		nodes, err := k8s.GetNodeList(client)
		if err != nil {
			return nil, false, err
		}
		return nodes, false, nil
	}, nil, clusterListTimeout)
	if err != nil {
		log.Warnf("Cluster resource detection unavailable: %v", err)
		return nil
	}
	nodeList, ok := listed.(*v1.NodeList)
	if !ok {
		return fmt.Errorf("internal error: functor did not return a *v1.NodeList")
	}

	log.Infof("Number of nodes: %d", len(nodeList.Items))

	capacityCPU := resource.Quantity{}
	capacityMem := resource.Quantity{}
	allocatableCPU := resource.Quantity{}
	allocatableMem := resource.Quantity{}

	for i := range nodeList.Items {
		node := &nodeList.Items[i]
		log.Infof("Node %s: ready=%t, capacity cpu=%s memory=%s, allocatable cpu=%s memory=%s",
			node.Name,
			k8s.IsNodeReady(node.Status),
			node.Status.Capacity.Cpu(), node.Status.Capacity.Memory(),
			node.Status.Allocatable.Cpu(), node.Status.Allocatable.Memory())

		capacityCPU.Add(*node.Status.Capacity.Cpu())
		capacityMem.Add(*node.Status.Capacity.Memory())
		allocatableCPU.Add(*node.Status.Allocatable.Cpu())
		allocatableMem.Add(*node.Status.Allocatable.Memory())
	}

	log.Infof("Cluster resource: CPU = %s (allocatable %s)", capacityCPU.String(), allocatableCPU.String())
	log.Infof("Cluster resource: memory = %s (allocatable %s)", capacityMem.String(), allocatableMem.String())

	compareViews(capacityCPU, capacityMem, osView)
	return nil
}

// compareViews logs any discrepancy between the cluster's idea of this
// environment's resources and what the OS reports directly.  On a
// multi-node cluster a difference is expected; on a single node it
// usually means the orchestrator is honoring a cgroup limit the OS
// numbers do not show.
func compareViews(clusterCPU resource.Quantity, clusterMem resource.Quantity, osView SystemView) {
	if osView.LogicalCPUs > 0 {
		log.Infof("CPU comparison: System=%d, Cluster=%s", osView.LogicalCPUs, clusterCPU.String())
		if clusterCPU.Value() != int64(osView.LogicalCPUs) {
			log.Infof("CPU discrepancy: cluster reports %s, OS reports %d", clusterCPU.String(), osView.LogicalCPUs)
		}
	}
	if osView.MemoryBytes > 0 {
		osGB := float64(osView.MemoryBytes) / bytesPerGB
		clusterGB := float64(clusterMem.Value()) / bytesPerGB
		log.Infof("Memory comparison: System=%.2fGB, Cluster=%.2fGB", osGB, clusterGB)

		// Node capacity is always a little below raw system memory.
		// Only call out differences beyond rounding noise.
		if diff := osGB - clusterGB; diff > 0.5 || diff < -0.5 {
			log.Infof("Memory discrepancy: cluster reports %.2fGB, OS reports %.2fGB", clusterGB, osGB)
		}
	}
}
