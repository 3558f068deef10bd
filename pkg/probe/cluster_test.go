// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func testNode(name string, cpu string, memory string, ready bool) *v1.Node {
	status := v1.ConditionFalse
	if ready {
		status = v1.ConditionTrue
	}
	return &v1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: v1.NodeStatus{
			Capacity: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse(cpu),
				v1.ResourceMemory: resource.MustParse(memory),
			},
			Allocatable: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse(cpu),
				v1.ResourceMemory: resource.MustParse(memory),
			},
			Conditions: []v1.NodeCondition{
				{Type: v1.NodeReady, Status: status},
			},
		},
	}
}

func TestReportClusterResources(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	client := fake.NewSimpleClientset(
		testNode("node-1", "4", "8Gi", true),
		testNode("node-2", "4", "8Gi", false),
	)

	osView := SystemView{LogicalCPUs: 4, MemoryBytes: 8 << 30}
	err := ReportClusterResources(client, osView)
	assert.NoError(t, err, "Unexpected error from cluster probe: %v", err)

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "Number of nodes: 2", "Node count not reported")
	assert.Contains(t, messages, "Node node-1: ready=true", "Node readiness not reported")
	assert.Contains(t, messages, "Node node-2: ready=false", "Node readiness not reported")
	assert.Contains(t, messages, "Cluster resource: CPU = 8", "CPU total not reported")
	assert.Contains(t, messages, "CPU discrepancy", "Cluster/OS CPU mismatch not reported")
	assert.Contains(t, messages, "Memory discrepancy", "Cluster/OS memory mismatch not reported")
}

func TestReportClusterResourcesMatchingViews(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	client := fake.NewSimpleClientset(testNode("node-1", "4", "8Gi", true))

	osView := SystemView{LogicalCPUs: 4, MemoryBytes: 8 << 30}
	err := ReportClusterResources(client, osView)
	assert.NoError(t, err, "Unexpected error from cluster probe: %v", err)

	messages := capturedMessages(hook)
	assert.Contains(t, messages, "CPU comparison: System=4, Cluster=4", "CPU comparison not reported")
	assert.NotContains(t, messages, "CPU discrepancy", "Matching CPU views must not be a discrepancy")
	assert.NotContains(t, messages, "Memory discrepancy", "Matching memory views must not be a discrepancy")
}
