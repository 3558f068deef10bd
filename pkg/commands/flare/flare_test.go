// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package flare

import (
	"testing"

	"github.com/dudash/thread-flare/pkg/k8s/client"
	"github.com/dudash/thread-flare/pkg/probe"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

// TestConnectUsesInstalledClient verifies that the probe sequence's
// shared client honors the fake client override and that the cluster
// probe reports through it.
func TestConnectUsesInstalledClient(t *testing.T) {
	log.SetLevel(log.InfoLevel)

	node := &v1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "worker-1"},
		Status: v1.NodeStatus{
			Capacity: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse("4"),
				v1.ResourceMemory: resource.MustParse("8Gi"),
			},
			Allocatable: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse("4"),
				v1.ResourceMemory: resource.MustParse("7Gi"),
			},
		},
	}
	client.SetFakeClient(fake.NewSimpleClientset(node))
	defer client.ClearFakeClient()

	kubeClient := connect("")
	assert.NotNil(t, kubeClient, "connect must return the installed fake client")

	hook := test.NewGlobal()
	defer hook.Reset()

	err := probe.ReportClusterResources(kubeClient, probe.SystemView{})
	assert.NoError(t, err, "Unexpected error from cluster probe: %v", err)

	var messages string
	for _, entry := range hook.AllEntries() {
		messages += entry.Message + "\n"
	}
	assert.Contains(t, messages, "Number of nodes: 1", "Cluster probe did not report through the client")
	assert.Contains(t, messages, "Node worker-1", "Node not reported")
}
