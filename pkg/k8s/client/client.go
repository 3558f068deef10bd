// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package client

import (
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// fakeClient is for unit testing
var fakeClient kubernetes.Interface

// SetFakeClient for unit tests
func SetFakeClient(client kubernetes.Interface) {
	fakeClient = client
}

// ClearFakeClient for unit tests
func ClearFakeClient() {
	fakeClient = nil
}

// GetKubeClient returns a Kubernetes clientset for use with the
// go-client.  The in-cluster configuration is preferred; when this
// process is not running in a pod, the given kubeconfig path (or the
// usual default locations) is used instead.
func GetKubeClient(kubeconfigPath string) (kubernetes.Interface, error) {
	if fakeClient != nil {
		return fakeClient, nil
	}

	restConfig, err := rest.InClusterConfig()
	if err != nil {
		path, perr := GetKubeConfigLocation(kubeconfigPath)
		if perr != nil {
			return nil, perr
		}
		restConfig, perr = GetKubeConfig(path)
		if perr != nil {
			return nil, perr
		}
	}

	return kubernetes.NewForConfig(restConfig)
}
