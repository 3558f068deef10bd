// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// EnvVarKubeConfig Name of Environment Variable for KUBECONFIG
const EnvVarKubeConfig = "KUBECONFIG"

const APIServerBurst = 150
const APIServerQPS = 100

// sanitizePath converts the input path to an absolute path and checks
// that the file exists.  If it does not exist, an error is returned.
func sanitizePath(path string) (string, error) {
	log.Debugf("Sanitizing %s", path)
	path, err := filepath.Abs(path)
	if err != nil {
		return path, err
	}

	_, err = os.Stat(path)
	if err != nil {
		return path, err
	}

	return path, nil
}

// GetKubeConfigLocation Helper function to obtain the default kubeConfig location
func GetKubeConfigLocation(kubeconfigPath string) (string, error) {
	if kubeconfigPath != "" {
		return sanitizePath(kubeconfigPath)
	}

	if kubeConfig := os.Getenv(EnvVarKubeConfig); len(kubeConfig) > 0 {
		path, err := sanitizePath(kubeConfig)
		if err != nil {
			err = fmt.Errorf("Failed to access the kubeconfig set by the environment variable %s: %s", EnvVarKubeConfig, err.Error())
		}
		return path, err
	}

	if home := homedir.HomeDir(); home != "" {
		return sanitizePath(filepath.Join(home, ".kube", "config"))
	}

	return "", errors.New("unable to find kubeconfig")
}

// GetKubeConfig returns a rest.Config for the given kubeconfig path.
func GetKubeConfig(kubeconfigPath string) (*rest.Config, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, err
	}

	setConfigQPSBurst(config)
	return config, nil
}

func setConfigQPSBurst(config *rest.Config) {
	config.Burst = APIServerBurst
	config.QPS = APIServerQPS
}
