// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dudash/thread-flare/pkg/config/types"
	"github.com/dudash/thread-flare/pkg/constants"
	"gopkg.in/yaml.v3"
)

// ParseConfig takes a yaml-encoded string and parses it into a Config
// structure.
func ParseConfig(in string) (*types.Config, error) {
	ret := &types.Config{}
	err := yaml.Unmarshal([]byte(in), ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// ParseConfigFile takes the path to a file, reads the contents, and
// parses it into a Config structure.
func ParseConfigFile(configPath string) (*types.Config, error) {
	configBytes, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	conf, err := ParseConfig(string(configBytes))
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %s", configPath, err.Error())
	}
	return conf, nil
}

// GetDefaultConfig returns the global default config.  It starts with
// a hard-coded set of defaults.  It then attempts to read a global
// overrides file.  If such a file is found, the entries in that file
// are merged into the hard-coded defaults.
func GetDefaultConfig() (*types.Config, error) {
	maxThreads := -1
	progressInterval := constants.DefaultProgressInterval
	smiPath := constants.DefaultNvidiaSMIPath
	defaultConfig := types.Config{
		MaxThreads:       &maxThreads,
		NvidiaSMIPath:    &smiPath,
		ProgressInterval: &progressInterval,
	}

	defaultConfigPath := os.Getenv(constants.UserConfigDefaultsEnvironmentVariable)
	if defaultConfigPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// No home directory means no defaults file.  Not an error.
			return &defaultConfig, nil
		}
		defaultConfigPath = filepath.Join(homeDir, constants.UserConfigDefaults)
	}

	userConfig, err := ParseConfigFile(defaultConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaultConfig, nil
		}
		return nil, err
	}

	merged := types.MergeConfig(&defaultConfig, userConfig)
	return &merged, nil
}

// Resolve builds the final probe configuration from the defaults file,
// environment variables, and command line flags.  Precedence, lowest
// to highest: built-in default, defaults file, environment variable,
// flag.  maxThreadsSet indicates whether the flag was given on the
// command line.
func Resolve(configPath string, maxThreads int, maxThreadsSet bool, kubeconfig string) (*types.Flare, error) {
	defaults, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		fileConfig, err := ParseConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		merged := types.MergeConfig(defaults, fileConfig)
		defaults = &merged
	}

	ret := &types.Flare{
		MaxThreads:       *defaults.MaxThreads,
		NvidiaSMIPath:    *defaults.NvidiaSMIPath,
		ProgressInterval: *defaults.ProgressInterval,
	}
	if defaults.Kubeconfig != nil {
		ret.Kubeconfig = *defaults.Kubeconfig
	}

	if env := os.Getenv(constants.MaxThreadsEnvironmentVariable); env != "" {
		envCap, err := strconv.Atoi(env)
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid value for %s: %s", env, constants.MaxThreadsEnvironmentVariable, err.Error())
		}
		ret.MaxThreads = envCap
	}

	// The command line flag takes precedence over everything.
	if maxThreadsSet {
		ret.MaxThreads = maxThreads
	}
	if kubeconfig != "" {
		ret.Kubeconfig = kubeconfig
	}

	if ret.ProgressInterval < 1 {
		return nil, fmt.Errorf("progress interval must be positive, got %d", ret.ProgressInterval)
	}

	return ret, nil
}
