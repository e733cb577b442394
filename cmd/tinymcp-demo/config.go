// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bootConfig is the demo binary's optional bootstrap configuration. It has no
// bearing on the tinymcp library itself (New takes no config), it only picks
// the name/version/log level the demo server advertises during initialize.
type bootConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	DefaultLevel string `yaml:"defaultLogLevel"`
}

const bootConfigEnvVar = "TINYMCP_DEMO_CONFIG_FILE"

// loadBootConfig loads the demo bootstrap config from configPath, falling
// back to TINYMCP_DEMO_CONFIG_FILE, falling back to defaults when neither is
// set. A config file that exists but fails to parse is an error; a config
// path that was never set is not.
func loadBootConfig(configPath string) (*bootConfig, error) {
	cfg := &bootConfig{
		Name:         "tinymcp-demo",
		Version:      appVersion,
		DefaultLevel: "info",
	}

	if configPath == "" {
		configPath = os.Getenv(bootConfigEnvVar)
	}
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = "tinymcp-demo"
	}
	if cfg.Version == "" {
		cfg.Version = appVersion
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = "info"
	}

	return cfg, nil
}
