// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional wrapper configuration file supplying
// defaults that the command line can override
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"

	iu "github.com/usgs-eros/espa-wrappers/internal/util"
)

//go:embed schema.json
var schemaJSON []byte

const systemConfigFile = "/etc/espa/config.yaml"

// NatsConfig holds the processing agent connection settings
type NatsConfig struct {
	Context     string `yaml:"context" json:"context,omitempty"`
	Servers     string `yaml:"servers" json:"servers,omitempty"`
	Subject     string `yaml:"subject" json:"subject,omitempty"`
	Queue       string `yaml:"queue" json:"queue,omitempty"`
	MonitorPort int    `yaml:"monitor_port" json:"monitor_port,omitempty"`
}

// Config is the persisted wrapper configuration
type Config struct {
	BinDir      string     `yaml:"bin_dir" json:"bin_dir,omitempty"`
	MetricsFile string     `yaml:"metrics_file" json:"metrics_file,omitempty"`
	LogFile     string     `yaml:"logfile" json:"logfile,omitempty"`
	Nats        NatsConfig `yaml:"nats" json:"nats,omitempty"`
}

// DiscoverPath finds the active configuration file, the user file wins
// over the system file, an empty result means no configuration exists
func DiscoverPath() string {
	userFile := filepath.Join(xdg.ConfigHome, "espa", "config.yaml")

	if iu.FileExists(userFile) {
		return userFile
	}

	if iu.FileExists(systemConfigFile) {
		return systemConfigFile
	}

	return ""
}

// Load reads and validates a configuration file
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = validate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	cfg := &Config{}
	err = yaml.Unmarshal(raw, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads the discovered configuration file, returning an empty
// configuration when none exists
func LoadDefault() (*Config, error) {
	path := DiscoverPath()
	if path == "" {
		return &Config{}, nil
	}

	return Load(path)
}

func validate(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	jraw, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return err
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	err = compiler.AddResource("config.json", schemaDoc)
	if err != nil {
		return err
	}

	schema, err := compiler.Compile("config.json")
	if err != nil {
		return err
	}

	var doc any
	err = json.Unmarshal(jraw, &doc)
	if err != nil {
		return err
	}

	// an empty or comment only file is a valid configuration
	if doc == nil {
		return nil
	}

	return schema.Validate(doc)
}
