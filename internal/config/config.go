// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the settings of the mount_ramfs command.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings read from flags, the environment and an optional
// YAML file, in that order of precedence.
type Config struct {
	MountPoint string   `mapstructure:"mount_point"`
	Files      []string `mapstructure:"files"`
	FSName     string   `mapstructure:"fs_name"`
	Debug      bool     `mapstructure:"debug"`

	// Largest size, in bytes, that a file may reach through the mount. Zero
	// means the file system's built-in default.
	MaxFileSize uint64 `mapstructure:"max_file_size"`

	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ListenAddress string `mapstructure:"listen_address"`
}

const (
	envPrefix = "RAMFS"

	defaultMaxFileSize uint64 = 1 << 30
)

var ErrNoMountPoint = errors.New("mount_point must be set")

// Register the command-line flags understood by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a YAML configuration file.")
	flags.String("mount_point", "", "Path to mount point.")
	flags.StringSlice("files", nil, "Names of the files to create in the root directory.")
	flags.String("fs_name", "", "File system name shown in the mount table.")
	flags.Bool("debug", false, "Write FUSE debugging messages to stderr.")
	flags.Uint64("max_file_size", 0, "Largest size in bytes a file may grow to.")
	flags.Bool("metrics.enabled", false, "Serve Prometheus metrics.")
	flags.String("metrics.listen_address", "", "Address on which to serve /metrics.")
}

// Load the configuration, using flags registered with RegisterFlags and
// already parsed. A config file is only required to exist when named
// explicitly with --config.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("files", []string{"data"})
	v.SetDefault("fs_name", "ramfs")
	v.SetDefault("debug", false)
	v.SetDefault("max_file_size", defaultMaxFileSize)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_address", ":9102")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"mount_point",
		"files",
		"fs_name",
		"debug",
		"max_file_size",
		"metrics.enabled",
		"metrics.listen_address",
	} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("BindPFlag(%q): %w", key, err)
			}
		}
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("GetString(config): %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Check the settings that can't be defaulted.
func (c *Config) Validate() error {
	if c.MountPoint == "" {
		return ErrNoMountPoint
	}

	if len(c.Files) == 0 {
		return errors.New("files must not be empty")
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return errors.New("metrics.listen_address must be set when metrics are enabled")
	}

	return nil
}
