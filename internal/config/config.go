// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles application configuration including reading and writing
// the YAML defaults file, loading a local .env file, and overlaying the
// environment variables that carry the endpoint and credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIURL names the environment variable holding the endpoint URL.
	EnvAPIURL = "API_URL"
	// EnvAPIKey names the environment variable holding the bearer token.
	EnvAPIKey = "API_KEY"

	DefaultUser           = "batch-cli"
	DefaultMinChars       = 200
	DefaultPriorityPrefix = "toc_"
)

// DefaultPriorityNames are base names always processed before the rest of a directory.
var DefaultPriorityNames = []string{"toc_html.txt"}

// Config represents the persisted defaults plus the values resolved from the environment.
type Config struct {
	// APIURL is the chat endpoint that receives each query
	APIURL string `yaml:"api_url,omitempty"`

	// User is the identifier sent with every request
	User string `yaml:"user,omitempty"`

	// MinChars is the minimum file length, in characters, worth sending
	MinChars int `yaml:"min_chars,omitempty"`

	// Timeout bounds a single request; empty means no timeout
	Timeout string `yaml:"timeout,omitempty"`

	// PriorityPrefix moves matching files to the front of a directory run
	PriorityPrefix string `yaml:"priority_prefix,omitempty"`

	// PriorityNames are exact base names moved to the front of a directory run
	PriorityNames []string `yaml:"priority_names,omitempty"`

	// APIKey is only ever read from the environment.
	APIKey string `yaml:"-"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"api_url", "user", "min_chars", "timeout", "priority_prefix", "priority_names"}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "query-batch", "config.yaml"), nil
}

// LoadFile reads the YAML config at path. A missing file yields an empty Config.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config file at path (or the default path when empty), loads
// a .env file from the working directory and applies environment overrides
// and built-in defaults.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already set.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// ApplyEnv overlays API_URL and API_KEY using the given lookup function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvAPIKey); ok {
		c.APIKey = v
	}
}

func (c *Config) ApplyDefaults() {
	if c.User == "" {
		c.User = DefaultUser
	}
	if c.MinChars <= 0 {
		c.MinChars = DefaultMinChars
	}
	if c.PriorityPrefix == "" {
		c.PriorityPrefix = DefaultPriorityPrefix
	}
	if len(c.PriorityNames) == 0 {
		c.PriorityNames = append([]string(nil), DefaultPriorityNames...)
	}
}

// RequestTimeout parses Timeout. Zero means requests never time out.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// Get returns the string form of a settable key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "user":
		return c.User, nil
	case "min_chars":
		return strconv.Itoa(c.MinChars), nil
	case "timeout":
		return c.Timeout, nil
	case "priority_prefix":
		return c.PriorityPrefix, nil
	case "priority_names":
		return strings.Join(c.PriorityNames, ","), nil
	}
	return "", fmt.Errorf("unknown config key '%s'", key)
}

// Set assigns a settable key from its string form. priority_names takes a
// comma-separated list.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "user":
		c.User = value
	case "min_chars":
		if value == "" {
			c.MinChars = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("min_chars must be a non-negative integer, got '%s'", value)
		}
		c.MinChars = n
	case "timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout '%s': %w", value, err)
			}
		}
		c.Timeout = value
	case "priority_prefix":
		c.PriorityPrefix = value
	case "priority_names":
		c.PriorityNames = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.PriorityNames = append(c.PriorityNames, name)
			}
		}
	default:
		return fmt.Errorf("unknown config key '%s'", key)
	}
	return nil
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { // rwxr-x---
		return fmt.Errorf("failed to create config directory %s: %w", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
