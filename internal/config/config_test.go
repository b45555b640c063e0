// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestLoadFile_MissingIsEmpty(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_chars: [oops"), 0600))

	_, err := LoadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveAndLoadFile_KeepsSettingsButNotKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Config{APIURL: "http://example.test/v1/chat-messages", User: "alice", MinChars: 50, APIKey: "secret"}

	require.NoError(t, SaveFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "alice", loaded.User)
	require.Equal(t, 50, loaded.MinChars)
	require.Empty(t, loaded.APIKey)
}

func TestApplyEnv_OverridesFile(t *testing.T) {
	cfg := Config{APIURL: "http://from-file"}
	cfg.ApplyEnv(lookupFrom(map[string]string{EnvAPIURL: "http://from-env", EnvAPIKey: "k"}))

	require.Equal(t, "http://from-env", cfg.APIURL)
	require.Equal(t, "k", cfg.APIKey)
}

func TestApplyEnv_EmptyURLKeepsFile(t *testing.T) {
	cfg := Config{APIURL: "http://from-file"}
	cfg.ApplyEnv(lookupFrom(map[string]string{EnvAPIURL: ""}))

	require.Equal(t, "http://from-file", cfg.APIURL)
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	require.Equal(t, DefaultUser, cfg.User)
	require.Equal(t, DefaultMinChars, cfg.MinChars)
	require.Equal(t, "toc_", cfg.PriorityPrefix)
	require.Equal(t, []string{"toc_html.txt"}, cfg.PriorityNames)
}

func TestRequestTimeout(t *testing.T) {
	d, err := Config{}.RequestTimeout()
	require.NoError(t, err)
	require.Zero(t, d)

	d, err = Config{Timeout: "90s"}.RequestTimeout()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, d)

	_, err = Config{Timeout: "soon"}.RequestTimeout()
	require.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	var cfg Config

	require.NoError(t, cfg.Set("min_chars", "120"))
	require.NoError(t, cfg.Set("priority_names", "a.txt, b.txt,,"))
	require.NoError(t, cfg.Set("timeout", "2m"))

	v, err := cfg.Get("min_chars")
	require.NoError(t, err)
	require.Equal(t, "120", v)
	require.Equal(t, []string{"a.txt", "b.txt"}, cfg.PriorityNames)

	require.Error(t, cfg.Set("min_chars", "-3"))
	require.Error(t, cfg.Set("timeout", "later"))
	require.Error(t, cfg.Set("colour", "blue"))
	_, err = cfg.Get("colour")
	require.Error(t, err)
}

func TestLoadDotEnv_MissingIsFine(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QB_TEST_SET=from-file\nQB_TEST_NEW=fresh\n"), 0600))
	t.Setenv("QB_TEST_SET", "from-env")
	t.Setenv("QB_TEST_NEW", "")
	os.Unsetenv("QB_TEST_NEW")

	require.NoError(t, LoadDotEnv(path))

	require.Equal(t, "from-env", os.Getenv("QB_TEST_SET"))
	require.Equal(t, "fresh", os.Getenv("QB_TEST_NEW"))
}
