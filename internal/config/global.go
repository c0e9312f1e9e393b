// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"vcdemo-cli/pkg/types"
)

// Package-level cache for the loaded configuration. The CLI resolves its
// configuration once per invocation; tests use Reset()/ResetCache() to
// control the cache explicitly.
var (
	globalConfig *Config
	configPath   string
	errLastLoad  error

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
)

// Load returns the cached configuration, loading it from disk on first use.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, resolvedPath, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(configFilePathOverride),
		ConfigDirPath:  types.FilesystemPath(configDirOverride),
	})
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = resolvedPath
	return cfg, nil
}

// Get returns the configuration, falling back to defaults when loading
// fails. The load error is retained for later retrieval via LastLoadError,
// so callers that only need best-effort settings are not forced to handle
// configuration problems inline.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		errLastLoad = err
		return DefaultConfig()
	}
	errLastLoad = nil
	return cfg
}

// LastLoadError returns the error from the most recent Get() that fell back
// to defaults, or nil when the last load succeeded.
func LastLoadError() error {
	return errLastLoad
}

// ConfigFilePath returns the path of the loaded config file, or the empty
// string when no file has been loaded (defaults in use).
//
//nolint:revive // ConfigFilePath is more descriptive than FilePath for external callers
func ConfigFilePath() string {
	return configPath
}

// SetConfigFilePathOverride forces loading from a specific config file and
// clears the cache so the next Load() picks it up.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ResetCache clears the cached configuration and last load error while
// preserving overrides. The next Load() re-reads from disk.
func ResetCache() {
	globalConfig = nil
	configPath = ""
	errLastLoad = nil
}

// Reset clears the cache and all overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	ResetCache()
	configFilePathOverride = ""
	configDirOverride = ""
}
