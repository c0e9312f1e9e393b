// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"vcdemo-cli/internal/config"
)

const (
	// DefaultTagPrefix is the repository part of built image tags.
	DefaultTagPrefix = "vcdemo"

	// DefaultMaxAttempts bounds build retries on transient failures.
	DefaultMaxAttempts = 3

	// DefaultBaseBackoff is the initial delay between build retries.
	DefaultBaseBackoff = 2 * time.Second
)

type (
	// Config holds configuration for building demo images.
	Config struct {
		// ForceRebuild bypasses cached images and forces a rebuild
		ForceRebuild bool

		// TagPrefix is the repository part of the image tag.
		// Default: "vcdemo"
		TagPrefix string

		// TagSuffix is an optional suffix appended to image tags.
		// This enables test isolation by making each test's images unique.
		// Can be set via the VCDEMO_BUILD_TAG_SUFFIX environment variable.
		TagSuffix string

		// CacheDir is where temporary build contexts are staged.
		// Default: a visible directory under the user's home (Docker
		// installed via Snap cannot read /tmp or hidden directories).
		CacheDir string

		// MaxAttempts bounds build retries on transient failures.
		MaxAttempts int

		// BaseBackoff is the initial delay between build retries.
		BaseBackoff time.Duration

		// Stdout is where build progress is written.
		Stdout io.Writer

		// Stderr is where build errors are written.
		Stderr io.Writer
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)
)

// DefaultConfig returns a Config with default values, honoring the build
// section of the runtime configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		TagPrefix:   DefaultTagPrefix,
		TagSuffix:   os.Getenv("VCDEMO_BUILD_TAG_SUFFIX"),
		CacheDir:    defaultCacheDir(),
		MaxAttempts: DefaultMaxAttempts,
		BaseBackoff: DefaultBaseBackoff,
		Stdout:      os.Stderr, // Show build progress on stderr
		Stderr:      os.Stderr,
	}

	appCfg := config.Get()
	cfg.ForceRebuild = appCfg.Build.ForceRebuild
	if appCfg.Build.CacheDir != "" {
		cfg.CacheDir = appCfg.Build.CacheDir.String()
	}

	return cfg
}

// defaultCacheDir picks a build context location the container engine can read.
//
// Note: Docker installed via Snap has limited filesystem access:
//   - Cannot access /tmp (different namespace)
//   - Cannot access hidden directories like ~/.cache (home interface restriction)
//   - CAN access visible directories in $HOME like ~/vcdemo-build
func defaultCacheDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		if _, statErr := os.Stat(home); statErr == nil {
			return filepath.Join(home, "vcdemo-build")
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, ".vcdemo-build")
	}

	// Last resort: system temp (may fail with Snap Docker)
	return filepath.Join(os.TempDir(), "vcdemo-build")
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithForceRebuild sets whether to bypass the image cache.
func WithForceRebuild(force bool) Option {
	return func(c *Config) {
		c.ForceRebuild = force
	}
}

// WithTagPrefix sets the repository part of image tags.
func WithTagPrefix(prefix string) Option {
	return func(c *Config) {
		c.TagPrefix = prefix
	}
}

// WithTagSuffix sets the tag suffix for test isolation.
func WithTagSuffix(suffix string) Option {
	return func(c *Config) {
		c.TagSuffix = suffix
	}
}

// WithCacheDir sets the build context staging directory.
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithOutput sets the writers for build progress and errors.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Config) {
		c.Stdout = stdout
		c.Stderr = stderr
	}
}
