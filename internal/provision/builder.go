// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"vcdemo-cli/internal/container"
	"vcdemo-cli/pkg/demofile"
)

// ContentHashLabel is the image label carrying the build cache key.
const ContentHashLabel = "vcdemo.content-hash"

// Compile-time interface check
var _ Builder = (*ImageBuilder)(nil)

type (
	// Builder builds demo images from demofile descriptors.
	// Implementations should cache built images based on content hashes
	// to enable fast reuse when inputs haven't changed.
	Builder interface {
		// Build creates or reuses an image for the given demofile.
		Build(ctx context.Context, d *demofile.Demofile) (*Result, error)
	}

	// Result contains the output of a build operation.
	Result struct {
		// ImageTag is the tag of the built image (e.g., "vcdemo:abc123def456")
		ImageTag container.ImageTag

		// CacheHit is true when an existing image satisfied the content hash
		// and no build was performed.
		CacheHit bool
	}
)

// ImageBuilder builds demo images with a CLI container engine.
//
// Images are cached based on a hash of:
//   - the generated descriptor text (base image, steps, env, entrypoint)
//   - the content hash of every referenced requirement manifest
//   - a directory hash of every copy source
//
// This allows fast reuse when the demo sources haven't changed.
type ImageBuilder struct {
	engine container.Engine
	config *Config

	toolFetcher *ToolFetcher
}

// NewImageBuilder creates a new ImageBuilder.
func NewImageBuilder(engine container.Engine, cfg *Config) *ImageBuilder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ImageBuilder{
		engine: engine,
		config: cfg,
	}
}

// Config returns the builder's configuration.
func (b *ImageBuilder) Config() *Config {
	return b.config
}

// fetcher returns the tool fetcher, creating a default one on first use.
func (b *ImageBuilder) fetcher() *ToolFetcher {
	if b.toolFetcher == nil {
		b.toolFetcher = NewToolFetcher(nil)
	}
	return b.toolFetcher
}

// Build creates or retrieves a cached demo image for the given demofile.
func (b *ImageBuilder) Build(ctx context.Context, d *demofile.Demofile) (*Result, error) {
	cacheKey, err := b.calculateCacheKey(d)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate cache key: %w", err)
	}

	tag := b.buildImageTag(cacheKey[:12])

	// Check if cached image exists (skip if ForceRebuild is set)
	if !b.config.ForceRebuild {
		exists, _ := b.engine.ImageExists(ctx, tag)
		if exists {
			return &Result{ImageTag: tag, CacheHit: true}, nil
		}
	}

	if err := b.buildImage(ctx, d, tag, cacheKey); err != nil {
		return nil, err
	}

	return &Result{ImageTag: tag}, nil
}

// ImageTagFor returns the tag that would be used for the given demofile
// without building it. Useful for checking whether an image is cached.
func (b *ImageBuilder) ImageTagFor(d *demofile.Demofile) (container.ImageTag, error) {
	cacheKey, err := b.calculateCacheKey(d)
	if err != nil {
		return "", err
	}
	return b.buildImageTag(cacheKey[:12]), nil
}

// IsImageBuilt checks if an image for the given demofile already exists.
func (b *ImageBuilder) IsImageBuilt(ctx context.Context, d *demofile.Demofile) (bool, error) {
	tag, err := b.ImageTagFor(d)
	if err != nil {
		return false, err
	}
	return b.engine.ImageExists(ctx, tag)
}

// buildImageTag constructs the image tag with optional suffix.
// When TagSuffix is set, the tag format is "<prefix>:<hash>-<suffix>".
// This enables test isolation by making each test's images unique.
func (b *ImageBuilder) buildImageTag(hash string) container.ImageTag {
	if b.config.TagSuffix != "" {
		return container.ImageTag(fmt.Sprintf("%s:%s-%s", b.config.TagPrefix, hash, b.config.TagSuffix))
	}
	return container.ImageTag(fmt.Sprintf("%s:%s", b.config.TagPrefix, hash))
}

// calculateCacheKey generates a unique key over the descriptor and every
// input it references.
func (b *ImageBuilder) calculateCacheKey(d *demofile.Demofile) (string, error) {
	h := sha256.New()

	// The generated descriptor text covers base image, tool URLs and modes,
	// set ordering, dirs, env, and entrypoint in a stable serialization.
	h.Write([]byte("demofile:" + demofile.GenerateCUE(d)))

	baseDir := d.Dir()

	for _, s := range d.Sets {
		manifestPath := filepath.Join(baseDir, s.Manifest)
		manifestHash, err := CalculateFileHash(manifestPath)
		if err != nil {
			return "", fmt.Errorf("failed to hash manifest %s: %w", s.Manifest, err)
		}
		h.Write([]byte("manifest:" + s.Name + ":" + manifestHash))
	}

	for _, c := range d.Copies {
		srcPath := filepath.Join(baseDir, c.Source)
		info, err := os.Stat(srcPath)
		if err != nil {
			return "", fmt.Errorf("failed to stat copy source %s: %w", c.Source, err)
		}

		var srcHash string
		if info.IsDir() {
			srcHash, err = CalculateDirHash(srcPath)
		} else {
			srcHash, err = CalculateFileHash(srcPath)
		}
		if err != nil {
			return "", fmt.Errorf("failed to hash copy source %s: %w", c.Source, err)
		}
		h.Write([]byte("copy:" + c.Source + ":" + srcHash))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// buildImage stages the build context and drives the engine, retrying
// transient failures (network hiccups during base image pull or pip installs).
func (b *ImageBuilder) buildImage(ctx context.Context, d *demofile.Demofile, tag container.ImageTag, cacheKey string) error {
	buildCtx, cleanup, err := b.prepareBuildContext(ctx, d)
	if err != nil {
		return err
	}
	defer cleanup()

	buildOpts := container.BuildOptions{
		ContextDir: buildCtx,
		Dockerfile: "Dockerfile",
		Tag:        tag,
		Labels:     map[string]string{ContentHashLabel: cacheKey},
		NoCache:    b.config.ForceRebuild,
		Stdout:     b.config.Stdout,
		Stderr:     b.config.Stderr,
	}

	return container.RetryWithBackoff(ctx, b.config.MaxAttempts, b.config.BaseBackoff,
		func(attempt int) (bool, error) {
			buildErr := b.engine.Build(ctx, buildOpts)
			if buildErr == nil {
				return false, nil
			}
			return container.IsTransientError(buildErr), buildErr
		})
}
