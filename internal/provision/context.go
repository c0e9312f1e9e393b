// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vcdemo-cli/pkg/demofile"
)

// prepareBuildContext creates a temporary directory with all resources needed
// to build the demo image: fetched tool binaries under tools/, requirement
// manifests at their declared paths, the demo source tree under src/, and the
// generated Dockerfile at the root.
func (b *ImageBuilder) prepareBuildContext(ctx context.Context, d *demofile.Demofile) (buildContextDir string, cleanup func(), err error) {
	if mkdirErr := os.MkdirAll(b.config.CacheDir, 0o755); mkdirErr != nil {
		return "", nil, fmt.Errorf("failed to create build context parent directory: %w", mkdirErr)
	}

	tmpDir, err := os.MkdirTemp(b.config.CacheDir, "ctx-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	cleanup = func() {
		_ = os.RemoveAll(tmpDir) // Cleanup temp dir; error non-critical
	}

	fail := func(stageErr error) (string, func(), error) {
		cleanup()
		return "", nil, stageErr
	}

	baseDir := d.Dir()

	// Fetch tool binaries into tools/, mirroring their in-image destinations.
	for _, t := range d.Tools {
		dst := filepath.Join(tmpDir, "tools", filepath.FromSlash(t.Dest))
		if err := b.fetcher().Fetch(ctx, t, dst); err != nil {
			return fail(fmt.Errorf("failed to fetch tool %s: %w", t.Dest, err))
		}
	}

	// Stage requirement manifests at their declared relative paths.
	for _, s := range d.Sets {
		src := filepath.Join(baseDir, filepath.FromSlash(s.Manifest))
		dst := filepath.Join(tmpDir, filepath.FromSlash(s.Manifest))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fail(fmt.Errorf("failed to create manifest directory: %w", err))
		}
		if err := CopyFile(src, dst); err != nil {
			return fail(fmt.Errorf("failed to stage manifest %s: %w", s.Manifest, err))
		}
	}

	// Stage copy sources under src/.
	for _, c := range d.Copies {
		if err := b.stageCopySource(baseDir, tmpDir, c); err != nil {
			return fail(err)
		}
	}

	// Write the generated Dockerfile at the context root.
	dockerfilePath := filepath.Join(tmpDir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(GenerateDockerfile(d)), 0o644); err != nil {
		return fail(fmt.Errorf("failed to write Dockerfile: %w", err))
	}

	return tmpDir, cleanup, nil
}

// stageCopySource copies one demofile copy source into the build context.
// A "." source stages the whole demofile directory.
func (b *ImageBuilder) stageCopySource(baseDir, tmpDir string, c demofile.CopyStep) error {
	srcRoot := filepath.Join(tmpDir, "src")

	var src, dst string
	if c.Source == "." {
		src = baseDir
		dst = srcRoot
	} else {
		src = filepath.Join(baseDir, filepath.FromSlash(c.Source))
		dst = filepath.Join(srcRoot, filepath.FromSlash(c.Source))
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat copy source %s: %w", c.Source, err)
	}

	if info.IsDir() {
		if err := CopyDir(src, dst); err != nil {
			return fmt.Errorf("failed to stage copy source %s: %w", c.Source, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create copy destination directory: %w", err)
	}
	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to stage copy source %s: %w", c.Source, err)
	}
	return nil
}
