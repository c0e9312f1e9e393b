// SPDX-License-Identifier: MPL-2.0

// Integration tests for image provisioning against a real container engine.
// These tests build and run actual images and are skipped in short mode or
// when no engine is available.
package provision

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"vcdemo-cli/internal/container"
	"vcdemo-cli/internal/testutil"
	"vcdemo-cli/pkg/demofile"
	"vcdemo-cli/pkg/types"
)

// checkTestcontainersAvailable safely checks whether a container provider is
// reachable. The testcontainers detection can panic on misconfigured hosts,
// so it runs behind a recover.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// integrationDemofile returns a demofile that builds quickly on a stock
// alpine base: no requirement sets (pip is not present), one source copy,
// and an entrypoint that echoes its forwarded arguments.
func integrationDemofile(t *testing.T) *demofile.Demofile {
	t.Helper()

	dir := t.TempDir()
	writeTestFile(t, dir, "marker.txt", "provisioned\n")

	return &demofile.Demofile{
		BaseImage: "alpine:latest",
		Copies: []demofile.CopyStep{
			{Source: ".", Dest: "/demo"},
		},
		Env: map[string]string{"DEMO_STAGE": "integration"},
		Entrypoint: demofile.Entrypoint{
			Command: "sh",
			Args:    []string{"-c", `cat /demo/marker.txt && echo "demo ${1:-ready}"`, "--"},
		},
		FilePath: types.FilesystemPath(filepath.Join(dir, demofile.DefaultFileName)),
	}
}

// TestProvision_Integration builds a real image from a demofile and runs it.
// Requires Docker or Podman.
func TestProvision_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Detect an engine ourselves first; this is more robust than the
	// testcontainers detection, which can panic instead of erroring.
	engine, err := container.NewEngine(container.EngineTypePodman)
	if err != nil {
		t.Skipf("skipping provisioning integration tests: no container engine available: %v", err)
	}
	if !engine.Available() {
		t.Skip("skipping provisioning integration tests: container engine not available")
	}

	if !checkTestcontainersAvailable() {
		t.Skip("skipping provisioning integration tests: testcontainers provider not available")
	}

	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	defer func() { <-sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	d := integrationDemofile(t)
	cfg := testBuildConfig(t)
	cfg.TagSuffix = "integration"
	builder := NewImageBuilder(engine, cfg)

	result, err := builder.Build(ctx, d)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.CacheHit {
		t.Error("Build() cache hit on first build, want fresh build")
	}
	t.Cleanup(func() {
		//nolint:errcheck // best-effort cleanup of the test image
		engine.RemoveImage(context.Background(), result.ImageTag, true)
	})

	exists, err := engine.ImageExists(ctx, result.ImageTag)
	if err != nil {
		t.Fatalf("ImageExists() error = %v", err)
	}
	if !exists {
		t.Fatalf("built image %s not found by engine", result.ImageTag)
	}

	t.Run("EntrypointOutput", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		run, err := engine.Run(ctx, container.RunOptions{
			Image:  result.ImageTag,
			Remove: true,
			Stdout: &stdout,
			Stderr: &stderr,
		})
		if err != nil {
			t.Fatalf("Run() error = %v, stderr: %s", err, stderr.String())
		}
		if run.ExitCode != 0 {
			t.Fatalf("Run() exit code = %d, want 0, stderr: %s", run.ExitCode, stderr.String())
		}

		output := strings.TrimSpace(stdout.String())
		if !strings.Contains(output, "provisioned") {
			t.Errorf("Run() output = %q, want copied marker content", output)
		}
		if !strings.Contains(output, "demo ready") {
			t.Errorf("Run() output = %q, want default entrypoint argument", output)
		}
	})

	t.Run("ForwardedArguments", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		run, err := engine.Run(ctx, container.RunOptions{
			Image:   result.ImageTag,
			Command: []string{"booted"},
			Remove:  true,
			Stdout:  &stdout,
			Stderr:  &stderr,
		})
		if err != nil {
			t.Fatalf("Run() error = %v, stderr: %s", err, stderr.String())
		}
		if run.ExitCode != 0 {
			t.Fatalf("Run() exit code = %d, want 0, stderr: %s", run.ExitCode, stderr.String())
		}
		if !strings.Contains(stdout.String(), "demo booted") {
			t.Errorf("Run() output = %q, want forwarded argument", stdout.String())
		}
	})

	t.Run("ImmediateCacheHit", func(t *testing.T) {
		again, err := builder.Build(ctx, d)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if !again.CacheHit {
			t.Error("Build() cache hit = false on unchanged demofile, want true")
		}
		if again.ImageTag != result.ImageTag {
			t.Errorf("Build() image tag = %s, want %s", again.ImageTag, result.ImageTag)
		}
	})

	t.Run("ContentHashLabel", func(t *testing.T) {
		labels, err := engine.ImageLabels(ctx, result.ImageTag)
		if err != nil {
			t.Fatalf("ImageLabels() error = %v", err)
		}
		if labels[ContentHashLabel] == "" {
			t.Errorf("built image has no %s label", ContentHashLabel)
		}
	})
}
