// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"vcdemo-cli/internal/config"
	"vcdemo-cli/internal/testutil"
	"vcdemo-cli/pkg/demofile"
)

func TestResolveDemofilePath(t *testing.T) {
	// Not parallel: subtests change the working directory.

	t.Run("flag path wins", func(t *testing.T) {
		got, err := resolveDemofilePath("/demos/custom.cue", config.DefaultConfig())
		if err != nil {
			t.Fatalf("resolveDemofilePath() error: %v", err)
		}
		if got != "/demos/custom.cue" {
			t.Errorf("path = %q, want /demos/custom.cue", got)
		}
	})

	t.Run("config override", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Demofile = "/demos/supply-chain/demofile.cue"

		got, err := resolveDemofilePath("", cfg)
		if err != nil {
			t.Fatalf("resolveDemofilePath() error: %v", err)
		}
		if got != "/demos/supply-chain/demofile.cue" {
			t.Errorf("path = %q, want the configured path", got)
		}
	})

	t.Run("default file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, demofile.DefaultFileName)
		if err := os.WriteFile(path, []byte("base_image: \"x\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		restore := testutil.MustChdir(t, dir)
		defer restore()

		got, err := resolveDemofilePath("", config.DefaultConfig())
		if err != nil {
			t.Fatalf("resolveDemofilePath() error: %v", err)
		}
		if got != demofile.DefaultFileName {
			t.Errorf("path = %q, want %q", got, demofile.DefaultFileName)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		restore := testutil.MustChdir(t, t.TempDir())
		defer restore()

		if _, err := resolveDemofilePath("", config.DefaultConfig()); err == nil {
			t.Error("resolveDemofilePath() should fail when no demofile exists")
		}
	})
}
