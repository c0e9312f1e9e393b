// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"vcdemo-cli/internal/issue"
	"vcdemo-cli/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("entrypoint failed")
		err := &ExitError{Code: types.ExitCode(2), Err: inner}

		if err.Error() != "entrypoint failed" {
			t.Errorf("Error() = %q, want %q", err.Error(), "entrypoint failed")
		}
		if !errors.Is(err, inner) {
			t.Error("errors.Is should find the wrapped error")
		}
	})

	t.Run("bare exit code", func(t *testing.T) {
		t.Parallel()

		err := &ExitError{Code: types.ExitCode(3)}
		if err.Error() != "exit status 3" {
			t.Errorf("Error() = %q, want %q", err.Error(), "exit status 3")
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		got := formatErrorForDisplay(errors.New("boom"), false)
		if got != "boom" {
			t.Errorf("formatErrorForDisplay() = %q, want %q", got, "boom")
		}
	})

	t.Run("actionable error uses Format", func(t *testing.T) {
		t.Parallel()

		ae := issue.NewErrorContext().
			WithOperation("load demofile").
			WithResource("demofile.cue").
			WithSuggestion("run 'vcdemo init'").
			Wrap(errors.New("no such file")).
			Build()

		got := formatErrorForDisplay(ae, false)
		if got != ae.Format(false) {
			t.Errorf("formatErrorForDisplay() = %q, want the ActionableError Format output", got)
		}
	})
}
