// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"testing"
)

func nativeOrSkip(t *testing.T) *NativeRuntime {
	t.Helper()

	r := NewNativeRuntime()
	if !r.Available() {
		t.Skip("no host shell available")
	}
	return r
}

func TestNativeRuntime_ExitCodePropagation(t *testing.T) {
	t.Parallel()

	r := nativeOrSkip(t)
	result := r.Execute(context.Background(), ExecSpec{Script: "exit 42"})

	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.ExitCode != 42 {
		t.Errorf("expected exit code 42, got %d", result.ExitCode)
	}
}

func TestNativeRuntime_PositionalArgs(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	r := nativeOrSkip(t)
	result := r.Execute(context.Background(), ExecSpec{
		Script: `printf '%s\n' "$@"`,
		Args:   []string{"alice", "--port", "8030"},
		Stdout: &stdout,
	})

	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if got, want := stdout.String(), "alice\n--port\n8030\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNativeRuntime_MissingShell(t *testing.T) {
	t.Parallel()

	r := &NativeRuntime{Shell: "/nonexistent/shell"}
	result := r.Execute(context.Background(), ExecSpec{Script: "true"})

	if result.Error == nil {
		t.Error("expected error for missing shell binary")
	}
	if result.ExitCode.IsSuccess() {
		t.Error("expected non-zero exit code")
	}
}
