// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"

	"vcdemo-cli/pkg/types"
)

type (
	// ExecSpec describes one entrypoint invocation.
	ExecSpec struct {
		// Script is the shell text to run (the wrapper invocation).
		Script string

		// Args are positional parameters forwarded to the script after
		// the "--" separator.
		Args []string

		// Env is additional environment on top of the inherited one.
		Env map[string]string

		// WorkDir is the working directory; empty means the current one.
		WorkDir string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the outcome of an entrypoint execution. A non-zero exit
	// code is a normal script termination, not an infrastructure failure;
	// Error is set only when the script could not be run at all.
	Result struct {
		ExitCode types.ExitCode
		Error    error
	}

	// Runtime executes entrypoint invocations.
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Available checks if the runtime can be used on this system
		Available() bool
		// Execute runs the spec and reports its exit code
		Execute(ctx context.Context, spec ExecSpec) *Result
	}
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}

// envToSlice converts an env map to KEY=VALUE form on top of base.
func envToSlice(base []string, env map[string]string) []string {
	out := make([]string, 0, len(base)+len(env))
	out = append(out, base...)
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
