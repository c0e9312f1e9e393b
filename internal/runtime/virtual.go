// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"vcdemo-cli/pkg/types"
)

// VirtualRuntime interprets the entrypoint with an embedded POSIX shell.
// It needs no shell binary on the host, which keeps `vcdemo run` working on
// systems where bash is absent.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns whether this runtime is available.
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in
	return true
}

// Validate parses the script to catch syntax errors before execution.
func (r *VirtualRuntime) Validate(spec ExecSpec) error {
	if spec.Script == "" {
		return fmt.Errorf("entrypoint has no script to execute")
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(spec.Script), "entrypoint"); err != nil {
		return fmt.Errorf("entrypoint syntax error: %w", err)
	}
	return nil
}

// Execute runs the entrypoint invocation with the embedded shell.
func (r *VirtualRuntime) Execute(ctx context.Context, spec ExecSpec) *Result {
	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(spec.Script), "entrypoint")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse entrypoint: %w", err))
	}

	opts := []interp.RunnerOption{
		interp.Dir(spec.WorkDir),
		interp.Env(expand.ListEnviron(envToSlice(os.Environ(), spec.Env)...)),
		interp.StdIO(spec.Stdin, spec.Stdout, spec.Stderr),
	}

	// Prepend "--" to signal end of options; without this, forwarded args
	// like "-v" are interpreted as shell options by interp.Params()
	if len(spec.Args) > 0 {
		params := append([]string{"--"}, spec.Args...)
		opts = append(opts, interp.Params(params...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(types.ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("entrypoint execution failed: %w", err))
	}

	return NewSuccessResult()
}
