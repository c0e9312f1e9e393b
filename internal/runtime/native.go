// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"vcdemo-cli/pkg/types"
)

// NativeRuntime executes the entrypoint with the host's POSIX shell.
// The demo image starts its wrapper through bash, so the native runtime
// mirrors that form: shell -c <script> -- <args>.
type NativeRuntime struct {
	// Shell overrides the default shell
	Shell string
}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether a usable shell exists on this system.
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Execute runs the entrypoint invocation with the host shell.
func (r *NativeRuntime) Execute(ctx context.Context, spec ExecSpec) *Result {
	shell, err := r.getShell()
	if err != nil {
		return NewErrorResult(1, err)
	}

	// shell -c <script> -- <args>: "--" becomes $0, forwarded args $1..$n,
	// matching the container's exec-form entrypoint.
	args := []string{"-c", spec.Script, "--"}
	args = append(args, spec.Args...)

	cmd := exec.CommandContext(ctx, shell, args...)
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	cmd.Env = envToSlice(os.Environ(), spec.Env)
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(types.ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute entrypoint: %w", err))
	}

	return NewSuccessResult()
}

// getShell determines which shell to use.
func (r *NativeRuntime) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash, nil
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		return sh, nil
	}
	return "", fmt.Errorf("no shell found")
}
