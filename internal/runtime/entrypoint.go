// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"vcdemo-cli/pkg/demofile"
)

// SpecFromEntrypoint translates a demofile entrypoint into an ExecSpec,
// appending the forwarded container arguments.
//
// The stock entrypoint is a shell -c form: the script text is the element
// after "-c", and a trailing "--" placeholder (the script's $0) is dropped
// because both runtimes insert the separator themselves. Forwarded arguments
// land in $1..$n either way, matching the container contract.
func SpecFromEntrypoint(e demofile.Entrypoint, forwarded []string) (ExecSpec, error) {
	if e.Command == "" {
		return ExecSpec{}, fmt.Errorf("entrypoint has no command")
	}

	for i, a := range e.Args {
		if a == "-c" && i+1 < len(e.Args) {
			rest := e.Args[i+2:]
			if len(rest) > 0 && rest[0] == "--" {
				rest = rest[1:]
			}

			args := make([]string, 0, len(rest)+len(forwarded))
			args = append(args, rest...)
			args = append(args, forwarded...)

			return ExecSpec{Script: e.Args[i+1], Args: args}, nil
		}
	}

	// Non-shell form: quote the command line into a script so forwarded
	// arguments still pass through as positional parameters.
	script, err := quoteCommandLine(e.Command, e.Args)
	if err != nil {
		return ExecSpec{}, err
	}
	return ExecSpec{Script: script, Args: forwarded}, nil
}

// quoteCommandLine renders command+args as a shell line ending in "$@".
func quoteCommandLine(command string, args []string) (string, error) {
	parts := make([]string, 0, len(args)+2)
	for _, word := range append([]string{command}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("failed to quote entrypoint word %q: %w", word, err)
		}
		parts = append(parts, quoted)
	}
	parts = append(parts, `"$@"`)
	return strings.Join(parts, " "), nil
}

// Detect picks the runtime closest to the container's behavior: the host
// shell when one exists, the embedded shell otherwise.
func Detect() Runtime {
	if native := NewNativeRuntime(); native.Available() {
		return native
	}
	return NewVirtualRuntime()
}

// ForName returns the runtime with the given name.
func ForName(name string) (Runtime, error) {
	switch name {
	case "native":
		return NewNativeRuntime(), nil
	case "virtual":
		return NewVirtualRuntime(), nil
	case "":
		return Detect(), nil
	default:
		return nil, fmt.Errorf("unknown runtime %q (valid: native, virtual)", name)
	}
}
