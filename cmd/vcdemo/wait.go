// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vcdemo-cli/internal/config"
	"vcdemo-cli/internal/issue"
	"vcdemo-cli/internal/runtime"
	"vcdemo-cli/internal/tunnel"
	"vcdemo-cli/pkg/demofile"
	"vcdemo-cli/pkg/types"
)

// endpointEnvVar is the variable the demo entrypoint reads the public
// DIDComm endpoint from.
const endpointEnvVar = "AGENT_ENDPOINT"

var (
	waitTimeout time.Duration
	waitAPIURL  string
	waitFile    string
	waitRuntime string

	// waitCmd blocks until the public tunnel is up, then hands off to the
	// demo entrypoint.
	waitCmd = &cobra.Command{
		Use:   "wait [-- entrypoint args...]",
		Short: "Wait for the public tunnel, then run the demo entrypoint",
		Long: `Wait for the public tunnel, then run the demo entrypoint.

Polls the ngrok local API until a public https tunnel is available, exports
the endpoint as ` + endpointEnvVar + `, and runs the demofile's entrypoint with any
arguments after the '--' separator forwarded as positional parameters. The
process exit code equals the entrypoint's exit code.

Without a demofile the command just prints the endpoint and exits.`,
		RunE: runWait,
	}
)

func init() {
	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 0, "how long to wait for the tunnel (default from config)")
	waitCmd.Flags().StringVar(&waitAPIURL, "api-url", "", "ngrok local API base URL (default from config)")
	waitCmd.Flags().StringVarP(&waitFile, "file", "f", "", "path to the demofile (default: ./demofile.cue)")
	waitCmd.Flags().StringVar(&waitRuntime, "runtime", "", "entrypoint runtime: native or virtual (default: auto-detect)")
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	apiURL := waitAPIURL
	if apiURL == "" {
		apiURL = cfg.Tunnel.APIURL
	}
	timeout := waitTimeout
	if timeout == 0 {
		timeout = time.Duration(cfg.Tunnel.TimeoutSeconds) * time.Second
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	waiter := tunnel.NewWaiter(apiURL)
	endpoint, err := waiter.Wait(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.TunnelNotReadyId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	fmt.Printf("%s Tunnel ready: %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(endpoint))
	if err := os.Setenv(endpointEnvVar, endpoint); err != nil {
		return fmt.Errorf("failed to export %s: %w", endpointEnvVar, err)
	}

	d, ok := loadEntrypointDemofile(waitFile, cfg)
	if !ok {
		// Nothing to hand off to; the endpoint is the result.
		return nil
	}

	return execEntrypoint(cmd.Context(), d, args)
}

// loadEntrypointDemofile loads the demofile for entrypoint hand-off.
// A missing demofile is not an error for wait; a broken one is reported.
func loadEntrypointDemofile(flagPath string, cfg *config.Config) (*demofile.Demofile, bool) {
	path := flagPath
	if path == "" && cfg != nil && cfg.Demofile != "" {
		path = cfg.Demofile.String()
	}
	if path == "" {
		if _, err := os.Stat(demofile.DefaultFileName); err != nil {
			return nil, false
		}
		path = demofile.DefaultFileName
	}

	d, err := demofile.Parse(types.FilesystemPath(path))
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("skipping entrypoint, demofile %s: %v", path, err))
		return nil, false
	}
	printDemofileWarnings(d)
	return d, true
}

// execEntrypoint runs the demofile entrypoint with forwarded arguments and
// propagates its exit code through ExitError.
func execEntrypoint(ctx context.Context, d *demofile.Demofile, forwarded []string) error {
	spec, err := runtime.SpecFromEntrypoint(d.Entrypoint, forwarded)
	if err != nil {
		return err
	}
	spec.Stdin = os.Stdin
	spec.Stdout = os.Stdout
	spec.Stderr = os.Stderr

	var rt runtime.Runtime
	if waitRuntime != "" {
		rt, err = runtime.ForName(waitRuntime)
		if err != nil {
			return err
		}
	} else {
		rt = runtime.Detect()
	}

	result := rt.Execute(ctx, spec)
	if result.Error != nil {
		return result.Error
	}
	if result.ExitCode != 0 {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}
