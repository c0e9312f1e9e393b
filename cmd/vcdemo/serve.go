// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"vcdemo-cli/internal/scenario"
	"vcdemo-cli/internal/sshserver"
	"vcdemo-cli/pkg/types"
)

var (
	serveHost     string
	servePort     int
	serveTokenTTL time.Duration

	// serveCmd runs a scenario with its menu exposed over SSH instead of
	// the local terminal.
	serveCmd = &cobra.Command{
		Use:   "serve <issuer|tier0|tier2>",
		Short: "Run a scenario with its menu exposed over SSH",
		Long: `Run a scenario with its menu exposed over SSH.

Like 'run', but instead of the local terminal the scenario menu is served
by a token-authenticated SSH server bound to localhost. The connection
details (including a one-time token used as the password) are printed on
startup; each SSH session gets its own menu attached to the running
scenario.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{scenario.IssuerIdent, scenario.Tier0Ident, scenario.Tier2Ident},
		RunE:      runServe,
	}
)

func init() {
	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "address the console server binds to")
	serveCmd.Flags().IntVar(&servePort, "listen-port", 0, "console server port (0 = auto-select)")
	serveCmd.Flags().DurationVar(&serveTokenTTL, "token-ttl", time.Hour, "how long session tokens stay valid")
}

func runServe(cmd *cobra.Command, args []string) error {
	ident := args[0]

	runner, err := newScenarioRunner(cmd.Context(), ident)
	if err != nil {
		return err
	}

	srvCfg := sshserver.DefaultConfig()
	srvCfg.Host = serveHost
	srvCfg.Port = types.ListenPort(servePort)
	srvCfg.TokenTTL = serveTokenTTL
	srvCfg.Attach = func(ctx context.Context, in io.Reader, out io.Writer) error {
		console := scenario.NewConsole(in, out)
		return console.RunMenu(ctx, runner.Controller().MenuOptions())
	}

	srv := sshserver.New(srvCfg)
	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}
	defer func() { _ = srv.Stop() }()

	info, err := srv.GetConnectionInfo(ident)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Console server ready"))
	fmt.Printf("%s: ssh %s@%s -p %d\n", CmdStyle.Render("connect"), info.User, info.Host, info.Port)
	fmt.Printf("%s: %s %s\n", CmdStyle.Render("token"), info.Token,
		SubtitleStyle.Render(fmt.Sprintf("(use as password, valid until %s)", info.ExpiresAt.Format(time.Kitchen))))

	// Block in the scenario; attached sessions drive the menu.
	return runner.RunWith(cmd.Context(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-srv.Err():
			return err
		}
	})
}
