// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vcdemo-cli/internal/config"
	"vcdemo-cli/internal/scenario"
	"vcdemo-cli/internal/tunnel"
	"vcdemo-cli/pkg/types"
)

var (
	runPort        int
	runEndpoint    string
	runWaitTunnel  bool
	runSeed        string
	runWalletType  string
	runGenesisURL  string
	runNoAuto      bool
	runRevocation  bool
	runAgentBinary string

	// runCmd runs one scenario role with its interactive menu on stdio.
	runCmd = &cobra.Command{
		Use:   "run <issuer|tier0|tier2>",
		Short: "Run a demo scenario with its interactive menu",
		Long: `Run a demo scenario with its interactive menu.

Starts the role's ACA-Py agent and webhook server, establishes the first
connection (issuer and tier0 print an invitation, tier2 prompts for one),
and drives the role's menu until you exit.

Roles:
  issuer   issues the tier1 and tier2 product credentials
  tier0    requests and verifies proofs, walking the supply chain
  tier2    holds credentials and responds to proof requests`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{scenario.IssuerIdent, scenario.Tier0Ident, scenario.Tier2Ident},
		RunE:      runScenario,
	}
)

func init() {
	addScenarioFlags(runCmd)
}

// addScenarioFlags registers the agent/scenario flags shared by run and serve.
func addScenarioFlags(c *cobra.Command) {
	c.Flags().IntVarP(&runPort, "port", "p", 0, "agent inbound port (admin is port+1, webhooks port+2)")
	c.Flags().StringVar(&runEndpoint, "endpoint", "", "public DIDComm endpoint URL")
	c.Flags().BoolVar(&runWaitTunnel, "wait-tunnel", false, "discover the endpoint from the ngrok local API")
	c.Flags().StringVar(&runSeed, "seed", "", "wallet seed for a deterministic public DID")
	c.Flags().StringVar(&runWalletType, "wallet-type", "", "wallet backend (default from config)")
	c.Flags().StringVar(&runGenesisURL, "genesis-url", "", "ledger genesis transactions URL (default from config)")
	c.Flags().BoolVar(&runNoAuto, "no-auto", false, "disable the agent's automatic accept/store behavior")
	c.Flags().BoolVar(&runRevocation, "revocation", false, "enable the issuer's revocation menu entries")
	c.Flags().StringVar(&runAgentBinary, "agent-binary", "", "override the ACA-Py executable")
}

func runScenario(cmd *cobra.Command, args []string) error {
	runner, err := newScenarioRunner(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return runner.Run(cmd.Context())
}

// newScenarioRunner builds a scenario runner from config and flags,
// resolving the endpoint from the tunnel when requested.
func newScenarioRunner(ctx context.Context, ident string) (*scenario.Runner, error) {
	cfg := config.Get()

	endpoint := runEndpoint
	if endpoint == "" && runWaitTunnel {
		timeout := time.Duration(cfg.Tunnel.TimeoutSeconds) * time.Second
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resolved, err := tunnel.NewWaiter(cfg.Tunnel.APIURL).Wait(waitCtx)
		if err != nil {
			return nil, fmt.Errorf("endpoint discovery failed: %w", err)
		}
		endpoint = resolved
		fmt.Printf("%s Tunnel ready: %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(endpoint))
	}
	if endpoint == "" {
		endpoint = os.Getenv(endpointEnvVar)
	}

	walletType := runWalletType
	if walletType == "" {
		walletType = cfg.Agent.WalletType.String()
	}
	genesisURL := runGenesisURL
	if genesisURL == "" {
		genesisURL = cfg.Agent.GenesisURL
	}

	basePort := types.ListenPort(runPort)
	if basePort == 0 && cfg.Agent.BasePort != config.DefaultConfig().Agent.BasePort {
		// A base_port changed from the stock default pins the agent there;
		// otherwise each role keeps its conventional port.
		basePort = cfg.Agent.BasePort
	}

	return scenario.NewRunner(scenario.RunnerConfig{
		Ident:       ident,
		BasePort:    basePort,
		Endpoint:    endpoint,
		AgentBinary: runAgentBinary,
		WalletType:  walletType,
		Seed:        runSeed,
		GenesisURL:  genesisURL,
		NoAuto:      runNoAuto || cfg.Agent.NoAuto,
		Revocation:  runRevocation,
	}, scenario.NewConsole(os.Stdin, os.Stdout))
}
