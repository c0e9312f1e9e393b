// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
	"vcdemo-cli/internal/webhook"
	"vcdemo-cli/pkg/types"
)

// Role idents of the demo scenarios.
const (
	IssuerIdent = "issuer"
	Tier0Ident  = "tier0"
	Tier2Ident  = "tier2"
)

// DefaultBasePort returns the conventional inbound port of a role. The
// three agents of a demo share a host, so their port triples are spaced
// apart.
func DefaultBasePort(ident string) (types.ListenPort, error) {
	switch ident {
	case IssuerIdent:
		return 8020, nil
	case Tier0Ident:
		return 8060, nil
	case Tier2Ident:
		return 8080, nil
	default:
		return 0, fmt.Errorf("unknown scenario %q", ident)
	}
}

type (
	// RunnerConfig describes one scenario run.
	RunnerConfig struct {
		// Ident selects the role: IssuerIdent, Tier0Ident, or Tier2Ident.
		Ident string
		// BasePort is the agent's inbound port; zero means the role's
		// conventional port.
		BasePort types.ListenPort
		// Endpoint is the public DIDComm endpoint (the tunnel URL).
		Endpoint string
		// AgentBinary overrides the ACA-Py executable.
		AgentBinary string

		WalletType string
		Seed       string
		GenesisURL string
		NoAuto     bool
		// Revocation enables the issuer's revocation menu entries.
		Revocation bool
	}

	// Runner wires one scenario controller to its agent process and
	// webhook server and drives the interactive loop.
	Runner struct {
		config      RunnerConfig
		controller  Controller
		process     *agent.AgentProcess
		server      *webhook.Server
		console     *Console
		logger      *log.Logger
		processOpts []agent.ProcessOption
	}

	// RunnerOption is a functional option for configuring a Runner.
	RunnerOption func(*Runner)
)

// WithRunnerLogger overrides the runner's logger.
func WithRunnerLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithProcessOptions forwards options to the agent process, for tests
// that inject a fake exec command.
func WithProcessOptions(opts ...agent.ProcessOption) RunnerOption {
	return func(r *Runner) {
		r.processOpts = append(r.processOpts, opts...)
	}
}

// NewRunner assembles a scenario run: agent process, role controller,
// and webhook server listening on the process's webhook port.
func NewRunner(cfg RunnerConfig, console *Console, opts ...RunnerOption) (*Runner, error) {
	if cfg.BasePort == 0 {
		port, err := DefaultBasePort(cfg.Ident)
		if err != nil {
			return nil, err
		}
		cfg.BasePort = port
	}

	r := &Runner{
		config:  cfg,
		console: console,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "scenario",
		}),
	}
	for _, opt := range opts {
		opt(r)
	}

	processOpts := r.processOpts
	if cfg.AgentBinary != "" {
		processOpts = append(processOpts, agent.WithBinary(cfg.AgentBinary))
	}
	process, err := agent.NewProcess(agent.ProcessConfig{
		Ident:      cfg.Ident,
		BasePort:   cfg.BasePort,
		Endpoint:   cfg.Endpoint,
		WalletType: cfg.WalletType,
		Seed:       cfg.Seed,
		GenesisURL: cfg.GenesisURL,
		NoAuto:     cfg.NoAuto,
	}, processOpts...)
	if err != nil {
		return nil, err
	}
	r.process = process

	controller, err := newController(cfg, process.Admin(), console, r.logger)
	if err != nil {
		return nil, err
	}
	r.controller = controller
	r.server = webhook.NewServer(process.Ports().Webhook, controller,
		webhook.WithServerLogger(r.logger))
	return r, nil
}

func newController(cfg RunnerConfig, admin *agent.AdminClient, console *Console, logger *log.Logger) (Controller, error) {
	switch cfg.Ident {
	case IssuerIdent:
		return NewIssuer(admin, console, logger, cfg.Revocation), nil
	case Tier0Ident:
		return NewTier0(admin, console, logger), nil
	case Tier2Ident:
		return NewTier2(admin, console, logger), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Ident)
	}
}

// Controller exposes the role controller, for attaching extra surfaces.
func (r *Runner) Controller() Controller {
	return r.controller
}

// Run starts the webhook server and agent, establishes the role's first
// connection, and drives the menu until the operator exits or the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	return r.RunWith(ctx, func(ctx context.Context) error {
		return r.console.RunMenu(ctx, r.controller.MenuOptions())
	})
}

// RunWith runs the scenario like Run but hands control to loop instead of
// the local menu once the connection is established. The console server
// uses this to drive menus over attached SSH sessions.
func (r *Runner) RunWith(ctx context.Context, loop func(context.Context) error) error {
	if err := r.server.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := r.server.Shutdown(context.Background()); err != nil {
			r.logger.Warn("webhook server shutdown failed", "err", err)
		}
	}()

	if err := r.process.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := r.process.Stop(context.Background()); err != nil {
			r.logger.Warn("agent stop failed", "err", err)
		}
	}()

	status, err := r.process.Admin().Status(ctx)
	if err != nil {
		return err
	}
	r.console.Printf("Agent %s ready (version %s)", status.Label, status.Version)

	if err := r.controller.Connect(ctx); err != nil {
		return err
	}
	return loop(ctx)
}
