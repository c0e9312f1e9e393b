// SPDX-License-Identifier: MPL-2.0

package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/issue"
	"vcdemo-cli/pkg/types"
)

const (
	// DefaultBinary is the ACA-Py executable name.
	DefaultBinary = "aca-py"

	// DefaultReadyPollInterval is the initial delay between /status probes.
	DefaultReadyPollInterval = 500 * time.Millisecond

	// DefaultStopTimeout bounds the graceful-termination wait before the
	// process is killed.
	DefaultStopTimeout = 10 * time.Second
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// Tests inject a mock; production uses exec.CommandContext.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ProcessConfig describes one demo agent process.
	ProcessConfig struct {
		// Ident is the agent identity, e.g. "issuer".
		Ident string
		// Label is the connection label advertised to peers; defaults
		// to "<ident>.agent".
		Label string
		// BasePort is the inbound transport port; admin and webhook
		// ports are derived from it.
		BasePort types.ListenPort
		// Endpoint is the public endpoint (the tunnel URL).
		Endpoint string
		// WalletType selects the wallet backend, e.g. "askar".
		WalletType string
		// WalletKey protects the wallet; defaults to the ident.
		WalletKey string
		// Seed is the DID seed; empty means no seed.
		Seed string
		// GenesisURL points at the ledger genesis transactions.
		GenesisURL string
		// NoAuto disables the auto-respond flags; the controller then
		// drives every exchange step through webhooks.
		NoAuto bool
		// ExtraArgs are appended verbatim to the command line.
		ExtraArgs []string

		Stdout io.Writer
		Stderr io.Writer
	}

	// AgentProcess manages one running ACA-Py instance.
	AgentProcess struct {
		config      ProcessConfig
		ports       Ports
		binary      string
		execCommand ExecCommandFunc
		logger      *log.Logger

		cmd  *exec.Cmd
		done chan error
	}

	// ProcessOption is a functional option for configuring an AgentProcess.
	ProcessOption func(*AgentProcess)
)

// NewProcess creates an AgentProcess for the given configuration.
func NewProcess(cfg ProcessConfig, opts ...ProcessOption) (*AgentProcess, error) {
	if cfg.Ident == "" {
		return nil, fmt.Errorf("agent ident is required")
	}
	ports, err := PortsFromBase(cfg.BasePort)
	if err != nil {
		return nil, fmt.Errorf("invalid base port for agent %s: %w", cfg.Ident, err)
	}
	if cfg.Label == "" {
		cfg.Label = cfg.Ident + ".agent"
	}
	if cfg.WalletKey == "" {
		cfg.WalletKey = cfg.Ident
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stderr
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	p := &AgentProcess{
		config:      cfg,
		ports:       ports,
		binary:      DefaultBinary,
		execCommand: exec.CommandContext,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: cfg.Ident,
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WithBinary overrides the ACA-Py executable path.
func WithBinary(path string) ProcessOption {
	return func(p *AgentProcess) {
		p.binary = path
	}
}

// WithExecCommand overrides command creation (used by tests).
func WithExecCommand(fn ExecCommandFunc) ProcessOption {
	return func(p *AgentProcess) {
		p.execCommand = fn
	}
}

// WithProcessLogger sets the logger.
func WithProcessLogger(logger *log.Logger) ProcessOption {
	return func(p *AgentProcess) {
		p.logger = logger
	}
}

// Ports returns the agent's derived port triple.
func (p *AgentProcess) Ports() Ports {
	return p.ports
}

// AdminURL returns the base URL of the agent's admin API.
func (p *AgentProcess) AdminURL() string {
	return fmt.Sprintf("http://localhost:%s", p.ports.Admin)
}

// WebhookURL returns the webhook target the agent posts events to.
func (p *AgentProcess) WebhookURL() string {
	return fmt.Sprintf("http://localhost:%s/webhooks", p.ports.Webhook)
}

// Admin returns a client for the agent's admin API.
func (p *AgentProcess) Admin() *AdminClient {
	return NewAdminClient(p.AdminURL())
}

// BuildArgs constructs the ACA-Py command line.
func (p *AgentProcess) BuildArgs() []string {
	args := []string{
		"start",
		"--label", p.config.Label,
		"--inbound-transport", "http", "0.0.0.0", p.ports.Inbound.String(),
		"--outbound-transport", "http",
		"--admin", "0.0.0.0", p.ports.Admin.String(),
		"--admin-insecure-mode",
		"--webhook-url", p.WebhookURL(),
		"--auto-provision",
	}

	if p.config.Endpoint != "" {
		args = append(args, "--endpoint", p.config.Endpoint)
	}
	if p.config.WalletType != "" {
		args = append(args,
			"--wallet-type", p.config.WalletType,
			"--wallet-name", p.config.Ident,
			"--wallet-key", p.config.WalletKey,
		)
	}
	if p.config.Seed != "" {
		args = append(args, "--seed", p.config.Seed)
	}
	if p.config.GenesisURL != "" {
		args = append(args, "--genesis-url", p.config.GenesisURL)
	}
	if !p.config.NoAuto {
		args = append(args,
			"--auto-accept-invites",
			"--auto-accept-requests",
			"--auto-store-credential",
		)
	}

	return append(args, p.config.ExtraArgs...)
}

// Start launches the agent process and waits until its admin API answers
// /status or ctx expires.
func (p *AgentProcess) Start(ctx context.Context) error {
	if p.cmd != nil {
		return fmt.Errorf("agent %s already started", p.config.Ident)
	}

	cmd := p.execCommand(ctx, p.binary, p.BuildArgs()...)
	cmd.Stdout = p.config.Stdout
	cmd.Stderr = p.config.Stderr

	if err := cmd.Start(); err != nil {
		return p.startError(err)
	}
	p.cmd = cmd
	p.done = make(chan error, 1)
	go func() { p.done <- cmd.Wait() }()

	p.logger.Info("agent starting",
		"inbound", p.ports.Inbound, "admin", p.ports.Admin, "webhook", p.ports.Webhook)

	if err := p.waitReady(ctx); err != nil {
		_ = p.Stop(context.Background())
		return err
	}

	p.logger.Info("agent ready", "admin", p.AdminURL())
	return nil
}

// waitReady polls the admin /status endpoint with capped backoff.
func (p *AgentProcess) waitReady(ctx context.Context) error {
	admin := p.Admin()
	interval := DefaultReadyPollInterval

	var lastErr error
	for {
		// A process that already exited will never become ready.
		select {
		case err := <-p.done:
			return p.startError(fmt.Errorf("agent process exited during startup: %w", errOrExited(err)))
		default:
		}

		if _, err := admin.Status(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return p.startError(fmt.Errorf("admin API never became ready: %w", lastErr))
		case <-time.After(interval):
		}

		interval *= 2
		if interval > 5*time.Second {
			interval = 5 * time.Second
		}
	}
}

// Stop terminates the agent gracefully, killing it if it ignores SIGTERM.
func (p *AgentProcess) Stop(ctx context.Context) error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone
		return nil
	}

	timeout := time.NewTimer(DefaultStopTimeout)
	defer timeout.Stop()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
	case <-timeout.C:
	}

	p.logger.Warn("agent ignored SIGTERM, killing", "ident", p.config.Ident)
	_ = p.cmd.Process.Kill()
	<-p.done
	return nil
}

// errOrExited normalizes a nil Wait error (clean exit) for wrapping.
func errOrExited(err error) error {
	if err == nil {
		return errors.New("process exited with status 0")
	}
	return err
}

func (p *AgentProcess) startError(cause error) error {
	return issue.NewErrorContext().
		WithOperation("start demo agent").
		WithResource(p.config.Ident).
		WithSuggestion("Check that the agent framework is installed and on PATH").
		WithSuggestion(fmt.Sprintf("Check that ports %s-%s are free", p.ports.Inbound, p.ports.Webhook)).
		Wrap(cause).
		BuildError()
}
