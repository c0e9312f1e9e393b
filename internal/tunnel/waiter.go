// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/issue"
)

const (
	// DefaultAPIURL is the ngrok local agent API when running alongside the
	// standard demo compose setup.
	DefaultAPIURL = "http://localhost:4040"

	// DefaultPollInterval is the initial delay between tunnel probes.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultMaxInterval caps the exponential backoff between probes.
	DefaultMaxInterval = 5 * time.Second
)

// ErrNoHTTPSTunnel indicates the ngrok API answered but listed no public
// https tunnel yet.
var ErrNoHTTPSTunnel = errors.New("no public https tunnel available")

type (
	// Tunnel is one entry of the ngrok local API tunnel list.
	Tunnel struct {
		Name      string `json:"name"`
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	}

	tunnelList struct {
		Tunnels []Tunnel `json:"tunnels"`
	}

	// Waiter polls the ngrok local agent API until a public https tunnel
	// is available.
	Waiter struct {
		apiURL       string
		client       *http.Client
		pollInterval time.Duration
		maxInterval  time.Duration
		logger       *log.Logger
	}

	// Option is a functional option for configuring a Waiter.
	Option func(*Waiter)
)

// NewWaiter creates a Waiter polling the given ngrok local API base URL.
// An empty apiURL falls back to DefaultAPIURL.
func NewWaiter(apiURL string, opts ...Option) *Waiter {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	w := &Waiter{
		apiURL:       strings.TrimRight(apiURL, "/"),
		client:       &http.Client{Timeout: 10 * time.Second},
		pollInterval: DefaultPollInterval,
		maxInterval:  DefaultMaxInterval,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "tunnel",
		}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WithHTTPClient sets the HTTP client used for API probes.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Waiter) {
		w.client = client
	}
}

// WithPollInterval sets the initial and maximum delay between probes.
func WithPollInterval(initial, maximum time.Duration) Option {
	return func(w *Waiter) {
		w.pollInterval = initial
		w.maxInterval = maximum
	}
}

// WithLogger sets the logger used for probe progress.
func WithLogger(logger *log.Logger) Option {
	return func(w *Waiter) {
		w.logger = logger
	}
}

// Endpoint performs a single probe of the ngrok API and returns the public
// https URL if one is available. It returns ErrNoHTTPSTunnel (wrapped) when
// the API answers but no https tunnel is established yet.
func (w *Waiter) Endpoint(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.apiURL+"/api/tunnels", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create tunnel API request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query tunnel API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tunnel API returned status %s", resp.Status)
	}

	var list tunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("failed to decode tunnel list: %w", err)
	}

	if url, ok := selectHTTPSTunnel(list.Tunnels); ok {
		return url, nil
	}
	return "", fmt.Errorf("%w (saw %d tunnels)", ErrNoHTTPSTunnel, len(list.Tunnels))
}

// Wait polls until a public https tunnel is available or ctx expires.
// Backoff between probes is exponential, capped at the configured maximum.
func (w *Waiter) Wait(ctx context.Context) (string, error) {
	interval := w.pollInterval
	attempt := 0

	var lastErr error
	for {
		attempt++

		url, err := w.Endpoint(ctx)
		if err == nil {
			w.logger.Info("tunnel ready", "endpoint", url, "attempts", attempt)
			return url, nil
		}
		lastErr = err
		w.logger.Debug("tunnel not ready", "attempt", attempt, "err", err)

		select {
		case <-ctx.Done():
			return "", w.notReadyError(attempt, lastErr)
		case <-time.After(interval):
		}

		interval *= 2
		if interval > w.maxInterval {
			interval = w.maxInterval
		}
	}
}

// notReadyError wraps the final probe failure with actionable context.
func (w *Waiter) notReadyError(attempts int, cause error) error {
	return issue.NewErrorContext().
		WithOperation("wait for tunnel endpoint").
		WithResource(w.apiURL + "/api/tunnels").
		WithSuggestion("Check that the ngrok sidecar is running and reachable").
		WithSuggestion("Increase the wait timeout with 'vcdemo wait --timeout'").
		Wrap(fmt.Errorf("no public https tunnel after %d attempts: %w", attempts, cause)).
		BuildError()
}

// selectHTTPSTunnel picks the public https tunnel from the API listing.
// ngrok reports the protocol per tunnel; the URL prefix check covers older
// agents that list a single tunnel with both schemes.
func selectHTTPSTunnel(tunnels []Tunnel) (string, bool) {
	for _, t := range tunnels {
		if t.Proto == "https" && t.PublicURL != "" {
			return t.PublicURL, true
		}
	}
	for _, t := range tunnels {
		if strings.HasPrefix(t.PublicURL, "https://") {
			return t.PublicURL, true
		}
	}
	return "", false
}
