// SPDX-License-Identifier: MPL-2.0

package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"vcdemo-cli/pkg/types"
)

type (
	// Server receives agent webhooks and dispatches them to a Handler.
	Server struct {
		host    string
		port    types.ListenPort
		handler Handler
		logger  *log.Logger

		mu       sync.Mutex
		listener net.Listener
		srv      *http.Server
		// last seen state per topic+exchange, for dedup
		seenStates map[string]string
	}

	// ServerOption is a functional option for configuring a Server.
	ServerOption func(*Server)
)

// NewServer creates a webhook server for the given port. Port 0 picks a free
// one; the effective address is available from Address after Start.
func NewServer(port types.ListenPort, handler Handler, opts ...ServerOption) *Server {
	s := &Server{
		host:       "0.0.0.0",
		port:       port,
		handler:    handler,
		seenStates: make(map[string]string),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "webhook",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithHost sets the listen host.
func WithHost(host string) ServerOption {
	return func(s *Server) {
		s.host = host
	}
}

// WithServerLogger sets the logger.
func WithServerLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Start begins listening. It returns once the listener is bound; the serve
// loop runs until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return fmt.Errorf("webhook server already started")
	}

	addr := net.JoinHostPort(s.host, s.port.String())
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhooks/topic/{topic}", s.handleTopic)
	mux.HandleFunc("POST /webhooks/topic/{topic}/", s.handleTopic)

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if serveErr := s.srv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("webhook server failed", "err", serveErr)
		}
	}()

	s.logger.Info("webhook server listening", "address", listener.Addr().String())
	return nil
}

// Shutdown stops the server, waiting for in-flight dispatches.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Address returns the bound listen address (host:port).
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the webhook base URL agents should post to.
func (s *Server) URL() string {
	addr := s.Address()
	if addr == "" {
		return ""
	}
	return "http://" + addr + "/webhooks"
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSuffix(r.PathValue("topic"), "/")

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	if err := s.dispatch(r.Context(), topic, payload); err != nil {
		// The agent retries on errors; report success and log instead.
		s.logger.Error("webhook handler failed", "topic", topic, "err", err)
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) dispatch(ctx context.Context, topic string, payload []byte) error {
	switch topic {
	case TopicConnections:
		var event ConnectionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		return s.handler.HandleConnections(ctx, event)

	case TopicIssueCredentialV2:
		var event CredentialEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		if s.repeatedState(topic, event.CredExID, event.State) {
			return nil
		}
		return s.handler.HandleIssueCredentialV2(ctx, event)

	case TopicIssueCredentialV2Indy:
		var event CredentialIndyEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		return s.handler.HandleIssueCredentialV2Indy(ctx, event)

	case TopicIssueCredentialV2LDProof:
		return s.handler.HandleIssueCredentialV2LDProof(ctx, payload)

	case TopicPresentProofV2:
		var event PresentationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		if s.repeatedState(topic, event.PresExID, event.State) {
			return nil
		}
		return s.handler.HandlePresentProofV2(ctx, event)

	case TopicBasicMessages:
		var event MessageEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		return s.handler.HandleBasicMessage(ctx, event)

	case TopicOutOfBand:
		return s.handler.HandleOutOfBand(ctx, payload)

	case TopicEndorseTransaction:
		return s.handler.HandleEndorseTransaction(ctx, payload)

	case TopicRevocationNotification:
		var event RevocationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("invalid %s payload: %w", topic, err)
		}
		return s.handler.HandleRevocationNotification(ctx, event)

	case TopicPing, TopicIssuerCredentialRevocation:
		// Acknowledged, nothing to drive
		return nil

	default:
		s.logger.Debug("ignoring unknown webhook topic", "topic", topic)
		return nil
	}
}

// repeatedState records the exchange state and reports whether it repeats
// the previous one. The agent re-posts states while waiting on the other
// side; acting on repeats would double-issue protocol steps.
func (s *Server) repeatedState(topic, exchangeID, state string) bool {
	if exchangeID == "" {
		return false
	}

	key := topic + ":" + exchangeID

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seenStates[key] == state {
		return true
	}
	s.seenStates[key] = state
	return false
}
