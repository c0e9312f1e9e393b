// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/ssh"
)

// tokenCleanupInterval is how often expired tokens are swept.
const tokenCleanupInterval = time.Minute

type (
	// Token represents a one-time console session token.
	Token struct {
		Value TokenValue
		// Scenario identifies which scenario run the token attaches to.
		Scenario  string
		ExpiresAt time.Time
	}

	// ConnectionInfo holds everything an operator needs to connect.
	ConnectionInfo struct {
		Host      string
		Port      int
		Token     TokenValue
		User      string
		ExpiresAt time.Time
	}
)

// GenerateToken creates a new session token for the given scenario.
// The token expires after the configured TTL.
func (s *Server) GenerateToken(scenario string) (*Token, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &Token{
		Value:     TokenValue(hex.EncodeToString(buf)),
		Scenario:  scenario,
		ExpiresAt: s.clock.Now().Add(s.cfg.TokenTTL),
	}

	s.tokenMu.Lock()
	s.tokens[token.Value] = token
	s.tokenMu.Unlock()

	return token, nil
}

// ValidateToken checks whether the given token value is known and unexpired,
// returning the token when valid.
func (s *Server) ValidateToken(value TokenValue) (*Token, bool) {
	if err := value.Validate(); err != nil {
		return nil, false
	}

	s.tokenMu.RLock()
	defer s.tokenMu.RUnlock()

	token, ok := s.tokens[value]
	if !ok {
		return nil, false
	}
	if !s.clock.Now().Before(token.ExpiresAt) {
		return nil, false
	}
	return token, true
}

// RevokeToken removes a token, ending its validity immediately.
func (s *Server) RevokeToken(value TokenValue) {
	s.tokenMu.Lock()
	delete(s.tokens, value)
	s.tokenMu.Unlock()
}

// RevokeTokensForScenario removes every token issued for the given scenario.
func (s *Server) RevokeTokensForScenario(scenario string) {
	s.tokenMu.Lock()
	for value, token := range s.tokens {
		if token.Scenario == scenario {
			delete(s.tokens, value)
		}
	}
	s.tokenMu.Unlock()
}

// GetConnectionInfo generates a fresh token and returns the details an
// operator needs to connect to the console. The server must be running.
func (s *Server) GetConnectionInfo(scenario string) (*ConnectionInfo, error) {
	if !s.IsRunning() {
		return nil, fmt.Errorf("console server is not running (state %s)", s.State())
	}

	token, err := s.GenerateToken(scenario)
	if err != nil {
		return nil, err
	}

	return &ConnectionInfo{
		Host:      s.cfg.Host,
		Port:      s.Port(),
		Token:     token.Value,
		User:      "vcdemo",
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// passwordHandler authenticates sessions by token value.
func (s *Server) passwordHandler(sctx ssh.Context, password string) bool {
	candidate := TokenValue(password)
	token, ok := s.ValidateToken(candidate)
	if !ok {
		s.logger.Warn("rejected console login", "user", sctx.User(), "remote", sctx.RemoteAddr())
		return false
	}

	if subtle.ConstantTimeCompare([]byte(token.Value), []byte(candidate)) != 1 {
		return false
	}

	sctx.SetValue(scenarioContextKey, token.Scenario)
	s.logger.Info("console login", "user", sctx.User(), "scenario", token.Scenario)
	return true
}

// publicKeyHandler rejects public key auth; tokens are the only credential.
func (s *Server) publicKeyHandler(_ ssh.Context, _ ssh.PublicKey) bool {
	return false
}

// cleanupExpiredTokens periodically removes expired tokens until shutdown.
func (s *Server) cleanupExpiredTokens() {
	defer s.wg.Done()

	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			now := s.clock.Now()
			s.tokenMu.Lock()
			for value, token := range s.tokens {
				if now.After(token.ExpiresAt) {
					delete(s.tokens, value)
				}
			}
			s.tokenMu.Unlock()
		}
	}
}
