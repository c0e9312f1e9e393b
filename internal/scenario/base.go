// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
	"vcdemo-cli/internal/webhook"
)

// Controller is one scenario role: a webhook handler for the protocol
// events plus the operator-facing menu.
type Controller interface {
	webhook.Handler

	// Ident is the short role name ("issuer", "tier0", "tier2").
	Ident() string
	// Connect establishes the role's first connection before the menu
	// starts: issuer and tier0 publish an invitation, tier2 receives one.
	Connect(ctx context.Context) error
	// MenuOptions returns the role's menu.
	MenuOptions() []MenuOption
}

// base carries the state and default protocol behavior shared by all
// roles. Connection events track the most recent active connection and
// release waiters; credential and proof events follow the holder/issuer
// automation of the demo.
type base struct {
	webhook.BaseHandler

	ident   string
	admin   *agent.AdminClient
	console *Console
	logger  *log.Logger

	mu               sync.Mutex
	lastConnectionID string
	connected        chan struct{}
	tracing          bool
}

func newBase(ident string, admin *agent.AdminClient, console *Console, logger *log.Logger) *base {
	if logger == nil {
		logger = log.Default()
	}
	return &base{
		ident:   ident,
		admin:   admin,
		console: console,
		logger:  logger.With("scenario", ident),
	}
}

func (b *base) Ident() string { return b.ident }

// expectConnection arms a fresh wait channel before an invitation is
// published or received.
func (b *base) expectConnection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = make(chan struct{})
}

func (b *base) awaitConnection(ctx context.Context) error {
	b.mu.Lock()
	ch := b.connected
	b.mu.Unlock()
	if ch == nil {
		return fmt.Errorf("no pending connection")
	}

	b.console.Printf("Waiting for connection...")
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// activeConnectionID is the connection the message and revocation commands
// target: the most recently activated one.
func (b *base) activeConnectionID() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastConnectionID == "" {
		return "", fmt.Errorf("no active connection yet")
	}
	return b.lastConnectionID, nil
}

func (b *base) HandleConnections(_ context.Context, event webhook.ConnectionEvent) error {
	b.logger.Info("connection update",
		"connection_id", event.ConnectionID, "state", event.State, "their_label", event.TheirLabel)

	if event.State != "active" && event.RFC23State != "completed" {
		return nil
	}

	b.mu.Lock()
	b.lastConnectionID = event.ConnectionID
	ch := b.connected
	b.connected = nil
	b.mu.Unlock()

	if ch != nil {
		close(ch)
	}
	return nil
}

// HandleIssueCredentialV2 automates both sides of the v2 exchange: as
// holder, answer an offer with a credential request (creating a did:key
// BLS DID for ld_proof offers); as issuer, issue on request-received.
func (b *base) HandleIssueCredentialV2(ctx context.Context, event webhook.CredentialEvent) error {
	b.logger.Info("credential exchange update", "cred_ex_id", event.CredExID, "state", event.State)

	switch event.State {
	case "offer-received":
		return b.respondToOffer(ctx, event)

	case "request-received":
		comment := fmt.Sprintf("Issuing credential, exchange %s", event.CredExID)
		return b.admin.IssueCredential(ctx, event.CredExID, comment)

	case "abandoned":
		b.console.Printf("Credential exchange abandoned: %s", event.ErrorMsg)
	}
	return nil
}

func (b *base) respondToOffer(ctx context.Context, event webhook.CredentialEvent) error {
	indy, ldProof := event.CredOfferFormat()
	switch {
	case ldProof:
		did, err := b.admin.CreateKeyDID(ctx, agent.KeyTypeBLS)
		if err != nil {
			return fmt.Errorf("failed to create holder DID: %w", err)
		}
		body := map[string]string{"holder_did": did.DID}
		return b.admin.SendCredentialRequestFor(ctx, event.CredExID, body)

	case indy:
		return b.admin.SendCredentialRequestFor(ctx, event.CredExID, nil)

	default:
		return fmt.Errorf("credential offer %s has no known format", event.CredExID)
	}
}

// HandlePresentProofV2 automates the prover and verifier sides: answer a
// proof request with a presentation built from matching wallet records,
// verify a received presentation.
func (b *base) HandlePresentProofV2(ctx context.Context, event webhook.PresentationEvent) error {
	b.logger.Info("presentation exchange update", "pres_ex_id", event.PresExID, "state", event.State)

	switch event.State {
	case "request-received":
		return b.sendPresentation(ctx, event)

	case "presentation-received":
		verification, err := b.admin.VerifyPresentation(ctx, event.PresExID)
		if err != nil {
			return err
		}
		b.console.Printf("Proof verified: %s", verification.Verified)
		return nil

	case "abandoned":
		b.console.Printf("Presentation exchange abandoned: %s", event.ErrorMsg)
	}
	return nil
}

func (b *base) HandleBasicMessage(_ context.Context, event webhook.MessageEvent) error {
	b.console.Printf("Received message: %s", event.Content)
	return nil
}

func (b *base) HandleRevocationNotification(_ context.Context, event webhook.RevocationEvent) error {
	b.console.Printf("Received revocation notification: %s", event.Comment)
	return nil
}

// exchangeTracing reports whether outgoing offers and proof requests ask
// the agent to trace the exchange.
func (b *base) exchangeTracing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tracing
}

// toggleTracing flips exchange tracing for subsequent credential offers
// and proof requests.
func (b *base) toggleTracing(_ context.Context) error {
	b.mu.Lock()
	b.tracing = !b.tracing
	on := b.tracing
	b.mu.Unlock()

	state := "OFF"
	if on {
		state = "ON"
	}
	b.console.Printf("Credential/Proof Exchange Tracing is %s", state)
	return nil
}

// createInvitation publishes a new connection invitation and waits for a
// peer to accept it.
func (b *base) createInvitation(ctx context.Context) error {
	b.expectConnection()
	inv, err := b.admin.CreateInvitation(ctx, true)
	if err != nil {
		return err
	}
	b.console.Printf("Use the following JSON or URL to accept the invite from another demo agent.")
	b.console.Printf("Invitation data: %s", inv.Invitation)
	b.console.Printf("Invitation URL: %s", inv.InvitationURL)
	return b.awaitConnection(ctx)
}

// inputInvitation prompts for pasted invitation details, receives the
// invitation, and waits for the connection to activate.
func (b *base) inputInvitation(ctx context.Context) error {
	for {
		details, err := b.console.Prompt("Invite details: ")
		if err != nil {
			return err
		}
		invitation, err := ParseInvitation(details)
		if err != nil {
			b.console.Printf("Invalid invitation: %v", err)
			continue
		}

		b.expectConnection()
		if _, err := b.admin.ReceiveInvitation(ctx, invitation, true); err != nil {
			return err
		}
		return b.awaitConnection(ctx)
	}
}

func (b *base) sendMessagePrompt(ctx context.Context) error {
	msg, err := b.console.Prompt("Enter message: ")
	if err != nil {
		return err
	}
	if msg == "" {
		return nil
	}
	connectionID, err := b.activeConnectionID()
	if err != nil {
		return err
	}
	return b.admin.SendMessage(ctx, connectionID, msg)
}

func (b *base) listConnections(ctx context.Context) error {
	conns, err := b.admin.ListConnections(ctx)
	if err != nil {
		return err
	}
	b.console.PrintJSON("Connections", conns)
	return nil
}

func (b *base) listCredentials(ctx context.Context) error {
	creds, err := b.admin.ListW3CCredentials(ctx)
	if err != nil {
		return err
	}
	b.console.PrintJSON("Credentials", creds)
	return nil
}

func (b *base) listPresentations(ctx context.Context) error {
	presentations, err := b.admin.ListPresentations(ctx)
	if err != nil {
		return err
	}
	b.console.PrintJSON("Presentations", presentations)
	return nil
}

// listOptions are the menu entries every role shares.
func (b *base) listOptions() []MenuOption {
	return []MenuOption{
		{Key: "7", Label: "List connections", Run: b.listConnections},
		{Key: "8", Label: "List credentials", Run: b.listCredentials},
		{Key: "9", Label: "List presentations", Run: b.listPresentations},
	}
}
