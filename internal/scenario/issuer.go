// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
)

// Issuer signs the product credentials for the downstream tiers. It
// publishes the initial invitation and issues on operator command;
// incoming credential requests are answered automatically by the shared
// exchange handler.
type Issuer struct {
	*base
	revocation bool
}

func NewIssuer(admin *agent.AdminClient, console *Console, logger *log.Logger, revocation bool) *Issuer {
	return &Issuer{
		base:       newBase(IssuerIdent, admin, console, logger),
		revocation: revocation,
	}
}

func (i *Issuer) Connect(ctx context.Context) error {
	return i.createInvitation(ctx)
}

func (i *Issuer) MenuOptions() []MenuOption {
	options := []MenuOption{
		{Key: "1a", Label: "Issue Credential tier1", Run: i.issueTierOne},
		{Key: "1b", Label: "Issue Credential tier2", Run: i.issueTierTwo},
		{Key: "3", Label: "Send Message", Run: i.sendMessagePrompt},
		{Key: "4", Label: "Create New Invitation", Run: i.createInvitation},
	}
	if i.revocation {
		options = append(options,
			MenuOption{Key: "5", Label: "Revoke Credential", Run: i.revokeCredential},
			MenuOption{Key: "6", Label: "Publish Revocations", Run: i.publishRevocations},
		)
	}
	options = append(options, i.listOptions()...)
	return append(options, MenuOption{
		Key: "T", Label: "Toggle tracing on credential/proof exchange", Run: i.toggleTracing,
	})
}

func (i *Issuer) issueTierOne(ctx context.Context) error {
	return i.sendOffer(ctx, "tier1.agent", TierOneOffer)
}

func (i *Issuer) issueTierTwo(ctx context.Context) error {
	return i.sendOffer(ctx, "tier2.agent", TierTwoOffer)
}

func (i *Issuer) sendOffer(ctx context.Context, label string, build func(issuerDID, connectionID string, trace bool) map[string]any) error {
	conn, err := i.admin.ConnectionByLabel(ctx, label)
	if err != nil {
		return err
	}
	did, err := i.issuerDID(ctx)
	if err != nil {
		return err
	}

	i.console.Printf("Issuing credential offer to %s", label)
	if _, err := i.admin.SendCredentialOffer(ctx, build(did, conn.ConnectionID, i.exchangeTracing())); err != nil {
		return err
	}
	return nil
}

// issuerDID resolves the DID the issued credentials name as issuer: the
// wallet's public DID, falling back to the first local DID.
func (i *Issuer) issuerDID(ctx context.Context) (string, error) {
	if did, err := i.admin.PublicDID(ctx); err == nil && did.DID != "" {
		return did.DID, nil
	}
	dids, err := i.admin.WalletDIDs(ctx)
	if err != nil {
		return "", err
	}
	if len(dids) == 0 {
		return "", fmt.Errorf("issuer wallet has no DID")
	}
	return dids[0].DID, nil
}

func (i *Issuer) revokeCredential(ctx context.Context) error {
	revRegID, err := i.console.Prompt("Enter revocation registry ID: ")
	if err != nil {
		return err
	}
	credRevID, err := i.console.Prompt("Enter credential revocation ID: ")
	if err != nil {
		return err
	}
	answer, err := i.console.Prompt("Publish now? [Y/N]: ")
	if err != nil {
		return err
	}
	publish := answer == "y" || answer == "Y"

	connectionID, err := i.activeConnectionID()
	if err != nil {
		return err
	}
	return i.admin.RevokeCredential(ctx, revRegID, credRevID, connectionID,
		"Revocation reason goes here ...", publish)
}

func (i *Issuer) publishRevocations(ctx context.Context) error {
	published, err := i.admin.PublishRevocations(ctx)
	if err != nil {
		return err
	}
	i.console.Printf("Published revocations for %d revocation registries", len(published))
	for registry := range published {
		i.console.Printf("  %s", registry)
	}
	return nil
}
