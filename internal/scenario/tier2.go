// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
)

// Tier2 holds a part-level credential. It joins the demo by receiving an
// invitation and can request its own credential from the issuer instead
// of waiting for an offer.
type Tier2 struct {
	*base
}

func NewTier2(admin *agent.AdminClient, console *Console, logger *log.Logger) *Tier2 {
	return &Tier2{base: newBase(Tier2Ident, admin, console, logger)}
}

func (t *Tier2) Connect(ctx context.Context) error {
	t.console.Printf("Input the issuer invitation details")
	return t.inputInvitation(ctx)
}

// MenuOptions lists the holder menu. The DID listing sits between the
// connection and credential listings.
func (t *Tier2) MenuOptions() []MenuOption {
	return []MenuOption{
		{Key: "1", Label: "Send Credential Request", Run: t.requestCredential},
		{Key: "3", Label: "Send Message", Run: t.sendMessagePrompt},
		{Key: "4", Label: "Input New Invitation", Run: t.inputInvitation},
		{Key: "7", Label: "List connections", Run: t.listConnections},
		{Key: "7a", Label: "List DIDs", Run: t.listDIDs},
		{Key: "8", Label: "List credentials", Run: t.listCredentials},
		{Key: "9", Label: "List presentations", Run: t.listPresentations},
	}
}

// requestCredential starts the exchange from the holder side: tier2 asks
// the issuer for its own part credential, naming a local wallet DID as
// the holder.
func (t *Tier2) requestCredential(ctx context.Context) error {
	conn, err := t.admin.ConnectionByLabel(ctx, "issuer.agent")
	if err != nil {
		return err
	}
	issuerDID, err := t.console.Prompt("Issuer DID: ")
	if err != nil {
		return err
	}

	holderDID, err := t.holderDID(ctx)
	if err != nil {
		return err
	}

	t.console.Printf("Requesting part credential from the issuer")
	_, err = t.admin.SendCredentialRequest(ctx, TierTwoRequest(issuerDID, holderDID, conn.ConnectionID))
	return err
}

func (t *Tier2) holderDID(ctx context.Context) (string, error) {
	dids, err := t.admin.WalletDIDs(ctx)
	if err != nil {
		return "", err
	}
	if len(dids) == 0 {
		return "", fmt.Errorf("tier2 wallet has no DID")
	}
	return dids[0].DID, nil
}

func (t *Tier2) listDIDs(ctx context.Context) error {
	dids, err := t.admin.WalletDIDs(ctx)
	if err != nil {
		return err
	}
	t.console.PrintJSON("DIDs", dids)
	return nil
}
