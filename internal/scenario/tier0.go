// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
	"vcdemo-cli/internal/webhook"
)

// Tier0 verifies the supply chain. It requests a proof of the final
// product from tier1 and, when the presentation arrives, walks its
// previousTiers list to request proofs of each upstream part from the
// holder that supplied it.
type Tier0 struct {
	*base
}

func NewTier0(admin *agent.AdminClient, console *Console, logger *log.Logger) *Tier0 {
	return &Tier0{base: newBase(Tier0Ident, admin, console, logger)}
}

func (t *Tier0) Connect(ctx context.Context) error {
	return t.createInvitation(ctx)
}

func (t *Tier0) MenuOptions() []MenuOption {
	options := []MenuOption{
		{Key: "2", Label: "Send Proof Request (tier1)", Run: t.requestTierOneProof},
		{Key: "2a", Label: "Send Proof Request (tier2)", Run: t.requestTierTwoProof},
		{Key: "3", Label: "Send Message", Run: t.sendMessagePrompt},
		{Key: "4", Label: "Input New Invitation", Run: t.inputInvitation},
		{Key: "4a", Label: "Create New Invitation", Run: t.createInvitation},
	}
	return append(options, t.listOptions()...)
}

// HandlePresentProofV2 extends the shared verification with the chain
// walk: each previous tier named in the received presentation triggers a
// follow-up proof request to its holder.
func (t *Tier0) HandlePresentProofV2(ctx context.Context, event webhook.PresentationEvent) error {
	if err := t.base.HandlePresentProofV2(ctx, event); err != nil {
		return err
	}
	if event.State != "presentation-received" {
		return nil
	}
	return t.requestPreviousTierProofs(ctx, event)
}

func (t *Tier0) requestTierOneProof(ctx context.Context) error {
	conn, err := t.admin.ConnectionByLabel(ctx, "tier1.agent")
	if err != nil {
		return err
	}
	t.console.Printf("Requesting proof of the final product from tier1")
	_, err = t.admin.SendProofRequest(ctx, TierOneProofRequest(conn.ConnectionID, t.exchangeTracing()))
	return err
}

func (t *Tier0) requestTierTwoProof(ctx context.Context) error {
	conn, err := t.admin.ConnectionByLabel(ctx, "tier2.agent")
	if err != nil {
		return err
	}
	t.console.Printf("Requesting proof of part %s from tier2", TierTwoProductID)
	_, err = t.admin.SendProofRequest(ctx, ProofRequestByID(conn.ConnectionID, TierTwoProductID, t.exchangeTracing()))
	return err
}

type previousTier struct {
	Item struct {
		ID     string `json:"id"`
		Holder struct {
			Name string `json:"name"`
		} `json:"holder"`
	} `json:"item"`
}

// previousTiersOf extracts the previousTiers item list from the first
// verifiable credential of a received DIF presentation.
func previousTiersOf(byFormat json.RawMessage) ([]previousTier, error) {
	var presentation struct {
		Pres struct {
			Dif struct {
				VerifiableCredential []struct {
					CredentialSubject struct {
						PreviousTiers struct {
							ItemListElement []previousTier `json:"itemListElement"`
						} `json:"previousTiers"`
					} `json:"credentialSubject"`
				} `json:"verifiableCredential"`
			} `json:"dif"`
		} `json:"pres"`
	}
	if err := json.Unmarshal(byFormat, &presentation); err != nil {
		return nil, fmt.Errorf("failed to decode presentation: %w", err)
	}
	if len(presentation.Pres.Dif.VerifiableCredential) == 0 {
		return nil, nil
	}
	return presentation.Pres.Dif.VerifiableCredential[0].CredentialSubject.PreviousTiers.ItemListElement, nil
}

func (t *Tier0) requestPreviousTierProofs(ctx context.Context, event webhook.PresentationEvent) error {
	tiers, err := previousTiersOf(event.ByFormat)
	if err != nil {
		return err
	}

	for _, tier := range tiers {
		productID := tier.Item.ID
		holderName := tier.Item.Holder.Name
		if productID == "" || holderName == "" {
			continue
		}
		t.console.Printf("Previous tier product %s held by %s", productID, holderName)

		conn, err := t.admin.ConnectionByLabel(ctx, holderName+".agent")
		if err != nil {
			t.logger.Warn("no connection for previous tier holder", "holder", holderName, "err", err)
			continue
		}
		if _, err := t.admin.SendProofRequest(ctx, ProofRequestByID(conn.ConnectionID, productID, t.exchangeTracing())); err != nil {
			t.logger.Warn("failed to request previous tier proof", "product", productID, "err", err)
		}
	}
	return nil
}
