// SPDX-License-Identifier: MPL-2.0

package scenario

// SigTypeBLS is the proof type requested for JSON-LD credentials so the
// holder can derive selective-disclosure presentations.
const SigTypeBLS = "BbsBlsSignature2020"

// Product identifiers used across the demo chain. The tier1 product is
// assembled from two tier2 parts.
const (
	TierOneProductID   = "https://credential.example.com/product/1"
	TierTwoProductID   = "https://credential.example.com/product/2"
	TierThreeProductID = "https://credential.example.com/product/3"
)

func credentialContexts() []string {
	return []string{
		"https://www.w3.org/2018/credentials/v1",
		"https://w3id.org/citizenship/v1",
		"https://schema.org/docs/jsonldcontext.json",
		"https://w3id.org/security/bbs/v1",
	}
}

func credentialTypes() []string {
	return []string{"VerifiableCredential", "PermanentResident"}
}

func ldProofFilter(credential map[string]any) map[string]any {
	return map[string]any{
		"ld_proof": map[string]any{
			"credential": credential,
			"options":    map[string]any{"proofType": SigTypeBLS},
		},
	}
}

func productCredential(issuerDID, productID string, subject map[string]any) map[string]any {
	return map[string]any{
		"@context":          credentialContexts(),
		"type":              credentialTypes(),
		"id":                productID,
		"issuer":            issuerDID,
		"issuanceDate":      "2020-01-01T12:00:00Z",
		"credentialSubject": subject,
	}
}

// TierOneOffer builds the credential offer the issuer sends to tier1: the
// final product with its CO2 footprint and the two upstream tier2 parts
// recorded as a previousTiers item list.
func TierOneOffer(issuerDID, connectionID string, trace bool) map[string]any {
	subject := map[string]any{
		"type":         []string{"Product"},
		"serialNumber": "111",
		"co2":          1000,
		"previousTiers": map[string]any{
			"@type": "ItemList",
			"itemListElement": []any{
				previousTierItem(1, TierTwoProductID, "Product2", "https://credential.example.com/holder/2", "tier2"),
				previousTierItem(2, TierThreeProductID, "Product2", "https://credential.example.com/holder/3", "tier2"),
			},
		},
	}
	return map[string]any{
		"connection_id": connectionID,
		"filter":        ldProofFilter(productCredential(issuerDID, TierOneProductID, subject)),
		"trace":         trace,
	}
}

// TierTwoOffer builds the credential offer the issuer sends to tier2: a
// part-level product with no upstream tiers.
func TierTwoOffer(issuerDID, connectionID string, trace bool) map[string]any {
	return map[string]any{
		"connection_id": connectionID,
		"filter":        ldProofFilter(productCredential(issuerDID, TierTwoProductID, tierTwoSubject())),
		"trace":         trace,
	}
}

// TierTwoRequest builds the holder-initiated credential request tier2 sends
// to the issuer. The holder DID is carried in did:sov form.
func TierTwoRequest(issuerDID, holderDID, connectionID string) map[string]any {
	return map[string]any{
		"connection_id": connectionID,
		"holder_did":    "did:sov:" + holderDID,
		"filter":        ldProofFilter(productCredential(issuerDID, TierTwoProductID, tierTwoSubject())),
	}
}

func tierTwoSubject() map[string]any {
	return map[string]any{
		"type":          []string{"Product"},
		"serialNumber":  "222",
		"co2":           300,
		"previousTiers": map[string]any{},
	}
}

func previousTierItem(position int, productID, description, holderID, holderName string) map[string]any {
	return map[string]any{
		"@type":    "ListItem",
		"position": position,
		"item": map[string]any{
			"id":          productID,
			"description": description,
			"holder": map[string]any{
				"id":   holderID,
				"name": holderName,
			},
		},
	}
}
