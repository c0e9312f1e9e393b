// SPDX-License-Identifier: MPL-2.0

package scenario

import "github.com/google/uuid"

// proofDomain binds the requested presentations to this demo deployment.
const proofDomain = "4jt78h47fh47"

// TierOneProofRequest builds the DIF proof request tier0 sends to tier1,
// constrained to the serial number of the final product.
func TierOneProofRequest(connectionID string, trace bool) map[string]any {
	fields := []any{
		map[string]any{
			"path":   []string{"$.credentialSubject.serialNumber"},
			"filter": map[string]any{"const": "111"},
		},
		map[string]any{"path": []string{"$.credentialSubject.co2"}},
		map[string]any{"path": []string{"$.credentialSubject.previousTiers"}},
	}
	return difProofRequest(connectionID, fields, trace)
}

// ProofRequestByID builds a DIF proof request constrained to a specific
// credential id, used for the follow-up requests to upstream holders.
func ProofRequestByID(connectionID, productID string, trace bool) map[string]any {
	fields := []any{
		map[string]any{
			"path":   []string{"$.id"},
			"filter": map[string]any{"const": productID},
		},
		map[string]any{"path": []string{"$.credentialSubject.co2"}},
		map[string]any{"path": []string{"$.credentialSubject.previousTiers"}},
	}
	return difProofRequest(connectionID, fields, trace)
}

func difProofRequest(connectionID string, fields []any, trace bool) map[string]any {
	return map[string]any{
		"comment":       "test proof request for json-ld",
		"connection_id": connectionID,
		"trace":         trace,
		"presentation_request": map[string]any{
			"dif": map[string]any{
				"options": map[string]any{
					"challenge": uuid.NewString(),
					"domain":    proofDomain,
				},
				"presentation_definition": map[string]any{
					"id":     uuid.NewString(),
					"format": map[string]any{"ldp_vp": map[string]any{"proof_type": []string{SigTypeBLS}}},
					"input_descriptors": []any{
						map[string]any{
							"id":   "citizenship_input_1",
							"name": "EU Driver's License",
							"schema": []any{
								map[string]any{"uri": "https://www.w3.org/2018/credentials#VerifiableCredential"},
								map[string]any{"uri": "https://w3id.org/citizenship#PermanentResident"},
							},
							"constraints": map[string]any{
								"limit_disclosure": "required",
								"fields":           fields,
							},
						},
					},
				},
			},
		},
	}
}
