// SPDX-License-Identifier: MPL-2.0

package webhook

import (
	"encoding/json"
)

// Topics posted by the agent. The topic is the last path element of the
// webhook URL.
const (
	TopicConnections                = "connections"
	TopicIssueCredentialV2          = "issue_credential_v2_0"
	TopicIssueCredentialV2Indy      = "issue_credential_v2_0_indy"
	TopicIssueCredentialV2LDProof   = "issue_credential_v2_0_ld_proof"
	TopicPresentProofV2             = "present_proof_v2_0"
	TopicBasicMessages              = "basicmessages"
	TopicOutOfBand                  = "out_of_band"
	TopicEndorseTransaction         = "endorse_transaction"
	TopicRevocationNotification     = "revocation_notification"
	TopicIssuerCredentialRevocation = "issuer_cred_rev"
	TopicPing                       = "ping"
)

type (
	// ConnectionEvent is a connections topic payload.
	ConnectionEvent struct {
		ConnectionID string `json:"connection_id"`
		State        string `json:"state"`
		RFC23State   string `json:"rfc23_state"`
		TheirLabel   string `json:"their_label"`
	}

	// CredentialEvent is an issue_credential_v2_0 topic payload.
	CredentialEvent struct {
		CredExID     string          `json:"cred_ex_id"`
		ConnectionID string          `json:"connection_id"`
		State        string          `json:"state"`
		ByFormat     json.RawMessage `json:"by_format"`
		ErrorMsg     string          `json:"error_msg"`
	}

	// CredentialIndyEvent is an issue_credential_v2_0_indy detail payload.
	CredentialIndyEvent struct {
		CredExID     string `json:"cred_ex_id"`
		RevRegID     string `json:"rev_reg_id"`
		CredRevID    string `json:"cred_rev_id"`
		CredIDStored string `json:"cred_id_stored"`
	}

	// PresentationEvent is a present_proof_v2_0 topic payload.
	PresentationEvent struct {
		PresExID     string          `json:"pres_ex_id"`
		ConnectionID string          `json:"connection_id"`
		State        string          `json:"state"`
		Verified     string          `json:"verified"`
		ByFormat     json.RawMessage `json:"by_format"`
		ErrorMsg     string          `json:"error_msg"`
	}

	// MessageEvent is a basicmessages topic payload.
	MessageEvent struct {
		ConnectionID string `json:"connection_id"`
		Content      string `json:"content"`
	}

	// RevocationEvent is a revocation_notification topic payload.
	RevocationEvent struct {
		ThreadID string `json:"thread_id"`
		Comment  string `json:"comment"`
	}
)

// CredOfferFormat reports which offer format an exchange carries.
// ld_proof offers need a holder DID in the credential request.
func (e *CredentialEvent) CredOfferFormat() (indy, ldProof bool) {
	var byFormat struct {
		CredOffer map[string]json.RawMessage `json:"cred_offer"`
	}
	if err := json.Unmarshal(e.ByFormat, &byFormat); err != nil {
		return false, false
	}
	_, indy = byFormat.CredOffer["indy"]
	_, ldProof = byFormat.CredOffer["ld_proof"]
	return indy, ldProof
}

// PresRequestFormats reports which request formats a presentation
// exchange carries and returns the dif request payload when present.
func (e *PresentationEvent) PresRequestFormats() (indy json.RawMessage, dif json.RawMessage) {
	var byFormat struct {
		PresRequest struct {
			Indy json.RawMessage `json:"indy"`
			Dif  json.RawMessage `json:"dif"`
		} `json:"pres_request"`
	}
	if err := json.Unmarshal(e.ByFormat, &byFormat); err != nil {
		return nil, nil
	}
	return byFormat.PresRequest.Indy, byFormat.PresRequest.Dif
}
