// SPDX-License-Identifier: MPL-2.0

package webhook

import (
	"context"
	"encoding/json"
)

// Handler reacts to agent events. Implementations are called sequentially
// per server; a returned error is logged, not propagated to the agent.
type Handler interface {
	HandleConnections(ctx context.Context, event ConnectionEvent) error
	HandleIssueCredentialV2(ctx context.Context, event CredentialEvent) error
	HandleIssueCredentialV2Indy(ctx context.Context, event CredentialIndyEvent) error
	HandleIssueCredentialV2LDProof(ctx context.Context, payload json.RawMessage) error
	HandlePresentProofV2(ctx context.Context, event PresentationEvent) error
	HandleBasicMessage(ctx context.Context, event MessageEvent) error
	HandleOutOfBand(ctx context.Context, payload json.RawMessage) error
	HandleEndorseTransaction(ctx context.Context, payload json.RawMessage) error
	HandleRevocationNotification(ctx context.Context, event RevocationEvent) error
}

// BaseHandler is a no-op Handler for embedding.
type BaseHandler struct{}

var _ Handler = (*BaseHandler)(nil)

func (BaseHandler) HandleConnections(context.Context, ConnectionEvent) error       { return nil }
func (BaseHandler) HandleIssueCredentialV2(context.Context, CredentialEvent) error { return nil }
func (BaseHandler) HandleIssueCredentialV2Indy(context.Context, CredentialIndyEvent) error {
	return nil
}
func (BaseHandler) HandleIssueCredentialV2LDProof(context.Context, json.RawMessage) error {
	return nil
}
func (BaseHandler) HandlePresentProofV2(context.Context, PresentationEvent) error { return nil }
func (BaseHandler) HandleBasicMessage(context.Context, MessageEvent) error        { return nil }
func (BaseHandler) HandleOutOfBand(context.Context, json.RawMessage) error        { return nil }
func (BaseHandler) HandleEndorseTransaction(context.Context, json.RawMessage) error {
	return nil
}
func (BaseHandler) HandleRevocationNotification(context.Context, RevocationEvent) error {
	return nil
}
