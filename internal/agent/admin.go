// SPDX-License-Identifier: MPL-2.0

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// KeyTypeBLS is the key type used for JSON-LD BBS+ credentials.
const KeyTypeBLS = "bls12381g2"

type (
	// AdminClient talks to an ACA-Py admin API.
	AdminClient struct {
		baseURL string
		client  *http.Client
	}

	// AdminOption is a functional option for configuring an AdminClient.
	AdminOption func(*AdminClient)

	// Status is the subset of GET /status the controller cares about.
	Status struct {
		Version string `json:"version"`
		Label   string `json:"label"`
	}

	// Connection is one record of GET /connections.
	Connection struct {
		ConnectionID string `json:"connection_id"`
		TheirLabel   string `json:"their_label"`
		State        string `json:"state"`
		RFC23State   string `json:"rfc23_state"`
	}

	connectionList struct {
		Results []Connection `json:"results"`
	}

	// Invitation is the response of a create-invitation call.
	Invitation struct {
		ConnectionID  string          `json:"connection_id"`
		InvitationURL string          `json:"invitation_url"`
		Invitation    json.RawMessage `json:"invitation"`
	}

	// DID is a wallet DID record.
	DID struct {
		DID     string `json:"did"`
		VerKey  string `json:"verkey"`
		KeyType string `json:"key_type"`
	}

	didResult struct {
		Result DID `json:"result"`
	}

	didList struct {
		Results []DID `json:"results"`
	}

	// Verification is the outcome of a verify-presentation call.
	Verification struct {
		Verified string          `json:"verified"`
		PresExID string          `json:"pres_ex_id"`
		ByFormat json.RawMessage `json:"by_format"`
	}

	publishedRevocations struct {
		RRID2CRID map[string][]string `json:"rrid2crid"`
	}
)

// NewAdminClient creates a client for the admin API at baseURL.
func NewAdminClient(baseURL string, opts ...AdminOption) *AdminClient {
	c := &AdminClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAdminHTTPClient sets the HTTP client used for admin calls.
func WithAdminHTTPClient(client *http.Client) AdminOption {
	return func(c *AdminClient) {
		c.client = client
	}
}

// BaseURL returns the admin API base URL.
func (c *AdminClient) BaseURL() string {
	return c.baseURL
}

// Get performs a GET against the admin API and decodes the response into out.
// A nil out discards the body.
func (c *AdminClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body. A nil body sends an empty object.
func (c *AdminClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch performs a PATCH with a JSON body.
func (c *AdminClient) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Put performs a PUT with a JSON body.
func (c *AdminClient) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *AdminClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if method != http.MethodGet {
		payload := body
		if payload == nil {
			payload = map[string]any{}
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode admin request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create admin request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("admin request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("admin request %s %s returned %s: %s",
			method, path, resp.Status, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode admin response for %s: %w", path, err)
	}
	return nil
}

// Status fetches the agent status.
func (c *AdminClient) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.Get(ctx, "/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateInvitation creates a connection invitation for another agent.
func (c *AdminClient) CreateInvitation(ctx context.Context, autoAccept bool) (*Invitation, error) {
	var inv Invitation
	path := "/connections/create-invitation?auto_accept=" + boolParam(autoAccept)
	if err := c.Post(ctx, path, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ReceiveInvitation accepts an invitation produced by another agent.
func (c *AdminClient) ReceiveInvitation(ctx context.Context, invitation json.RawMessage, autoAccept bool) (*Connection, error) {
	var conn Connection
	path := "/connections/receive-invitation?auto_accept=" + boolParam(autoAccept)
	if err := c.Post(ctx, path, invitation, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// CreateKeyDID creates a did:key DID with the given key type
// (KeyTypeBLS for BBS+ credential exchanges).
func (c *AdminClient) CreateKeyDID(ctx context.Context, keyType string) (*DID, error) {
	body := map[string]any{
		"method":  "key",
		"options": map[string]any{"key_type": keyType},
	}
	var res didResult
	if err := c.Post(ctx, "/wallet/did/create", body, &res); err != nil {
		return nil, err
	}
	return &res.Result, nil
}

// PublicDID returns the wallet's public DID, if one is set.
func (c *AdminClient) PublicDID(ctx context.Context) (*DID, error) {
	var res didResult
	if err := c.Get(ctx, "/wallet/did/public", &res); err != nil {
		return nil, err
	}
	return &res.Result, nil
}

// WalletDIDs returns all local wallet DIDs.
func (c *AdminClient) WalletDIDs(ctx context.Context) ([]DID, error) {
	var res didList
	if err := c.Get(ctx, "/wallet/did", &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// ListConnections returns all connection records.
func (c *AdminClient) ListConnections(ctx context.Context) ([]Connection, error) {
	var list connectionList
	if err := c.Get(ctx, "/connections", &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ConnectionByLabel finds the connection whose peer advertised the given
// label (e.g. "tier2.agent").
func (c *AdminClient) ConnectionByLabel(ctx context.Context, label string) (*Connection, error) {
	conns, err := c.ListConnections(ctx)
	if err != nil {
		return nil, err
	}
	for i := range conns {
		if conns[i].TheirLabel == label {
			return &conns[i], nil
		}
	}
	return nil, fmt.Errorf("no connection with label %q", label)
}

// SendMessage sends a basic message over a connection.
func (c *AdminClient) SendMessage(ctx context.Context, connectionID, content string) error {
	body := map[string]string{"content": content}
	return c.Post(ctx, "/connections/"+url.PathEscape(connectionID)+"/send-message", body, nil)
}

// SendCredentialOffer starts a v2 credential exchange as issuer.
func (c *AdminClient) SendCredentialOffer(ctx context.Context, offer any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Post(ctx, "/issue-credential-2.0/send-offer", offer, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendCredentialRequest starts a v2 credential exchange as holder.
func (c *AdminClient) SendCredentialRequest(ctx context.Context, request any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Post(ctx, "/issue-credential-2.0/send-request", request, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendCredentialRequestFor continues an existing exchange after an offer was
// received. body may carry the holder DID for ld_proof offers; nil sends an
// empty request.
func (c *AdminClient) SendCredentialRequestFor(ctx context.Context, credExID string, body any) error {
	return c.Post(ctx, "/issue-credential-2.0/records/"+url.PathEscape(credExID)+"/send-request", body, nil)
}

// IssueCredential issues the credential of an exchange in request-received
// state, based on the offer stored in the exchange record.
func (c *AdminClient) IssueCredential(ctx context.Context, credExID, comment string) error {
	body := map[string]string{"comment": comment}
	return c.Post(ctx, "/issue-credential-2.0/records/"+url.PathEscape(credExID)+"/issue", body, nil)
}

// SendProofRequest starts a v2 presentation exchange as verifier.
func (c *AdminClient) SendProofRequest(ctx context.Context, request any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Post(ctx, "/present-proof-2.0/send-request", request, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PresentationCredentials lists wallet credentials matching a proof request.
func (c *AdminClient) PresentationCredentials(ctx context.Context, presExID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Get(ctx, "/present-proof-2.0/records/"+url.PathEscape(presExID)+"/credentials", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendPresentation answers a proof request.
func (c *AdminClient) SendPresentation(ctx context.Context, presExID string, presentation any) error {
	return c.Post(ctx, "/present-proof-2.0/records/"+url.PathEscape(presExID)+"/send-presentation", presentation, nil)
}

// VerifyPresentation verifies a received presentation.
func (c *AdminClient) VerifyPresentation(ctx context.Context, presExID string) (*Verification, error) {
	var v Verification
	if err := c.Post(ctx, "/present-proof-2.0/records/"+url.PathEscape(presExID)+"/verify-presentation", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListPresentations returns all v2 presentation exchange records.
func (c *AdminClient) ListPresentations(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Get(ctx, "/present-proof-2.0/records", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListW3CCredentials returns the W3C credentials held in the wallet.
func (c *AdminClient) ListW3CCredentials(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Post(ctx, "/credentials/w3c", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeCredential revokes an issued credential, optionally publishing the
// revocation immediately and notifying the holder over the connection.
func (c *AdminClient) RevokeCredential(ctx context.Context, revRegID, credRevID, connectionID, comment string, publish bool) error {
	body := map[string]any{
		"rev_reg_id":    revRegID,
		"cred_rev_id":   credRevID,
		"publish":       publish,
		"connection_id": connectionID,
		"comment":       comment,
	}
	return c.Post(ctx, "/revocation/revoke", body, nil)
}

// PublishRevocations publishes pending revocations and returns the affected
// registry-to-credential map.
func (c *AdminClient) PublishRevocations(ctx context.Context) (map[string][]string, error) {
	var res publishedRevocations
	if err := c.Post(ctx, "/revocation/publish-revocations", nil, &res); err != nil {
		return nil, err
	}
	return res.RRID2CRID, nil
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
