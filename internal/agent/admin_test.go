// SPDX-License-Identifier: MPL-2.0

package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// recordedRequest captures one admin API call for assertions.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// newRecordingAdmin starts a fake admin API answering every request with
// response and returns a client plus the request log.
func newRecordingAdmin(t *testing.T, response string) (*AdminClient, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
		})
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	return NewAdminClient(server.URL), &requests
}

func lastRequest(t *testing.T, requests *[]recordedRequest) recordedRequest {
	t.Helper()

	if len(*requests) == 0 {
		t.Fatal("expected at least one admin request")
	}
	return (*requests)[len(*requests)-1]
}

func TestStatus(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t, `{"version":"0.7.3","label":"issuer.agent"}`)

	s, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Version != "0.7.3" || s.Label != "issuer.agent" {
		t.Errorf("unexpected status: %+v", s)
	}

	req := lastRequest(t, requests)
	if req.Method != http.MethodGet || req.Path != "/status" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
}

func TestCreateInvitation(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t,
		`{"connection_id":"conn-1","invitation_url":"http://x/?c_i=abc","invitation":{"label":"issuer.agent"}}`)

	inv, err := c.CreateInvitation(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ConnectionID != "conn-1" {
		t.Errorf("unexpected connection id %q", inv.ConnectionID)
	}
	if len(inv.Invitation) == 0 {
		t.Error("expected raw invitation payload")
	}

	req := lastRequest(t, requests)
	if req.Path != "/connections/create-invitation" {
		t.Errorf("unexpected path %s", req.Path)
	}
	if req.Query != "auto_accept=true" {
		t.Errorf("unexpected query %s", req.Query)
	}
}

func TestReceiveInvitation(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t, `{"connection_id":"conn-2","state":"invitation"}`)

	conn, err := c.ReceiveInvitation(context.Background(), json.RawMessage(`{"label":"issuer.agent"}`), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.ConnectionID != "conn-2" {
		t.Errorf("unexpected connection id %q", conn.ConnectionID)
	}

	req := lastRequest(t, requests)
	if req.Path != "/connections/receive-invitation" {
		t.Errorf("unexpected path %s", req.Path)
	}
	if !strings.Contains(req.Body, `"label":"issuer.agent"`) {
		t.Errorf("invitation payload not forwarded: %s", req.Body)
	}
}

func TestCreateKeyDID(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t,
		`{"result":{"did":"did:key:zUC7abc","verkey":"vk","key_type":"bls12381g2"}}`)

	did, err := c.CreateKeyDID(context.Background(), KeyTypeBLS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if did.DID != "did:key:zUC7abc" {
		t.Errorf("unexpected did %q", did.DID)
	}

	req := lastRequest(t, requests)
	if req.Path != "/wallet/did/create" {
		t.Errorf("unexpected path %s", req.Path)
	}
	if !strings.Contains(req.Body, `"key_type":"bls12381g2"`) {
		t.Errorf("key type not sent: %s", req.Body)
	}
}

func TestConnectionByLabel(t *testing.T) {
	t.Parallel()

	c, _ := newRecordingAdmin(t, `{"results":[
		{"connection_id":"c1","their_label":"tier0.agent","state":"active"},
		{"connection_id":"c2","their_label":"tier2.agent","state":"active"}]}`)

	conn, err := c.ConnectionByLabel(context.Background(), "tier2.agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.ConnectionID != "c2" {
		t.Errorf("expected c2, got %q", conn.ConnectionID)
	}

	if _, err := c.ConnectionByLabel(context.Background(), "alice.agent"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestCredentialExchangeCalls(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t, `{}`)
	ctx := context.Background()

	if _, err := c.SendCredentialOffer(ctx, map[string]string{"connection_id": "c1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := lastRequest(t, requests); req.Path != "/issue-credential-2.0/send-offer" {
		t.Errorf("unexpected path %s", req.Path)
	}

	if err := c.SendCredentialRequestFor(ctx, "cx-1", map[string]string{"holder_did": "did:key:z1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := lastRequest(t, requests); req.Path != "/issue-credential-2.0/records/cx-1/send-request" {
		t.Errorf("unexpected path %s", req.Path)
	}

	if err := c.IssueCredential(ctx, "cx-1", "issuing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := lastRequest(t, requests)
	if req.Path != "/issue-credential-2.0/records/cx-1/issue" {
		t.Errorf("unexpected path %s", req.Path)
	}
	if !strings.Contains(req.Body, `"comment":"issuing"`) {
		t.Errorf("comment not sent: %s", req.Body)
	}
}

func TestPresentationCalls(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t, `{"verified":"true","pres_ex_id":"px-1"}`)
	ctx := context.Background()

	if _, err := c.SendProofRequest(ctx, map[string]string{"connection_id": "c1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := lastRequest(t, requests); req.Path != "/present-proof-2.0/send-request" {
		t.Errorf("unexpected path %s", req.Path)
	}

	if err := c.SendPresentation(ctx, "px-1", map[string]any{"dif": map[string]any{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req := lastRequest(t, requests); req.Path != "/present-proof-2.0/records/px-1/send-presentation" {
		t.Errorf("unexpected path %s", req.Path)
	}

	v, err := c.VerifyPresentation(ctx, "px-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Verified != "true" {
		t.Errorf("unexpected verification %+v", v)
	}
	if req := lastRequest(t, requests); req.Path != "/present-proof-2.0/records/px-1/verify-presentation" {
		t.Errorf("unexpected path %s", req.Path)
	}
}

func TestRevocationCalls(t *testing.T) {
	t.Parallel()

	c, requests := newRecordingAdmin(t, `{"rrid2crid":{"rr-1":["1","2"]}}`)
	ctx := context.Background()

	if err := c.RevokeCredential(ctx, "rr-1", "1", "c1", "compromised", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := lastRequest(t, requests)
	if req.Path != "/revocation/revoke" {
		t.Errorf("unexpected path %s", req.Path)
	}
	if !strings.Contains(req.Body, `"rev_reg_id":"rr-1"`) || !strings.Contains(req.Body, `"publish":false`) {
		t.Errorf("unexpected revoke body: %s", req.Body)
	}

	published, err := c.PublishRevocations(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(published["rr-1"]) != 2 {
		t.Errorf("unexpected publish result %v", published)
	}
	if req := lastRequest(t, requests); req.Path != "/revocation/publish-revocations" {
		t.Errorf("unexpected path %s", req.Path)
	}
}

func TestAdminErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"wallet not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewAdminClient(server.URL)
	_, err := c.Status(context.Background())
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "wallet not found") {
		t.Errorf("expected response detail in error, got %v", err)
	}
}
