// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"vcdemo-cli/internal/agent"
	"vcdemo-cli/internal/webhook"
)

type stubRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// adminStub fakes the agent admin API: it records every request and
// answers with canned bodies keyed by "METHOD path".
type adminStub struct {
	mu        sync.Mutex
	requests  []stubRequest
	responses map[string]string
	server    *httptest.Server
}

func newAdminStub(t *testing.T) *adminStub {
	t.Helper()

	s := &adminStub{responses: map[string]string{}}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := stubRequest{Method: r.Method, Path: r.URL.Path}
		if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &req.Body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		body, ok := s.responses[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			body = "{}"
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *adminStub) respond(method, path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = body
}

func (s *adminStub) recorded() []stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubRequest(nil), s.requests...)
}

func (s *adminStub) find(method, path string) (stubRequest, bool) {
	for _, req := range s.recorded() {
		if req.Method == method && req.Path == path {
			return req, true
		}
	}
	return stubRequest{}, false
}

func (s *adminStub) client() *agent.AdminClient {
	return agent.NewAdminClient(s.server.URL)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewConsole(strings.NewReader(input), out), out
}

func TestBase_ConnectionSignal(t *testing.T) {
	t.Parallel()

	console, _ := testConsole("")
	b := newBase("tier0", nil, console, quietLogger())
	b.expectConnection()

	errCh := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errCh <- b.awaitConnection(ctx)
	}()

	// A non-active update must not release the waiter.
	if err := b.HandleConnections(context.Background(), webhook.ConnectionEvent{
		ConnectionID: "c1", State: "request",
	}); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("waiter released early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if err := b.HandleConnections(context.Background(), webhook.ConnectionEvent{
		ConnectionID: "c1", State: "active", TheirLabel: "tier2.agent",
	}); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("awaitConnection failed: %v", err)
	}

	id, err := b.activeConnectionID()
	if err != nil || id != "c1" {
		t.Errorf("activeConnectionID() = (%q, %v), want (\"c1\", nil)", id, err)
	}
}

func TestBase_AwaitConnectionWithoutExpect(t *testing.T) {
	t.Parallel()

	console, _ := testConsole("")
	b := newBase("tier0", nil, console, quietLogger())
	if err := b.awaitConnection(context.Background()); err == nil {
		t.Fatal("expected error without a pending connection")
	}
}

func TestBase_LDProofOfferTriggersRequestWithHolderDID(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	stub.respond("POST", "/wallet/did/create",
		`{"result":{"did":"did:key:zHolder","key_type":"bls12381g2"}}`)

	console, _ := testConsole("")
	b := newBase("tier2", stub.client(), console, quietLogger())

	event := webhook.CredentialEvent{
		CredExID: "cx1",
		State:    "offer-received",
		ByFormat: json.RawMessage(`{"cred_offer":{"ld_proof":{}}}`),
	}
	if err := b.HandleIssueCredentialV2(context.Background(), event); err != nil {
		t.Fatalf("offer handling failed: %v", err)
	}

	created, ok := stub.find("POST", "/wallet/did/create")
	if !ok {
		t.Fatal("expected a did:key creation")
	}
	if created.Body["method"] != "key" {
		t.Errorf("unexpected DID creation body %+v", created.Body)
	}

	request, ok := stub.find("POST", "/issue-credential-2.0/records/cx1/send-request")
	if !ok {
		t.Fatal("expected a credential request")
	}
	if request.Body["holder_did"] != "did:key:zHolder" {
		t.Errorf("unexpected holder_did in %+v", request.Body)
	}
}

func TestBase_RequestReceivedIssuesCredential(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	console, _ := testConsole("")
	b := newBase("issuer", stub.client(), console, quietLogger())

	event := webhook.CredentialEvent{CredExID: "cx2", State: "request-received"}
	if err := b.HandleIssueCredentialV2(context.Background(), event); err != nil {
		t.Fatalf("request handling failed: %v", err)
	}

	issued, ok := stub.find("POST", "/issue-credential-2.0/records/cx2/issue")
	if !ok {
		t.Fatal("expected an issue call")
	}
	if comment, _ := issued.Body["comment"].(string); !strings.Contains(comment, "cx2") {
		t.Errorf("unexpected issue comment %+v", issued.Body)
	}
}

func TestBase_PresentationReceivedVerifies(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	stub.respond("POST", "/present-proof-2.0/records/px1/verify-presentation",
		`{"verified":"true","pres_ex_id":"px1"}`)

	console, out := testConsole("")
	b := newBase("tier0", stub.client(), console, quietLogger())

	event := webhook.PresentationEvent{PresExID: "px1", State: "presentation-received"}
	if err := b.HandlePresentProofV2(context.Background(), event); err != nil {
		t.Fatalf("presentation handling failed: %v", err)
	}
	if _, ok := stub.find("POST", "/present-proof-2.0/records/px1/verify-presentation"); !ok {
		t.Fatal("expected a verify call")
	}
	if !strings.Contains(out.String(), "Proof verified: true") {
		t.Errorf("verification result not reported: %q", out.String())
	}
}

func TestBase_RequestReceivedSendsDIFPresentation(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	stub.respond("GET", "/present-proof-2.0/records/px2/credentials", `[
		{"record_id":"rec1","type":["VerifiableCredential","PermanentResident"],
		 "issuanceDate":"2020-01-01T12:00:00Z"}
	]`)

	console, _ := testConsole("")
	b := newBase("tier1", stub.client(), console, quietLogger())

	event := webhook.PresentationEvent{
		PresExID: "px2",
		State:    "request-received",
		ByFormat: json.RawMessage(`{"pres_request":{"dif":{
			"presentation_definition":{"input_descriptors":[
				{"id":"citizenship_input_1","schema":[
					{"uri":"https://w3id.org/citizenship#PermanentResident"}]}
			]}}}}`),
	}
	if err := b.HandlePresentProofV2(context.Background(), event); err != nil {
		t.Fatalf("proof request handling failed: %v", err)
	}

	sent, ok := stub.find("POST", "/present-proof-2.0/records/px2/send-presentation")
	if !ok {
		t.Fatal("expected a send-presentation call")
	}
	dif, _ := sent.Body["dif"].(map[string]any)
	recordIDs, _ := dif["record_ids"].(map[string]any)
	if ids, _ := recordIDs["citizenship_input_1"].([]any); len(ids) != 1 || ids[0] != "rec1" {
		t.Errorf("unexpected record_ids %+v", recordIDs)
	}
}
