// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"testing"
)

func TestTier2_RequestCredential(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	stub.respond("GET", "/connections",
		`{"results":[{"connection_id":"conn-issuer","their_label":"issuer.agent","state":"active"}]}`)
	stub.respond("GET", "/wallet/did",
		`{"results":[{"did":"WgWxqztrNooG92RXvxSTWv","key_type":"ed25519"}]}`)

	console, _ := testConsole("EivNVN4M2YXJ94Q7uCxxdx\n")
	tier2 := NewTier2(stub.client(), console, quietLogger())

	if err := tier2.requestCredential(context.Background()); err != nil {
		t.Fatalf("requestCredential() error: %v", err)
	}

	request, ok := stub.find("POST", "/issue-credential-2.0/send-request")
	if !ok {
		t.Fatal("expected a credential request")
	}
	if request.Body["connection_id"] != "conn-issuer" {
		t.Errorf("connection_id = %v", request.Body["connection_id"])
	}
	if request.Body["holder_did"] != "did:sov:WgWxqztrNooG92RXvxSTWv" {
		t.Errorf("holder_did = %v", request.Body["holder_did"])
	}
	credential := dig(t, request.Body, "filter", "ld_proof", "credential").(map[string]any)
	if credential["issuer"] != "EivNVN4M2YXJ94Q7uCxxdx" {
		t.Errorf("issuer = %v", credential["issuer"])
	}
}

func TestTier2_RequestCredentialFailsWithEmptyWallet(t *testing.T) {
	t.Parallel()

	stub := newAdminStub(t)
	stub.respond("GET", "/connections",
		`{"results":[{"connection_id":"conn-issuer","their_label":"issuer.agent","state":"active"}]}`)
	stub.respond("GET", "/wallet/did", `{"results":[]}`)

	console, _ := testConsole("EivNVN4M2YXJ94Q7uCxxdx\n")
	tier2 := NewTier2(stub.client(), console, quietLogger())

	if err := tier2.requestCredential(context.Background()); err == nil {
		t.Fatal("expected error with no wallet DID")
	}
}

func TestTier2_Menu(t *testing.T) {
	t.Parallel()

	console, _ := testConsole("")
	tier2 := NewTier2(nil, console, quietLogger())

	want := []string{"1", "3", "4", "7", "7a", "8", "9"}
	options := tier2.MenuOptions()
	if len(options) != len(want) {
		t.Fatalf("menu has %d options, want %d", len(options), len(want))
	}
	for i, key := range want {
		if options[i].Key != key {
			t.Errorf("menu option %d = %q, want %q", i, options[i].Key, key)
		}
	}
}
