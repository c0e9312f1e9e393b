// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"encoding/json"
	"testing"
)

func TestBuildDIFPresentation(t *testing.T) {
	t.Parallel()

	request := json.RawMessage(`{"presentation_definition":{"input_descriptors":[
		{"id":"citizenship_input_1","schema":[
			{"uri":"https://www.w3.org/2018/credentials#VerifiableCredential"},
			{"uri":"https://w3id.org/citizenship#PermanentResident"}]}
	]}}`)

	tests := []struct {
		name        string
		credentials string
		wantRecords map[string][]string
	}{
		{
			name: "newest matching record wins",
			credentials: `[
				{"record_id":"old","type":["VerifiableCredential","PermanentResident"],"issuanceDate":"2019-01-01T00:00:00Z"},
				{"record_id":"new","type":["VerifiableCredential","PermanentResident"],"issuanceDate":"2021-01-01T00:00:00Z"}
			]`,
			wantRecords: map[string][]string{"citizenship_input_1": {"new"}},
		},
		{
			name: "non json-ld records ignored",
			credentials: `[
				{"cred_info":{"referent":"indy-1"}},
				{"record_id":"ld","type":["PermanentResident"],"issuanceDate":"2020-01-01T00:00:00Z"}
			]`,
			wantRecords: map[string][]string{"citizenship_input_1": {"ld"}},
		},
		{
			name: "type mismatch leaves descriptor unmapped",
			credentials: `[
				{"record_id":"other","type":["UniversityDegree"],"issuanceDate":"2020-01-01T00:00:00Z"}
			]`,
			wantRecords: map[string][]string{},
		},
		{
			name:        "no credentials",
			credentials: `[]`,
			wantRecords: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			presentation, err := buildDIFPresentation(request, json.RawMessage(tt.credentials))
			if err != nil {
				t.Fatalf("buildDIFPresentation() error: %v", err)
			}

			dif := presentation["dif"].(map[string]any)
			recordIDs := dif["record_ids"].(map[string][]string)
			if len(recordIDs) != len(tt.wantRecords) {
				t.Fatalf("record_ids = %v, want %v", recordIDs, tt.wantRecords)
			}
			for descriptor, want := range tt.wantRecords {
				got := recordIDs[descriptor]
				if len(got) != len(want) || (len(want) > 0 && got[0] != want[0]) {
					t.Errorf("record_ids[%s] = %v, want %v", descriptor, got, want)
				}
			}
		})
	}
}

func TestBuildDIFPresentationBadRequest(t *testing.T) {
	t.Parallel()

	if _, err := buildDIFPresentation(json.RawMessage(`[`), nil); err == nil {
		t.Fatal("expected error for malformed request")
	}
}
