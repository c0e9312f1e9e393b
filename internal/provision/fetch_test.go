// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"vcdemo-cli/pkg/demofile"
)

func TestToolFetcher_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake-jq-binary"))
	}))
	defer server.Close()

	f := NewToolFetcher(server.Client())
	dest := filepath.Join(t.TempDir(), "tools", "bin", "jq")

	tool := demofile.ToolFetch{Dest: "bin/jq", URL: server.URL + "/jq-linux64", Mode: "0755"}
	if err := f.Fetch(context.Background(), tool, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read fetched tool: %v", err)
	}
	if string(content) != "fake-jq-binary" {
		t.Errorf("unexpected tool content: %q", content)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("failed to stat fetched tool: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("expected mode 0755, got %v", info.Mode().Perm())
	}
}

func TestToolFetcher_RejectsNonHTTPS(t *testing.T) {
	t.Parallel()

	f := NewToolFetcher(nil)
	tool := demofile.ToolFetch{Dest: "bin/jq", URL: "http://example.com/jq", Mode: "0755"}

	err := f.Fetch(context.Background(), tool, filepath.Join(t.TempDir(), "jq"))
	if err == nil {
		t.Fatal("expected error for non-https URL")
	}
}

func TestToolFetcher_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewToolFetcher(server.Client())
	tool := demofile.ToolFetch{Dest: "bin/jq", URL: server.URL + "/missing", Mode: "0755"}

	if err := f.Fetch(context.Background(), tool, filepath.Join(t.TempDir(), "jq")); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestParseFileMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    string
		want    os.FileMode
		wantErr bool
	}{
		{name: "executable", mode: "0755", want: 0o755},
		{name: "read only", mode: "0644", want: 0o644},
		{name: "empty defaults to executable", mode: "", want: 0o755},
		{name: "not octal", mode: "rwxr-xr-x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseFileMode(tt.mode)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseFileMode(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}
