// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vcdemo-cli/pkg/demofile"
)

// DefaultFetchTimeout bounds a single tool download.
const DefaultFetchTimeout = 60 * time.Second

// ToolFetcher downloads tool binaries declared in a demofile into the
// build context. Only https URLs are accepted.
type ToolFetcher struct {
	client *http.Client
}

// NewToolFetcher creates a ToolFetcher. A nil client gets a default one
// with DefaultFetchTimeout.
func NewToolFetcher(client *http.Client) *ToolFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &ToolFetcher{client: client}
}

// Fetch downloads the tool to destPath and applies its declared file mode.
func (f *ToolFetcher) Fetch(ctx context.Context, t demofile.ToolFetch, destPath string) error {
	u, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("invalid tool URL %q: %w", t.URL, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("tool URL %q must use https", t.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", t.URL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", t.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: unexpected status %s", t.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create tool directory: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create tool file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write tool file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close tool file: %w", err)
	}

	mode, err := parseFileMode(t.Mode)
	if err != nil {
		return err
	}
	if err := os.Chmod(destPath, mode); err != nil {
		return fmt.Errorf("failed to set tool file mode: %w", err)
	}

	return nil
}

// parseFileMode converts an octal mode string like "0755" to an os.FileMode.
// An empty mode defaults to 0755 (tools are executables).
func parseFileMode(mode string) (os.FileMode, error) {
	if mode == "" {
		return 0o755, nil
	}
	parsed, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", mode, err)
	}
	return os.FileMode(parsed), nil
}
