// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    ExitCode
		wantErr bool
	}{
		{"success", ExitCode(0), false},
		{"generic failure", ExitCode(1), false},
		{"upper bound", ExitCode(255), false},
		{"negative", ExitCode(-1), true},
		{"above range", ExitCode(256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("expected errors.Is(err, ErrInvalidExitCode)")
			}
		})
	}
}

func TestExitCode_IsTransient(t *testing.T) {
	t.Parallel()

	if !ExitCode(125).IsTransient() || !ExitCode(126).IsTransient() {
		t.Error("codes 125 and 126 should be transient")
	}
	if ExitCode(1).IsTransient() {
		t.Error("code 1 should not be transient")
	}
}

func TestListenPort_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		port    ListenPort
		wantErr bool
	}{
		{"auto-select", ListenPort(0), false},
		{"agent default", ListenPort(8020), false},
		{"upper bound", ListenPort(65535), false},
		{"negative", ListenPort(-1), true},
		{"above range", ListenPort(65536), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.port.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListenPort_Offset(t *testing.T) {
	t.Parallel()

	admin, err := ListenPort(8020).Offset(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin != 8021 {
		t.Errorf("expected 8021, got %d", admin)
	}

	_, err = ListenPort(65535).Offset(1)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if !errors.Is(err, ErrInvalidListenPort) {
		t.Error("expected ErrInvalidListenPort")
	}
}

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	if err := FilesystemPath("/tmp/demofile.cue").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := FilesystemPath("  ").Validate(); err == nil {
		t.Error("whitespace-only path should be invalid")
	}
	if err := FilesystemPath("").Validate(); !errors.Is(err, ErrInvalidFilesystemPath) {
		t.Error("expected ErrInvalidFilesystemPath")
	}
}
