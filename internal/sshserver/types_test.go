// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"testing"
	"time"

	"vcdemo-cli/pkg/types"
)

func TestHostAddress_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    HostAddress
		wantErr bool
	}{
		{"localhost", HostAddress("localhost"), false},
		{"ipv4", HostAddress("127.0.0.1"), false},
		{"ipv6 loopback", HostAddress("::1"), false},
		{"hostname", HostAddress("myhost.local"), false},
		{"all interfaces", HostAddress("0.0.0.0"), false},
		{"empty", HostAddress(""), true},
		{"whitespace only", HostAddress("   "), true},
		{"tabs only", HostAddress("\t"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.addr.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("HostAddress(%q).Validate() = nil, want error", tt.addr)
				}
				if !errors.Is(err, ErrInvalidHostAddress) {
					t.Errorf("error should wrap ErrInvalidHostAddress, got: %v", err)
				}
				var addrErr *InvalidHostAddressError
				if !errors.As(err, &addrErr) {
					t.Errorf("error should be *InvalidHostAddressError, got: %T", err)
				}
			} else if err != nil {
				t.Errorf("HostAddress(%q).Validate() returned unexpected error: %v", tt.addr, err)
			}
		})
	}
}

func TestHostAddress_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr HostAddress
		want string
	}{
		{HostAddress("127.0.0.1"), "127.0.0.1"},
		{HostAddress("localhost"), "localhost"},
		{HostAddress(""), ""},
	}

	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("HostAddress(%q).String() = %q, want %q", string(tt.addr), got, tt.want)
		}
	}
}

func TestTokenValue_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   TokenValue
		wantErr bool
	}{
		{"valid token", TokenValue("abc123def456"), false},
		{"single char", TokenValue("x"), false},
		{"with special chars", TokenValue("token-with_special.chars"), false},
		{"empty", TokenValue(""), true},
		{"whitespace only", TokenValue("   "), true},
		{"tabs only", TokenValue("\t\t"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.token.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TokenValue(%q).Validate() = nil, want error", tt.token)
				}
				if !errors.Is(err, ErrInvalidTokenValue) {
					t.Errorf("error should wrap ErrInvalidTokenValue, got: %v", err)
				}
				var tokenErr *InvalidTokenValueError
				if !errors.As(err, &tokenErr) {
					t.Errorf("error should be *InvalidTokenValueError, got: %T", err)
				}
			} else if err != nil {
				t.Errorf("TokenValue(%q).Validate() returned unexpected error: %v", tt.token, err)
			}
		})
	}
}

func TestConsoleConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantCount int // expected number of field errors
	}{
		{
			"all valid",
			Config{Host: "127.0.0.1", Port: types.ListenPort(2222), TokenTTL: time.Hour},
			false, 0,
		},
		{
			"valid with zero port (auto-select)",
			Config{Host: "localhost", Port: types.ListenPort(0), TokenTTL: time.Hour},
			false, 0,
		},
		{
			"invalid host (empty)",
			Config{Host: "", Port: types.ListenPort(22), TokenTTL: time.Hour},
			true, 1,
		},
		{
			"invalid port (negative)",
			Config{Host: "127.0.0.1", Port: types.ListenPort(-1), TokenTTL: time.Hour},
			true, 1,
		},
		{
			"invalid token TTL (negative)",
			Config{Host: "127.0.0.1", Port: types.ListenPort(22), TokenTTL: -time.Second},
			true, 1,
		},
		{
			"multiple invalid fields",
			Config{Host: "", Port: types.ListenPort(70000), TokenTTL: -time.Second},
			true, 3,
		},
		{
			"zero value struct",
			Config{},
			true, 1, // empty Host is invalid; Port 0 and zero TTL are valid
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Config.Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidConsoleConfig) {
					t.Errorf("error should wrap ErrInvalidConsoleConfig, got: %v", err)
				}
				var cfgErr *InvalidConsoleConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error should be *InvalidConsoleConfigError, got: %T", err)
				}
				if len(cfgErr.FieldErrors) != tt.wantCount {
					t.Errorf("field errors count = %d, want %d", len(cfgErr.FieldErrors), tt.wantCount)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() returned unexpected error: %v", err)
			}
		})
	}
}
