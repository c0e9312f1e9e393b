// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"errors"
	"testing"

	"vcdemo-cli/pkg/cueutil"
)

func TestCUEPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    cueutil.CUEPath
		wantErr bool
	}{
		{name: "valid simple path", path: "sets", wantErr: false},
		{name: "valid dotted path", path: "sets[0].manifest", wantErr: false},
		{name: "valid nested path", path: "env.ACAPY_DEBUG_WEBHOOKS", wantErr: false},
		{name: "empty string", path: "", wantErr: true},
		{name: "whitespace only", path: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CUEPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, cueutil.ErrInvalidCUEPath) {
				t.Errorf("CUEPath(%q).Validate() error does not wrap ErrInvalidCUEPath", tt.path)
			}
		})
	}
}

func TestCUEPath_String(t *testing.T) {
	t.Parallel()

	path := cueutil.CUEPath("sets[0].manifest")
	if got := path.String(); got != "sets[0].manifest" {
		t.Errorf("CUEPath.String() = %q, want %q", got, "sets[0].manifest")
	}
}
