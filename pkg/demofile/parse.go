// SPDX-License-Identifier: MPL-2.0

package demofile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"vcdemo-cli/pkg/cueutil"
	"vcdemo-cli/pkg/types"
)

//go:embed demofile_schema.cue
var demofileSchema string

// Parse reads and parses a demofile from the given path.
func Parse(path types.FilesystemPath) (*Demofile, error) {
	pathStr := path.String()
	data, err := os.ReadFile(pathStr)
	if err != nil {
		return nil, fmt.Errorf("failed to read demofile at %s: %w", path, err)
	}

	return ParseBytes(data, pathStr)
}

// ParseBytes parses demofile content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Demofile, error) {
	result, err := cueutil.ParseAndDecodeString[Demofile](
		demofileSchema,
		data,
		"#Demofile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	d := result.Value
	d.FilePath = types.FilesystemPath(path)

	// Validate and collect all issues. Only error-level issues fail the
	// parse; warnings ride along on the demofile.
	errs := d.Validate()
	if errs.HasErrors() {
		return nil, errs
	}
	d.Warnings = errs.Warnings()

	return d, nil
}

// Dir returns the directory containing the demofile. Manifest paths and
// copy sources are resolved relative to this directory when staging the
// build context.
func (d *Demofile) Dir() string {
	return filepath.Dir(d.FilePath.String())
}
