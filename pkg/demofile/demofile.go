// SPDX-License-Identifier: MPL-2.0

package demofile

import (
	"vcdemo-cli/pkg/types"
)

// DefaultFileName is the canonical demofile name searched for in the
// working directory and in ~/.vcdemo.
const DefaultFileName = "demofile.cue"

type (
	// Demofile is the root of a parsed image build descriptor.
	Demofile struct {
		// BaseImage is the image the build derives from (required).
		BaseImage string `json:"base_image"`
		// ServiceAccount is the non-root user that owns the demo directories.
		ServiceAccount string `json:"service_account,omitempty"`
		// Tools are binaries fetched into the image at build time.
		Tools []ToolFetch `json:"tools,omitempty"`
		// Sets are the Python requirement sets installed with pip, in order.
		Sets []RequirementSet `json:"sets,omitempty"`
		// Dirs are directories created in the image with ownership and
		// permission adjustments.
		Dirs []DirSpec `json:"dirs,omitempty"`
		// Copies stage build-context content into the image.
		Copies []CopyStep `json:"copies,omitempty"`
		// Env declares build-time environment variables baked into the image.
		Env map[string]string `json:"env,omitempty"`
		// Entrypoint is the container's startup command (required).
		Entrypoint Entrypoint `json:"entrypoint"`

		// FilePath records where this demofile was loaded from.
		// Set by the parser; not part of the CUE schema.
		FilePath types.FilesystemPath `json:"-"`

		// Warnings holds the warning-level validation issues found at parse
		// time. Warnings never fail the parse; callers decide how to surface
		// them. Set by the parser; not part of the CUE schema.
		Warnings ValidationErrors `json:"-"`
	}

	// ToolFetch describes a binary downloaded into the image over HTTPS.
	ToolFetch struct {
		// Dest is the in-image path the binary lands at (e.g. "bin/jq").
		Dest string `json:"dest"`
		// URL is the HTTPS release URL the binary is fetched from.
		URL string `json:"url"`
		// Mode is the octal file mode applied after the fetch (default "0755").
		Mode string `json:"mode,omitempty"`
	}

	// RequirementSet names a pip requirements manifest installed during
	// the build. Manifests are resolved relative to the demofile.
	RequirementSet struct {
		// Name identifies the set (unique within the demofile).
		Name string `json:"name"`
		// Manifest is the requirements file staged into the build context.
		Manifest string `json:"manifest"`
	}

	// DirSpec describes a directory created in the image.
	DirSpec struct {
		// Path is the directory path, relative to the image workdir.
		Path string `json:"path"`
		// Owner reassigns ownership to this account when non-empty.
		Owner string `json:"owner,omitempty"`
		// GroupWritable relaxes permissions to user+group read/write.
		GroupWritable bool `json:"group_writable,omitempty"`
	}

	// CopyStep stages content from the build context into the image.
	CopyStep struct {
		// Source is the build-context path ("." for the whole context).
		Source string `json:"source"`
		// Dest is the in-image destination path.
		Dest string `json:"dest"`
	}

	// Entrypoint is the command a container runs by default when started.
	// Args after a literal "--" are forwarded to the wrapped script, so the
	// container's exit code equals the script's exit code.
	Entrypoint struct {
		// Command is the executable invoked at container start (required).
		Command string `json:"command"`
		// Args are the fixed arguments passed to Command.
		Args []string `json:"args,omitempty"`
	}
)

// SetNames returns the requirement set names in declaration order.
func (d *Demofile) SetNames() []string {
	names := make([]string, 0, len(d.Sets))
	for _, s := range d.Sets {
		names = append(names, s.Name)
	}
	return names
}

// FindSet returns the requirement set with the given name, or nil.
func (d *Demofile) FindSet(name string) *RequirementSet {
	for i := range d.Sets {
		if d.Sets[i].Name == name {
			return &d.Sets[i]
		}
	}
	return nil
}

// Manifests returns every manifest path referenced by the demofile's
// requirement sets, in install order.
func (d *Demofile) Manifests() []string {
	manifests := make([]string, 0, len(d.Sets))
	for _, s := range d.Sets {
		manifests = append(manifests, s.Manifest)
	}
	return manifests
}
