// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"encoding/json"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"vcdemo-cli/pkg/demofile"
)

// GenerateDockerfile creates Dockerfile content from a demofile descriptor.
//
// Emission order mirrors the build steps of the stock demo image: base image,
// fetched tools, requirement set installs, directory provisioning, source
// copies, environment, entrypoint. Tools are staged into the build context by
// the stager, so they appear here as COPY + chmod rather than remote ADDs
// (keeping the fetch under our retry and checksum control).
func GenerateDockerfile(d *demofile.Demofile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "FROM %s\n", d.BaseImage)
	sb.WriteString("\n# Generated by vcdemo from demofile.cue; do not edit.\n")

	if len(d.Tools) > 0 {
		sb.WriteString("\n# Fetched tool binaries\n")
		for _, t := range d.Tools {
			stagedPath := stagedToolPath(t)
			fmt.Fprintf(&sb, "COPY %s %s\n", stagedPath, t.Dest)
			mode := t.Mode
			if mode == "" {
				mode = "0755"
			}
			fmt.Fprintf(&sb, "RUN chmod %s %s\n", mode, t.Dest)
		}
	}

	for _, s := range d.Sets {
		fmt.Fprintf(&sb, "\n# Requirement set: %s\n", s.Name)
		fmt.Fprintf(&sb, "COPY %s %s\n", s.Manifest, s.Manifest)
		fmt.Fprintf(&sb, "RUN pip install --no-cache-dir -r %s\n", s.Manifest)
	}

	if len(d.Dirs) > 0 {
		sb.WriteString("\n# Directory layout\n")
		for _, dir := range d.Dirs {
			fmt.Fprintf(&sb, "RUN mkdir -p %s", dir.Path)
			if dir.Owner != "" {
				fmt.Fprintf(&sb, " && chown -R %s:%s %s", dir.Owner, dir.Owner, dir.Path)
			}
			if dir.GroupWritable {
				fmt.Fprintf(&sb, " && chmod -R ug+rw %s", dir.Path)
			}
			sb.WriteString("\n")
		}
	}

	if len(d.Copies) > 0 {
		sb.WriteString("\n# Demo sources\n")
		for _, c := range d.Copies {
			fmt.Fprintf(&sb, "COPY %s %s\n", copyContextSource(c), c.Dest)
		}
	}

	if len(d.Env) > 0 {
		sb.WriteString("\n# Build-time environment\n")
		// Deterministic output keeps the content hash stable.
		for _, k := range slices.Sorted(maps.Keys(d.Env)) {
			fmt.Fprintf(&sb, "ENV %s=%q\n", k, d.Env[k])
		}
	}

	sb.WriteString("\n")
	sb.WriteString("ENTRYPOINT " + entrypointJSON(d.Entrypoint) + "\n")

	return sb.String()
}

// stagedToolPath is where the stager places a fetched tool inside the build
// context, mirroring its in-image destination under tools/.
func stagedToolPath(t demofile.ToolFetch) string {
	return path.Join("tools", t.Dest)
}

// copyContextSource maps a demofile copy source to its location in the staged
// build context. Whole-tree copies ("." sources) are staged under src/ so the
// generated Dockerfile and fetched tools don't end up inside the image.
func copyContextSource(c demofile.CopyStep) string {
	if c.Source == "." {
		return "src/"
	}
	return path.Join("src", c.Source)
}

// entrypointJSON renders the exec-form ENTRYPOINT array. JSON encoding handles
// the quoting of embedded "$@" and the "--" separator.
func entrypointJSON(e demofile.Entrypoint) string {
	parts := append([]string{e.Command}, e.Args...)
	encoded, err := json.Marshal(parts)
	if err != nil {
		// Marshalling a []string cannot fail; keep the signature simple.
		panic(err)
	}
	return string(encoded)
}
