// SPDX-License-Identifier: MPL-2.0

package demofile

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// GenerateCUE generates CUE text from a Demofile struct.
// This is used by `vcdemo init` to write a starter demofile.cue.
func GenerateCUE(d *Demofile) string {
	var sb strings.Builder

	sb.WriteString("// Demofile - image build descriptor for vcdemo\n")
	sb.WriteString("// Run `vcdemo build` to turn this into a container image.\n\n")

	fmt.Fprintf(&sb, "base_image: %q\n", d.BaseImage)
	if d.ServiceAccount != "" {
		fmt.Fprintf(&sb, "service_account: %q\n", d.ServiceAccount)
	}

	if len(d.Tools) > 0 {
		sb.WriteString("\ntools: [\n")
		for _, t := range d.Tools {
			sb.WriteString("\t{\n")
			fmt.Fprintf(&sb, "\t\tdest: %q\n", t.Dest)
			fmt.Fprintf(&sb, "\t\turl:  %q\n", t.URL)
			if t.Mode != "" {
				fmt.Fprintf(&sb, "\t\tmode: %q\n", t.Mode)
			}
			sb.WriteString("\t},\n")
		}
		sb.WriteString("]\n")
	}

	if len(d.Sets) > 0 {
		sb.WriteString("\nsets: [\n")
		for _, s := range d.Sets {
			fmt.Fprintf(&sb, "\t{name: %q, manifest: %q},\n", s.Name, s.Manifest)
		}
		sb.WriteString("]\n")
	}

	if len(d.Dirs) > 0 {
		sb.WriteString("\ndirs: [\n")
		for _, dir := range d.Dirs {
			sb.WriteString("\t{\n")
			fmt.Fprintf(&sb, "\t\tpath: %q\n", dir.Path)
			if dir.Owner != "" {
				fmt.Fprintf(&sb, "\t\towner: %q\n", dir.Owner)
			}
			if dir.GroupWritable {
				sb.WriteString("\t\tgroup_writable: true\n")
			}
			sb.WriteString("\t},\n")
		}
		sb.WriteString("]\n")
	}

	if len(d.Copies) > 0 {
		sb.WriteString("\ncopies: [\n")
		for _, c := range d.Copies {
			fmt.Fprintf(&sb, "\t{source: %q, dest: %q},\n", c.Source, c.Dest)
		}
		sb.WriteString("]\n")
	}

	if len(d.Env) > 0 {
		sb.WriteString("\nenv: {\n")
		// Deterministic output keeps init idempotent.
		for _, k := range slices.Sorted(maps.Keys(d.Env)) {
			fmt.Fprintf(&sb, "\t%s: %q\n", k, d.Env[k])
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nentrypoint: {\n")
	fmt.Fprintf(&sb, "\tcommand: %q\n", d.Entrypoint.Command)
	if len(d.Entrypoint.Args) > 0 {
		sb.WriteString("\targs: [")
		for i, arg := range d.Entrypoint.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", arg)
		}
		sb.WriteString("]\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}
