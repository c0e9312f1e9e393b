// SPDX-License-Identifier: MPL-2.0

// Package demofile provides types and parsing for demofile.cue image build descriptors.
//
// A demofile describes how the demo container image is assembled: the base
// image to derive from, tools fetched into the image at build time, Python
// requirement sets installed with pip, directory layout and ownership
// adjustments, copy steps, build-time environment variables, and the
// container entrypoint. The descriptor carries no runtime logic itself; it
// is rendered into a Dockerfile by internal/provision and executed by a
// container engine.
//
// This package uses pkg/cueutil for CUE parsing implementation details.
// External consumers should use the exported Parse() and ParseBytes()
// functions; the CUE parsing internals are not part of the public API.
package demofile
