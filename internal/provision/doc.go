// SPDX-License-Identifier: MPL-2.0

// Package provision turns a demofile into a container image.
//
// The build pipeline stages a temporary build context (fetched tool binaries,
// requirement manifests, the demo source tree), generates a Dockerfile from
// the descriptor, and drives the container engine. Built images are cached by
// a content hash over the descriptor and everything it references, so repeated
// builds with unchanged inputs reuse the existing image.
//
// The main entry point is the Builder interface, implemented by ImageBuilder:
//
//	builder := provision.NewImageBuilder(engine, cfg)
//	result, err := builder.Build(ctx, demo)
//	// result.ImageTag contains the image to run
package provision
