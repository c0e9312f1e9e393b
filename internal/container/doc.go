// SPDX-License-Identifier: MPL-2.0

// Package container abstracts the Docker and Podman CLIs behind the Engine
// interface. Concrete engines embed BaseCLIEngine, which builds argument
// slices and executes commands; an injectable ExecCommandFunc lets tests
// substitute a mock process.
//
// Engine selection follows the configured preference with automatic fallback
// (NewEngine), or probes both binaries (AutoDetectEngine).
package container
