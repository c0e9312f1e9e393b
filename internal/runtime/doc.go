// SPDX-License-Identifier: MPL-2.0

// Package runtime executes the demo image entrypoint outside a container.
//
// The demo container starts a shell that runs the tunnel-wait wrapper script,
// forwarding the container arguments after a literal "--" separator. This
// package reproduces that contract on the host: the wrapper invocation is
// interpreted either with an embedded shell (mvdan.cc/sh, no host shell
// needed) or by the host shell, and the process exit code equals the script
// exit code.
package runtime
