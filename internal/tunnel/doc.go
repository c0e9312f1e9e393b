// SPDX-License-Identifier: MPL-2.0

// Package tunnel waits for an ngrok tunnel to expose a public https endpoint.
//
// The demo agents advertise their endpoint through an ngrok sidecar. Before an
// agent can start, its public URL must be known, so the controller polls the
// ngrok local agent API until a public https tunnel appears or the deadline
// expires. This replaces the polling loop of the container's shell entrypoint.
package tunnel
