// SPDX-License-Identifier: MPL-2.0

// Package sshserver provides the remote console for running demo scenarios.
//
// It is a Wish-based SSH server bound to localhost: an operator connects
// with a one-time token as the password and is attached to the scenario's
// interactive menu. Sessions that carry a command run it on the host
// instead, which is handy for poking the agent admin APIs while a demo is
// running.
package sshserver
