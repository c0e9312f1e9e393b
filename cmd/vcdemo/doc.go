// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for vcdemo.
//
// This package implements the Cobra command hierarchy for the vcdemo CLI:
// the root command, image building, tunnel readiness, scenario runners,
// the remote console server, and configuration management.
package cmd
