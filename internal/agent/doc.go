// SPDX-License-Identifier: MPL-2.0

// Package agent manages demo cloud agents and their admin API.
//
// Each demo persona (issuer, tier0, tier2) runs one ACA-Py process listening
// on three consecutive ports: DIDComm inbound on the base port, the admin API
// one above it, and the controller's webhook receiver two above it.
// AgentProcess starts the process and waits for the admin API to answer;
// AdminClient wraps the admin endpoints the demo flows use.
package agent
