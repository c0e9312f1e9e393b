// SPDX-License-Identifier: MPL-2.0

// Package scenario implements the supply-chain tier demo flows on top of the
// agent admin API and webhook events.
//
// Three roles exist: the issuer signs JSON-LD BBS+ product credentials for
// the downstream tiers, tier2 holds a supplier credential and requests its
// own from the issuer, and tier0 verifies the chain by sending DIF proof
// requests and walking the previousTiers list of each received presentation
// to request proofs from the upstream holders.
//
// Each role is a Controller: a webhook.Handler that reacts to protocol
// events plus an interactive menu driving the operator-initiated steps.
// A Runner wires the controller to an agent process and a webhook server.
package scenario
