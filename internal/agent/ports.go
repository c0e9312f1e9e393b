// SPDX-License-Identifier: MPL-2.0

package agent

import (
	"vcdemo-cli/pkg/types"
)

// Port offsets from an agent's base port.
const (
	adminPortOffset   = 1
	webhookPortOffset = 2
)

// Ports holds the three listen ports derived from an agent's base port.
type Ports struct {
	// Inbound is the DIDComm inbound transport port (the base port).
	Inbound types.ListenPort
	// Admin is the admin API port.
	Admin types.ListenPort
	// Webhook is the controller's webhook receiver port.
	Webhook types.ListenPort
}

// PortsFromBase derives the port triple from a base port.
func PortsFromBase(base types.ListenPort) (Ports, error) {
	if err := base.Validate(); err != nil {
		return Ports{}, err
	}
	admin, err := base.Offset(adminPortOffset)
	if err != nil {
		return Ports{}, err
	}
	webhook, err := base.Offset(webhookPortOffset)
	if err != nil {
		return Ports{}, err
	}
	return Ports{Inbound: base, Admin: admin, Webhook: webhook}, nil
}
