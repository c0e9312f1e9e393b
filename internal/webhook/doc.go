// SPDX-License-Identifier: MPL-2.0

// Package webhook receives agent event callbacks.
//
// The agent posts protocol state changes to
// /webhooks/topic/{topic}/ on the controller. The server decodes the payload
// per topic, drops repeated exchange states (the agent re-posts the same
// state during retries), and dispatches to a Handler. Scenario controllers
// embed BaseHandler and override only the topics they drive.
package webhook
