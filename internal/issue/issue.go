// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DemofileNotFoundId Id = iota + 1
	DemofileParseErrorId
	ContainerEngineNotFoundId
	ImageBuildFailedId
	TunnelNotReadyId
	AgentStartFailedId
	AdminRequestFailedId
	WebhookServerFailedId
	ConnectionTimeoutId
	CredentialExchangeFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	demofileNotFoundIssue = &Issue{
		id: DemofileNotFoundId,
		mdMsg: `
# No demofile found!

We searched for a demofile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. Current directory
2. ~/.vcdemo/
3. Paths configured in your config file

## Things you can try:
- Create a demofile in your current directory:
~~~
$ vcdemo init
~~~

- Or specify one explicitly:
~~~
$ vcdemo build --demofile /path/to/demofile.cue
~~~

## Example demofile structure:
~~~cue
base_image: "python:3.9-slim-bullseye"

sets: [
  {
    name: "base"
    manifest: "requirements.txt"
  },
]

entrypoint: {
  command: "bash"
  args: ["-c", "./ngrok-wait.sh"]
}
~~~`,
	}

	demofileParseErrorIssue = &Issue{
		id: DemofileParseErrorId,
		mdMsg: `
# Failed to parse demofile!

Your demofile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields
- Missing required fields (base_image, entrypoint.command)

## Things you can try:
- Check the error message above for the specific line/column
- Validate your CUE syntax using the cue command-line tool
- Run with verbose mode for more details:
~~~
$ vcdemo --verbose build
~~~

## Example of a valid requirement set:
~~~cue
sets: [
  {
    name: "askar"
    manifest: "requirements.askar.txt"
  }
]
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

Building the demo image requires a container engine, but none is available.

## Supported container engines:
- **Podman** (recommended for rootless containers)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Install Docker:
  - https://docs.docker.com/get-docker/

- Configure your preferred engine in ~/.config/vcdemo/config.cue:
~~~cue
container_engine: "podman"  // or "docker"
~~~`,
	}

	imageBuildFailedIssue = &Issue{
		id: ImageBuildFailedId,
		mdMsg: `
# Image build failed!

The container engine reported an error while building the demo image.

## Common causes:
- A requirement manifest is missing from the build context
- The base image could not be pulled
- A pip install step failed inside the build
- Network issues while fetching tools

## Things you can try:
- Run with verbose mode to see the full engine output:
~~~
$ vcdemo --verbose build
~~~

- Force a clean rebuild without the cached image:
~~~
$ vcdemo build --force-rebuild
~~~

- Check that every manifest listed under 'sets' exists next to the demofile`,
	}

	tunnelNotReadyIssue = &Issue{
		id: TunnelNotReadyId,
		mdMsg: `
# Tunnel endpoint not ready!

We polled the ngrok local API but no public https tunnel became available
before the deadline.

## Things you can try:
- Check that the ngrok sidecar is running and reachable:
~~~
$ curl http://ngrok:4040/api/tunnels
~~~

- Verify NGROK_NAME points at the right host
- Increase the wait timeout:
~~~
$ vcdemo wait --timeout 120s
~~~

- Check your ngrok account limits (free plans cap concurrent tunnels)`,
	}

	agentStartFailedIssue = &Issue{
		id: AgentStartFailedId,
		mdMsg: `
# Agent failed to start!

The ACA-Py agent process exited or never reported a ready status.

## Common causes:
- The configured ports are already in use
- The wallet seed is invalid (must be 32 bytes)
- The genesis transactions could not be fetched
- ACA-Py is not installed in the image

## Things you can try:
- Run with verbose mode to see the agent's own output:
~~~
$ vcdemo --verbose run issuer
~~~

- Pick a different base port:
~~~
$ vcdemo run issuer --port 8060
~~~

- Check the admin endpoint manually once the process is up:
~~~
$ curl http://localhost:8061/status
~~~`,
	}

	adminRequestFailedIssue = &Issue{
		id: AdminRequestFailedId,
		mdMsg: `
# Admin API request failed!

A request against the agent's admin API returned an error.

## Common causes:
- The agent is still starting up
- The endpoint requires a wallet that was never created
- The exchange referenced by the request no longer exists

## Things you can try:
- Confirm the agent is ready:
~~~
$ curl http://localhost:8061/status
~~~

- Check the admin API docs served by the agent at /api/doc
- Run with verbose mode to see the request and response bodies`,
	}

	webhookServerFailedIssue = &Issue{
		id: WebhookServerFailedId,
		mdMsg: `
# Webhook server failed!

The controller could not start its webhook listener, so agent events
will never be observed.

## Common causes:
- The webhook port is already in use
- The bind address is not available on this host

## Things you can try:
- Pick a different base port (webhooks listen on base port + 2):
~~~
$ vcdemo run issuer --port 8060
~~~

- Check what is holding the port:
~~~
$ ss -tlnp | grep 8062
~~~`,
	}

	connectionTimeoutIssue = &Issue{
		id: ConnectionTimeoutId,
		mdMsg: `
# Connection never became active!

We exchanged an invitation but the connection did not reach the active
state before the deadline.

## Common causes:
- The other agent never accepted the invitation
- The agents cannot reach each other's endpoints
- The tunnel endpoint went stale after a restart

## Things you can try:
- Verify both agents are running and ready
- Check that the endpoint URLs are reachable from both sides
- Re-issue the invitation and accept it again`,
	}

	credentialExchangeFailedIssue = &Issue{
		id: CredentialExchangeFailedId,
		mdMsg: `
# Credential exchange failed!

A credential offer or proof request did not complete.

## Common causes:
- The holder rejected or ignored the offer
- The credential subject does not satisfy the proof constraints
- The signature suite is not supported by one of the agents

## Things you can try:
- Check the webhook output for the exchange's last reported state
- Verify both agents support BbsBlsSignature2020
- Run with verbose mode to see the full exchange records`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the vcdemo configuration file.

## Configuration file locations:
- Linux: ~/.config/vcdemo/config.cue
- macOS: ~/Library/Application Support/vcdemo/config.cue
- Windows: %APPDATA%\vcdemo\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ vcdemo config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/vcdemo/config.cue
~~~

## Example configuration:
~~~cue
container_engine: "podman"

agent: {
  base_port: 8060
  wallet_type: "askar-anoncreds"
}

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write the build context to a protected directory
- The container engine requires elevated permissions

## Things you can try:
- Check file/directory permissions
- For containers, ensure you're in the docker/podman group:
~~~
$ sudo usermod -aG docker $USER
~~~

- Use rootless containers with Podman
- Run vcdemo from a directory you own`,
	}

	issues = map[Id]*Issue{
		demofileNotFoundIssue.Id():         demofileNotFoundIssue,
		demofileParseErrorIssue.Id():       demofileParseErrorIssue,
		containerEngineNotFoundIssue.Id():  containerEngineNotFoundIssue,
		imageBuildFailedIssue.Id():         imageBuildFailedIssue,
		tunnelNotReadyIssue.Id():           tunnelNotReadyIssue,
		agentStartFailedIssue.Id():         agentStartFailedIssue,
		adminRequestFailedIssue.Id():       adminRequestFailedIssue,
		webhookServerFailedIssue.Id():      webhookServerFailedIssue,
		connectionTimeoutIssue.Id():        connectionTimeoutIssue,
		credentialExchangeFailedIssue.Id(): credentialExchangeFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
