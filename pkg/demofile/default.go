// SPDX-License-Identifier: MPL-2.0

package demofile

// Default recipe constants. These reproduce the stock verifiable-credential
// demo image: a prebuilt agent base image, the jq binary for JSON handling in
// the entrypoint script, five requirement sets plus the demo set, and the
// ngrok wait wrapper as entrypoint.
const (
	// DefaultBaseImage is the prebuilt agent runtime image the demo derives from.
	DefaultBaseImage = "bcgovimages/von-image:py36-1.16-1"

	// DefaultServiceAccount is the non-root user that owns the demo directories.
	DefaultServiceAccount = "indy"

	// DefaultJQURL is the pinned jq release fetched into the image. The
	// entrypoint script uses it to extract the public tunnel URL from the
	// ngrok API response.
	DefaultJQURL = "https://github.com/stedolan/jq/releases/download/jq-1.6/jq-linux64"
)

// Default returns the built-in demofile describing the stock demo image.
// `vcdemo init` writes this descriptor out as demofile.cue, and `vcdemo build`
// falls back to it when no demofile is found.
func Default() *Demofile {
	return &Demofile{
		BaseImage:      DefaultBaseImage,
		ServiceAccount: DefaultServiceAccount,
		Tools: []ToolFetch{
			{Dest: "bin/jq", URL: DefaultJQURL, Mode: "0755"},
		},
		Sets: []RequirementSet{
			{Name: "core", Manifest: "requirements.txt"},
			{Name: "askar", Manifest: "requirements.askar.txt"},
			{Name: "bbs", Manifest: "requirements.bbs.txt"},
			{Name: "dev", Manifest: "requirements.dev.txt"},
			{Name: "indy", Manifest: "requirements.indy.txt"},
			{Name: "demo", Manifest: "demo/requirements.txt"},
		},
		Dirs: []DirSpec{
			{Path: "demo", Owner: DefaultServiceAccount, GroupWritable: true},
			{Path: "logs", Owner: DefaultServiceAccount, GroupWritable: true},
		},
		Copies: []CopyStep{
			{Source: ".", Dest: "demo"},
		},
		Env: map[string]string{
			"ENABLE_PTVSD":          "0",
			"ENABLE_PYDEVD_PYCHARM": "0",
			"PYDEVD_PYCHARM_HOST":   "host.docker.internal",
			"ACAPY_DEBUG_WEBHOOKS":  "1",
		},
		// The literal "--" makes bash forward container arguments to the
		// wrapped script, so the container's exit code is the script's.
		Entrypoint: Entrypoint{
			Command: "bash",
			Args:    []string{"-c", `demo/ngrok-wait.sh "$@"`, "--"},
		},
	}
}
