// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"vcdemo-cli/pkg/types"
)

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")

	tests := []struct {
		name string
		opts BuildOptions
		want []string
	}{
		{
			name: "minimal",
			opts: BuildOptions{ContextDir: "/ctx"},
			want: []string{"build", "/ctx"},
		},
		{
			name: "dockerfile resolved against context",
			opts: BuildOptions{ContextDir: "/ctx", Dockerfile: "Dockerfile.demo"},
			want: []string{"build", "-f", "/ctx/Dockerfile.demo", "/ctx"},
		},
		{
			name: "absolute dockerfile kept",
			opts: BuildOptions{ContextDir: "/ctx", Dockerfile: "/elsewhere/Dockerfile"},
			want: []string{"build", "-f", "/elsewhere/Dockerfile", "/ctx"},
		},
		{
			name: "tag and no-cache",
			opts: BuildOptions{ContextDir: "/ctx", Tag: "vcdemo:latest", NoCache: true},
			want: []string{"build", "-t", "vcdemo:latest", "--no-cache", "/ctx"},
		},
		{
			name: "labels",
			opts: BuildOptions{ContextDir: "/ctx", Labels: map[string]string{"vcdemo.content-hash": "abc123"}},
			want: []string{"build", "--label", "vcdemo.content-hash=abc123", "/ctx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.BuildArgs(tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("BuildArgs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("BuildArgs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRunArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")

	opts := RunOptions{
		Image:      "vcdemo:latest",
		Name:       "vcdemo-issuer",
		Command:    []string{"--port", "8060"},
		Env:        map[string]string{"TUNNEL_ENDPOINT": "http://ngrok:4040"},
		Ports:      []PortMapping{{HostPort: 8060, ContainerPort: 8060}},
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
		Network:    "vcdemo",
		Detach:     true,
		Remove:     true,
	}

	args := e.RunArgs(opts)
	joined := strings.Join(args, " ")

	if args[0] != "run" {
		t.Errorf("first arg = %q, want run", args[0])
	}
	for _, want := range []string{
		"-d",
		"--rm",
		"--name vcdemo-issuer",
		"--network vcdemo",
		"-e TUNNEL_ENDPOINT=http://ngrok:4040",
		"-p 8060:8060",
		"--add-host host.docker.internal:host-gateway",
		"vcdemo:latest --port 8060",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("RunArgs() = %q, want it to contain %q", joined, want)
		}
	}

	// The image must come before the command.
	imgIdx := strings.Index(joined, "vcdemo:latest")
	cmdIdx := strings.Index(joined, "--port")
	if imgIdx > cmdIdx {
		t.Errorf("image appears after command in %q", joined)
	}
}

func TestRunArgs_Transformer(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("podman", WithRunArgsTransformer(func(args []string) []string {
		return append([]string{args[0], "--userns=keep-id"}, args[1:]...)
	}))

	args := e.RunArgs(RunOptions{Image: "vcdemo:latest"})
	if args[1] != "--userns=keep-id" {
		t.Errorf("args[1] = %q, want --userns=keep-id", args[1])
	}
}

func TestStopAndRemoveArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")

	if got := strings.Join(e.StopArgs("abc", 10), " "); got != "stop -t 10 abc" {
		t.Errorf("StopArgs() = %q", got)
	}
	if got := strings.Join(e.StopArgs("abc", 0), " "); got != "stop abc" {
		t.Errorf("StopArgs() without timeout = %q", got)
	}
	if got := strings.Join(e.RemoveArgs("abc", true), " "); got != "rm -f abc" {
		t.Errorf("RemoveArgs() = %q", got)
	}
	if got := strings.Join(e.LogsArgs("abc", true), " "); got != "logs -f abc" {
		t.Errorf("LogsArgs() = %q", got)
	}
	if got := strings.Join(e.RemoveImageArgs("vcdemo:latest", false), " "); got != "rmi vcdemo:latest" {
		t.Errorf("RemoveImageArgs() = %q", got)
	}
}

func TestRun_DetachedCapturesContainerID(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.Stdout = "f00dfeed\n"
	e := newMockedDockerEngine(t, recorder)

	result, err := e.Run(context.Background(), RunOptions{Image: "vcdemo:latest", Detach: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ContainerID != "f00dfeed" {
		t.Errorf("ContainerID = %q, want f00dfeed", result.ContainerID)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	recorder.AssertFirstArg(t, "run")
}

func TestRun_NonZeroExitCaptured(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 3
	e := newMockedDockerEngine(t, recorder)

	result, err := e.Run(context.Background(), RunOptions{Image: "vcdemo:latest"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ExitCode != types.ExitCode(3) {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("Error = %v, want nil for plain exit code", result.Error)
	}
}

func TestRun_InvalidPortRejected(t *testing.T) {
	recorder := NewMockCommandRecorder()
	e := newMockedDockerEngine(t, recorder)

	_, err := e.Run(context.Background(), RunOptions{
		Image: "vcdemo:latest",
		Ports: []PortMapping{{HostPort: 0, ContainerPort: 8060}},
	})
	if err == nil {
		t.Fatal("Run() succeeded with zero host port")
	}
	if !errors.Is(err, ErrInvalidPortMapping) {
		t.Errorf("error = %v, want ErrInvalidPortMapping", err)
	}
	recorder.AssertInvocationCount(t, 0)
}

func TestBuild_FailureIsActionable(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 1
	e := newMockedDockerEngine(t, recorder)

	err := e.Build(context.Background(), BuildOptions{ContextDir: "/ctx", Tag: "vcdemo:latest"})
	if err == nil {
		t.Fatal("Build() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "build demo image") {
		t.Errorf("error %q does not describe the build operation", err.Error())
	}
}

func TestLogs_WritesOutput(t *testing.T) {
	recorder := NewMockCommandRecorder()
	recorder.Stdout = "agent started\n"
	e := newMockedDockerEngine(t, recorder)

	var buf bytes.Buffer
	if err := e.Logs(context.Background(), "abc", false, &buf); err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if !strings.Contains(buf.String(), "agent started") {
		t.Errorf("Logs output = %q", buf.String())
	}
	recorder.AssertFirstArg(t, "logs")
}

func TestImageLabels(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   map[string]string
	}{
		{
			name:   "labels present",
			stdout: `{"vcdemo.content-hash":"abc123"}`,
			want:   map[string]string{"vcdemo.content-hash": "abc123"},
		},
		{
			name:   "null labels",
			stdout: "null\n",
			want:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := NewMockCommandRecorder()
			recorder.Stdout = tt.stdout
			e := newMockedDockerEngine(t, recorder)

			got, err := e.ImageLabels(context.Background(), "vcdemo:latest")
			if err != nil {
				t.Fatalf("ImageLabels() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ImageLabels() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ImageLabels()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestPortMapping(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()
		if got := (PortMapping{HostPort: 8060, ContainerPort: 8060}).String(); got != "8060:8060" {
			t.Errorf("String() = %q", got)
		}
		if got := (PortMapping{HostPort: 53, ContainerPort: 53, Protocol: PortProtocolUDP}).String(); got != "53:53/udp" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("parse", func(t *testing.T) {
		t.Parallel()
		p, err := ParsePortMapping("8061:8061/tcp")
		if err != nil {
			t.Fatalf("ParsePortMapping() error = %v", err)
		}
		if p.HostPort != 8061 || p.ContainerPort != 8061 || p.Protocol != PortProtocolTCP {
			t.Errorf("ParsePortMapping() = %+v", p)
		}

		if _, err := ParsePortMapping("8061"); err == nil {
			t.Error("ParsePortMapping() accepted a mapping without separator")
		}
		if _, err := ParsePortMapping("0:8061"); err == nil {
			t.Error("ParsePortMapping() accepted a zero host port")
		}
	})

	t.Run("same port helper", func(t *testing.T) {
		t.Parallel()
		p := SamePort(types.ListenPort(8062))
		if p.HostPort != 8062 || p.ContainerPort != 8062 {
			t.Errorf("SamePort() = %+v", p)
		}
	})
}

func TestVolumeMount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mount VolumeMount
		want  string
	}{
		{"plain", VolumeMount{HostPath: "/host/logs", ContainerPath: "/home/indy/logs"}, "/host/logs:/home/indy/logs"},
		{"read only", VolumeMount{HostPath: "/a", ContainerPath: "/b", ReadOnly: true}, "/a:/b:ro"},
		{"selinux shared", VolumeMount{HostPath: "/a", ContainerPath: "/b", SELinux: SELinuxLabelShared}, "/a:/b:z"},
		{"read only with selinux", VolumeMount{HostPath: "/a", ContainerPath: "/b", ReadOnly: true, SELinux: SELinuxLabelPrivate}, "/a:/b:ro,Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.mount.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if err := tt.mount.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}

	t.Run("empty host path rejected", func(t *testing.T) {
		t.Parallel()
		err := VolumeMount{ContainerPath: "/b"}.Validate()
		if !errors.Is(err, ErrInvalidVolumeMount) {
			t.Errorf("Validate() = %v, want ErrInvalidVolumeMount", err)
		}
	})
}
