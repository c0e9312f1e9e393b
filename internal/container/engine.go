// SPDX-License-Identifier: EPL-2.0

// Package container provides an abstraction layer for container engines
// (Docker/Podman). The demo uses it twice: once to build the agent image from
// the demofile recipe, and once to run the tunnel and agent containers it
// orchestrates.
package container

import (
	"context"
	"fmt"
	"io"

	"vcdemo-cli/pkg/types"
)

// Engine defines the interface for container operations.
type Engine interface {
	// Name returns the engine name (docker or podman)
	Name() string
	// Available checks if the engine is available on the system
	Available() bool
	// Version returns the engine version
	Version(ctx context.Context) (string, error)

	// Build builds an image from a Dockerfile
	Build(ctx context.Context, opts BuildOptions) error
	// Run runs a container; with Detach set it returns once the container
	// is started and RunResult carries the container ID
	Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	// Stop stops a running container
	Stop(ctx context.Context, containerID ContainerID, timeoutSeconds int) error
	// Remove removes a container
	Remove(ctx context.Context, containerID ContainerID, force bool) error
	// Logs streams a container's output to w
	Logs(ctx context.Context, containerID ContainerID, follow bool, w io.Writer) error
	// ImageExists checks if an image exists
	ImageExists(ctx context.Context, image ImageTag) (bool, error)
	// ImageLabels returns the labels of an image (the build cache key lives here)
	ImageLabels(ctx context.Context, image ImageTag) (map[string]string, error)
	// RemoveImage removes an image
	RemoveImage(ctx context.Context, image ImageTag, force bool) error
}

// ImageTag is a container image reference (name[:tag]).
type ImageTag string

// String returns the string representation of the ImageTag.
func (t ImageTag) String() string { return string(t) }

// ContainerID identifies a created container (ID or name).
type ContainerID string

// String returns the string representation of the ContainerID.
func (c ContainerID) String() string { return string(c) }

// ContainerName is a user-assigned container name.
type ContainerName string

// String returns the string representation of the ContainerName.
func (n ContainerName) String() string { return string(n) }

// BuildOptions contains options for building an image.
type BuildOptions struct {
	// ContextDir is the build context directory
	ContextDir string
	// Dockerfile is the path to the Dockerfile (relative to ContextDir)
	Dockerfile string
	// Tag is the image tag
	Tag ImageTag
	// BuildArgs are build-time variables
	BuildArgs map[string]string
	// Labels are applied to the built image
	Labels map[string]string
	// NoCache disables the build cache
	NoCache bool
	// Stdout is where to write build output
	Stdout io.Writer
	// Stderr is where to write build errors
	Stderr io.Writer
}

// RunOptions contains options for running a container.
type RunOptions struct {
	// Image is the image to run
	Image ImageTag
	// Name is the container name
	Name ContainerName
	// Command overrides the image entrypoint arguments
	Command []string
	// Env contains environment variables
	Env map[string]string
	// Ports are port mappings published on the host
	Ports []PortMapping
	// Volumes are volume mounts
	Volumes []VolumeMount
	// ExtraHosts are additional host-to-IP mappings (e.g., "host.docker.internal:host-gateway")
	ExtraHosts []string
	// Network is the container network to join (the tunnel and agents share one)
	Network string
	// Labels are applied to the container
	Labels map[string]string
	// WorkDir is the working directory inside the container
	WorkDir string
	// Detach starts the container in the background
	Detach bool
	// Remove automatically removes the container after exit
	Remove bool
	// Interactive enables interactive mode
	Interactive bool
	// TTY allocates a pseudo-TTY
	TTY bool
	// Stdin is the standard input
	Stdin io.Reader
	// Stdout is where to write standard output
	Stdout io.Writer
	// Stderr is where to write standard error
	Stderr io.Writer
}

// RunResult contains the result of running a container.
type RunResult struct {
	// ContainerID is the container ID (for detached runs, read from stdout)
	ContainerID ContainerID
	// ExitCode is the exit code of the container process
	ExitCode types.ExitCode
	// Error contains any infrastructure error
	Error error
}

// EngineType identifies the container engine type.
type EngineType string

const (
	EngineTypePodman EngineType = "podman"
	EngineTypeDocker EngineType = "docker"
)

// ErrEngineNotAvailable is returned when a container engine is not available.
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a new container engine based on preference, falling back
// to the other engine when the preferred one is missing.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return engine, nil
		}
		dockerEngine := NewDockerEngine()
		if dockerEngine.Available() {
			return dockerEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return engine, nil
		}
		podmanEngine := NewPodmanEngine()
		if podmanEngine.Available() {
			return podmanEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine.
func AutoDetectEngine() (Engine, error) {
	// Podman first (more commonly available in rootless setups)
	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}

	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (podman or docker) is available on this system",
	}
}
