// Package rundriver implements the Container Driver (C5): it turns an
// Instance and its EffectiveDefinition into container runtime invocations
// (start/stop/poll), and it is the one place command-line concatenation
// order (§4.5) and instance naming (§6.4) live.
package rundriver

import (
	"context"
	"io"
)

// ContainerRuntime defines the interface for container runtime operations
type ContainerRuntime interface {
	// PullImage pulls a container image if not already present
	PullImage(ctx context.Context, image string) error

	// StartContainer starts a container with the given configuration
	StartContainer(ctx context.Context, config ContainerConfig) (string, error)

	// StopContainer stops a running container
	StopContainer(ctx context.Context, containerID string) error

	// GetContainerLogs returns a reader for container logs
	GetContainerLogs(ctx context.Context, containerID string) (io.ReadCloser, error)

	// IsContainerRunning checks if a container is running
	IsContainerRunning(ctx context.Context, containerID string) (bool, error)

	// GetContainerPort gets the mapped host port for a container port
	GetContainerPort(ctx context.Context, containerID string, containerPort string) (string, error)

	// RemoveContainer removes a container
	RemoveContainer(ctx context.Context, containerID string) error
}

// ContainerConfig holds configuration for starting a container. Fields map
// onto the fixed concatenation order from §4.5:
// [runtime, "run", standard_opts, gpu_opts, port_opts, env_opts, volume_opts, image_ref].
type ContainerConfig struct {
	Name       string            // Container name (already realm/prefix-qualified, §6.4)
	Image      string            // Container image ref
	EnvFiles   []string          // --env-file paths, from the effective definition's env_file list
	Env        map[string]string // Environment variables -> env_opts (override env_file values)
	Ports      []string          // Port mappings (host:container) -> port_opts
	Volumes    []string          // Volume mounts (host:container) -> volume_opts
	Entrypoint []string          // Entrypoint override
	User       string            // User to run as
	GPUOpts    []string          // Pre-built GPU flags, included only when GPU is requested and detected
}
