package rundriver

import (
	"context"
	"fmt"
	"time"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const subsystem = "RunDriver"

const (
	pollInterval = 1 * time.Second
	pollDeadline = 30 * time.Second
)

// ContainerProvisioner is the C5 Container Driver: it turns an Instance and
// its EffectiveDefinition into runtime start/stop calls and is the one
// component that mutates info.container_id, info.stop_completed, and status
// on the driver's own authority (§4.5). It implements registry.Provisioner
// structurally, without importing that package.
type ContainerProvisioner struct {
	Runtime ContainerRuntime
	Prefix  string
	Realm   string
}

// NewContainerProvisioner wires a ContainerRuntime (typically a
// *DockerRuntime) into the registry-facing C5 contract.
func NewContainerProvisioner(runtime ContainerRuntime, prefix, realm string) *ContainerProvisioner {
	return &ContainerProvisioner{Runtime: runtime, Prefix: prefix, Realm: realm}
}

// Start drives an instance through the container-start path. It must not
// transition status or write container_id until the runtime confirms the
// container is running; on timeout it leaves status STARTING and logs,
// rather than failing the caller (§4.5).
func (p *ContainerProvisioner) Start(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	name := ContainerName(p.Prefix, p.Realm, inst.Name)

	cfg := ContainerConfig{
		Name:       name,
		Image:      eff.Image,
		EnvFiles:   eff.EnvFile,
		Env:        eff.Environment,
		Entrypoint: eff.Entrypoint,
		GPUOpts:    gpuOpts(eff.Environment),
	}

	if err := p.Runtime.PullImage(ctx, eff.Image); err != nil {
		logging.Warn(subsystem, "pull image %s failed, attempting to run anyway: %v", eff.Image, err)
	}

	containerID, err := p.Runtime.StartContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start container for instance %s: %w", inst.Name, err)
	}

	deadline := time.Now().Add(pollDeadline)
	for {
		running, err := p.Runtime.IsContainerRunning(ctx, containerID)
		if err == nil && running {
			inst.EnsureInfo()[model.InfoContainerID] = containerID
			inst.Status = model.StatusAvailable
			return nil
		}
		if time.Now().After(deadline) {
			logging.Warn(subsystem, "instance %s did not reach running state within %s", inst.Name, pollDeadline)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Stop drives an instance through the container-stop path: issue stop, poll
// until not running, remove the container, and set stop_completed. A
// missing container_id is a warn-and-skip, not an error (§4.5).
func (p *ContainerProvisioner) Stop(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	containerID := inst.Info[model.InfoContainerID]
	if containerID == "" {
		logging.Warn(subsystem, "instance %s has no container_id to stop", inst.Name)
		inst.EnsureInfo()[model.InfoStopCompleted] = time.Now().UTC().Format(time.RFC3339Nano)
		return nil
	}

	if err := p.Runtime.StopContainer(ctx, containerID); err != nil {
		return fmt.Errorf("stop container for instance %s: %w", inst.Name, err)
	}

	deadline := time.Now().Add(pollDeadline)
	for {
		running, err := p.Runtime.IsContainerRunning(ctx, containerID)
		if err != nil || !running {
			break
		}
		if time.Now().After(deadline) {
			logging.Warn(subsystem, "instance %s did not stop within %s", inst.Name, pollDeadline)
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	if err := p.Runtime.RemoveContainer(ctx, containerID); err != nil {
		logging.Warn(subsystem, "remove container for instance %s failed: %v", inst.Name, err)
	}

	inst.EnsureInfo()[model.InfoStopCompleted] = time.Now().UTC().Format(time.RFC3339Nano)
	return nil
}
