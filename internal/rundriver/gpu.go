package rundriver

import (
	"strings"

	"github.com/FredworkLemmas/ozwald-sub000/internal/hostresources"
)

// gpuRequested reports whether the effective definition's environment asks
// for GPU access: a case-insensitive GPU=1/true/yes check.
func gpuRequested(env map[string]string) bool {
	v := strings.ToLower(strings.TrimSpace(env["GPU"]))
	return v == "1" || v == "true" || v == "yes"
}

// gpuOpts builds the gpu_opts segment of the start command (§4.5): included
// only when the environment requests a GPU and a matching driver is present
// on the host. amdgpu needs device nodes and an unconfined seccomp profile;
// nvidia needs the nvidia-container-toolkit's --gpus flag.
func gpuOpts(env map[string]string) []string {
	if !gpuRequested(env) {
		return nil
	}

	drivers := hostresources.InstalledGPUDrivers()
	var opts []string
	if hostresources.HasDriver(drivers, "amdgpu") {
		opts = append(opts, "--device", "/dev/kfd", "--device", "/dev/dri", "--security-opt", "seccomp=unconfined")
	}
	if hostresources.HasDriver(drivers, "nvidia") {
		opts = append(opts, "--gpus", "all")
	}
	return opts
}
