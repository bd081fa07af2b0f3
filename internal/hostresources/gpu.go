package hostresources

import (
	"os"
	"os/exec"
)

// GPUResource describes one detected GPU for the control-plane resources
// report and the Container Driver's GPU-option decision (§4.5).
type GPUResource struct {
	ID            string  `json:"gpu_id"`
	Driver        string  `json:"driver"` // "amdgpu" or "nvidia"
	VRAMTotalGB   float64 `json:"vram_total_gb"`
	VRAMUsedGB    float64 `json:"vram_used_gb"`
	Available     bool    `json:"available"`
}

// InstalledGPUDrivers reports which GPU driver families are present on the
// host, checking amdgpu via /dev/kfd and the kernel module directory, then
// nvidia via the /dev/nvidia0 device node or an nvidia-smi binary on PATH.
// Detection only probes the filesystem and PATH: it runs no vendor tool and
// links no vendor SDK.
func InstalledGPUDrivers() []string {
	var drivers []string

	if pathExists("/dev/kfd") || pathExists("/sys/module/amdgpu") {
		drivers = append(drivers, "amdgpu")
	}
	if pathExists("/dev/nvidia0") || commandExists("nvidia-smi") {
		drivers = append(drivers, "nvidia")
	}

	return drivers
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// HasDriver reports whether driver is present in a drivers slice, as
// returned by InstalledGPUDrivers.
func HasDriver(drivers []string, driver string) bool {
	for _, d := range drivers {
		if d == driver {
			return true
		}
	}
	return false
}
