package hostresources

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const bytesPerGB = 1024 * 1024 * 1024

// Snapshot is a point-in-time read of host resource availability, used both
// by the footprinter for pre/post deltas and by the control-plane resources
// report.
type Snapshot struct {
	AvailableCPUCores float64
	TotalCPUCores     float64
	AvailableMemoryGB float64
	TotalMemoryGB     float64
	GPUs              []GPUResource
}

// Inspect reads current CPU, memory, and GPU state. CPU "available" is
// approximated as total cores scaled by (1 - load fraction), where the load
// fraction is read with a zero interval (measured against gopsutil's previous
// sample rather than over a fixed window), giving an available-vs-total
// distinction without requiring a cgroup-aware reservation tracker.
func Inspect(ctx context.Context) (*Snapshot, error) {
	total, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("count cpus: %w", err)
	}

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("sample cpu load: %w", err)
	}
	loadFraction := 0.0
	if len(percents) > 0 {
		loadFraction = percents[0] / 100.0
	}

	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}

	snap := &Snapshot{
		TotalCPUCores:     float64(total),
		AvailableCPUCores: float64(total) * (1 - loadFraction),
		TotalMemoryGB:     float64(vmem.Total) / bytesPerGB,
		AvailableMemoryGB: float64(vmem.Available) / bytesPerGB,
		GPUs:              detectGPUs(),
	}
	return snap, nil
}

// detectGPUs builds a best-effort GPU inventory. Without a vendor SDK
// dependency in the retrieval pack, it reports presence/absence per driver
// family rather than precise per-card VRAM figures: VRAMTotalGB and
// VRAMUsedGB are left at zero.
func detectGPUs() []GPUResource {
	drivers := InstalledGPUDrivers()
	gpus := make([]GPUResource, 0, len(drivers))
	for i, d := range drivers {
		gpus = append(gpus, GPUResource{
			ID:        fmt.Sprintf("gpu_%d", i),
			Driver:    d,
			Available: true,
		})
	}
	return gpus
}

// Delta computes max(0, pre-post) per §4.7 step e for CPU cores, RAM GB, and
// VRAM GB (VRAM is summed across detected GPUs).
func Delta(pre, post *Snapshot) (cpuCores, memoryGB, vramGB float64) {
	cpuCores = nonNegative(pre.AvailableCPUCores - post.AvailableCPUCores)
	memoryGB = nonNegative(pre.AvailableMemoryGB - post.AvailableMemoryGB)
	vramGB = nonNegative(preVRAM(pre) - preVRAM(post))
	return
}

func preVRAM(s *Snapshot) float64 {
	total := 0.0
	for _, g := range s.GPUs {
		total += g.VRAMTotalGB - g.VRAMUsedGB
	}
	return total
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
