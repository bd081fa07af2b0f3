package hostresources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelta_NonNegative(t *testing.T) {
	pre := &Snapshot{AvailableCPUCores: 4, AvailableMemoryGB: 8}
	post := &Snapshot{AvailableCPUCores: 6, AvailableMemoryGB: 10} // more available post than pre

	cpuCores, memGB, vramGB := Delta(pre, post)
	assert.Equal(t, 0.0, cpuCores)
	assert.Equal(t, 0.0, memGB)
	assert.Equal(t, 0.0, vramGB)
}

func TestDelta_PositiveUsage(t *testing.T) {
	pre := &Snapshot{AvailableCPUCores: 8, AvailableMemoryGB: 16}
	post := &Snapshot{AvailableCPUCores: 6, AvailableMemoryGB: 12}

	cpuCores, memGB, _ := Delta(pre, post)
	assert.Equal(t, 2.0, cpuCores)
	assert.Equal(t, 4.0, memGB)
}

func TestHasDriver(t *testing.T) {
	assert.True(t, HasDriver([]string{"amdgpu", "nvidia"}, "nvidia"))
	assert.False(t, HasDriver([]string{"amdgpu"}, "nvidia"))
}
