// Package model holds the wire/persistence types shared across the store,
// reconciler, footprinter, and control-plane packages: Instance (§3
// "Instance (ServiceInformation)"), FootprintRequest, and UsageRecord.
package model

import "time"

// Status is the instance lifecycle state (§3, §4.6 state machine).
type Status string

const (
	StatusStarting Status = "STARTING"
	StatusAvailable Status = "AVAILABLE"
	StatusStopping  Status = "STOPPING"
)

// Instance is a named, reified selection of (service, profile?, variety?)
// with a status and an open info map. The reconciler writes four
// well-known info keys: start_initiated, start_completed, stop_initiated,
// stop_completed, plus container_id.
type Instance struct {
	Name    string            `json:"name"`
	Service string            `json:"service"`
	Profile string            `json:"profile,omitempty"`
	Variety string            `json:"variety,omitempty"`
	Status  Status            `json:"status"`
	Info    map[string]string `json:"info"`
}

const (
	InfoStartInitiated = "start_initiated"
	InfoStartCompleted = "start_completed"
	InfoStopInitiated  = "stop_initiated"
	InfoStopCompleted  = "stop_completed"
	InfoContainerID    = "container_id"
)

// EnsureInfo returns the instance's Info map, allocating it if nil.
func (i *Instance) EnsureInfo() map[string]string {
	if i.Info == nil {
		i.Info = make(map[string]string)
	}
	return i.Info
}

// TimestampKey reads a §3 well-known info timestamp key as a time.Time. It
// returns the zero time and false if the key is absent or unparsable.
func (i *Instance) TimestampKey(key string) (time.Time, bool) {
	if i.Info == nil {
		return time.Time{}, false
	}
	raw, ok := i.Info[key]
	if !ok || raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetTimestampKey stamps a §3 well-known info timestamp key with now, in
// RFC3339Nano so round-tripping through JSON/YAML preserves ordering.
func (i *Instance) SetTimestampKey(key string, now time.Time) {
	i.EnsureInfo()[key] = now.Format(time.RFC3339Nano)
}

// FootprintServiceSelector names one (service, profile?, variety?) target
// within a FootprintRequest's explicit service list.
type FootprintServiceSelector struct {
	ServiceName string `json:"service_name"`
	Profile     string `json:"profile,omitempty"`
	Variety     string `json:"variety,omitempty"`
}

// FootprintRequest is a single pending or in-progress footprinting job (§3,
// §4.7).
type FootprintRequest struct {
	RequestID           string                      `json:"request_id"`
	FootprintAllServices bool                        `json:"footprint_all_services"`
	Services             []FootprintServiceSelector `json:"services"`
	RequestedAt          time.Time                   `json:"requested_at"`
	FootprintStartedAt   *time.Time                  `json:"footprint_started_at,omitempty"`
	FootprintInProgress  bool                        `json:"footprint_in_progress"`
}

// ResourceUsage is the measured delta for one footprinted service variant.
type ResourceUsage struct {
	CPUCores  float64 `yaml:"cpu_cores" json:"cpu_cores"`
	MemoryGB  float64 `yaml:"memory_gb" json:"memory_gb"`
	VRAMGB    float64 `yaml:"vram_gb" json:"vram_gb"`
}

// UsageRecord is one entry of the usage-record file (§6.2), upserted and
// written back sorted by (ServiceName, Profile, Variety).
type UsageRecord struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Profile     string        `yaml:"profile,omitempty" json:"profile,omitempty"`
	Variety     string        `yaml:"variety,omitempty" json:"variety,omitempty"`
	Usage       ResourceUsage `yaml:"usage" json:"usage"`
}

// Key returns the (service, profile, variety) identity used for upsert
// matching and sort ordering in the usage-record file.
func (u UsageRecord) Key() [3]string {
	return [3]string{u.ServiceName, u.Profile, u.Variety}
}
