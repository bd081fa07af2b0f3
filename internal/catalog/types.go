package catalog

// FootprintSpec holds the footprinting knobs carried by a service, profile,
// or variety definition.
type FootprintSpec struct {
	RunTime float64 `yaml:"run_time,omitempty" json:"run_time,omitempty"`
}

// Layer carries the fields shared by the base ServiceDefinition, its
// Profiles, and its Varieties. Identity (the map key in the parent) is not
// part of the layer itself.
type Layer struct {
	Image       string            `yaml:"image,omitempty" json:"image,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Command     []string          `yaml:"command,omitempty" json:"command,omitempty"`
	Entrypoint  []string          `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	EnvFile     []string          `yaml:"env_file,omitempty" json:"env_file,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty" json:"environment,omitempty"`
	Footprint   FootprintSpec     `yaml:"footprint,omitempty" json:"footprint,omitempty"`
}

// ServiceDefinition is one `services[]` entry of the catalog (§6.1).
type ServiceDefinition struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Layer       `json:",inline"`
	Profiles    map[string]Layer `json:"profiles,omitempty"`
	Varieties   map[string]Layer `json:"varieties,omitempty"`
}

// ProvisionerConfig is one `provisioners[]` entry; it names the cache backend
// a given provisioner should use.
type ProvisionerConfig struct {
	Name  string              `yaml:"name" json:"name"`
	Host  string              `yaml:"host" json:"host"`
	Cache ProvisionerCacheSpec `yaml:"cache" json:"cache"`
}

// ProvisionerCacheSpec describes the key-value backend for a provisioner.
type ProvisionerCacheSpec struct {
	Type       string               `yaml:"type" json:"type"`
	Parameters ProvisionerCacheParams `yaml:"parameters" json:"parameters"`
}

// ProvisionerCacheParams are the connection parameters for the cache.
type ProvisionerCacheParams struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	DB       int    `yaml:"db" json:"db"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

// EffectiveDefinition is the computed, per-instance merged view described in
// §3: base ← variety ← profile.
type EffectiveDefinition struct {
	ServiceName string            `json:"service_name"`
	Type        string            `json:"type"`
	Profile     string            `json:"profile,omitempty"`
	Variety     string            `json:"variety,omitempty"`
	Image       string            `json:"image"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	Command     []string          `json:"command,omitempty"`
	Entrypoint  []string          `json:"entrypoint,omitempty"`
	EnvFile     []string          `json:"env_file,omitempty"`
	Environment map[string]string `json:"environment"`
	Footprint   FootprintSpec     `json:"footprint"`
}
