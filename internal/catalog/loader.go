package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rawDocument mirrors the top-level catalog shape (§6.1) before profiles and
// varieties are normalized out of their map-or-list ambiguity.
type rawDocument struct {
	Hosts        []yaml.Node       `yaml:"hosts"`
	Provisioners []ProvisionerConfig `yaml:"provisioners"`
	Services     []rawService      `yaml:"services"`
}

type rawService struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Description string            `yaml:"description"`
	Image       string            `yaml:"image"`
	DependsOn   []string          `yaml:"depends_on"`
	Command     []string          `yaml:"command"`
	Entrypoint  []string          `yaml:"entrypoint"`
	EnvFile     []string          `yaml:"env_file"`
	Environment map[string]string `yaml:"environment"`
	Footprint   FootprintSpec     `yaml:"footprint"`
	Profiles    yaml.Node         `yaml:"profiles"`
	Varieties   yaml.Node         `yaml:"varieties"`
}

// rawLayerEntry is a Layer plus the optional `name` field used by the
// list-of-layers form of profiles/varieties.
type rawLayerEntry struct {
	Name string `yaml:"name"`
	Layer
}

// Load reads and parses a catalog file from disk. A missing file is a fatal
// ConfigError: unlike the usage-record file (§6.2), the catalog has no
// "absent means empty" fallback.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(path, "catalog file does not exist", err)
		}
		return nil, NewConfigErrorWithCause(path, "failed to read catalog file", err)
	}

	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewConfigErrorWithCause(path, "failed to parse catalog YAML", err)
	}

	cat := &Catalog{
		Provisioners: doc.Provisioners,
		services:     make(map[string]*ServiceDefinition, len(doc.Services)),
	}

	for _, rs := range doc.Services {
		if rs.Name == "" {
			return nil, NewConfigError(path, "service entry missing required 'name' field")
		}

		profiles, err := normalizeLayerSet(rs.Profiles)
		if err != nil {
			return nil, NewConfigErrorWithCause(path, fmt.Sprintf("service %q: invalid profiles", rs.Name), err)
		}
		varieties, err := normalizeLayerSet(rs.Varieties)
		if err != nil {
			return nil, NewConfigErrorWithCause(path, fmt.Sprintf("service %q: invalid varieties", rs.Name), err)
		}

		def := &ServiceDefinition{
			Name:        rs.Name,
			Type:        rs.Type,
			Description: rs.Description,
			Layer: Layer{
				Image:       rs.Image,
				DependsOn:   rs.DependsOn,
				Command:     rs.Command,
				Entrypoint:  rs.Entrypoint,
				EnvFile:     rs.EnvFile,
				Environment: rs.Environment,
				Footprint:   rs.Footprint,
			},
			Profiles:  profiles,
			Varieties: varieties,
		}

		if _, exists := cat.services[def.Name]; exists {
			return nil, NewConfigError(path, fmt.Sprintf("duplicate service name %q", def.Name))
		}
		cat.services[def.Name] = def
	}

	return cat, nil
}

// normalizeLayerSet accepts either a mapping `{name: {...}}` or a sequence
// `[{name: ..., ...}]` and normalizes both into a map keyed by name, so
// catalogs can be authored in whichever style is more convenient.
func normalizeLayerSet(node yaml.Node) (map[string]Layer, error) {
	result := make(map[string]Layer)
	if node.Kind == 0 {
		return result, nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		raw := make(map[string]Layer)
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		for name, layer := range raw {
			result[name] = layer
		}
	case yaml.SequenceNode:
		var entries []rawLayerEntry
		if err := node.Decode(&entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Name == "" {
				return nil, fmt.Errorf("list-form entry missing required 'name' field")
			}
			result[entry.Name] = entry.Layer
		}
	default:
		return nil, fmt.Errorf("expected mapping or sequence, got %v", node.Kind)
	}

	return result, nil
}
