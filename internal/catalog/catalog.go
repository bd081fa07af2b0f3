package catalog

// Catalog is the immutable, in-memory view of the service catalog loaded at
// process start (C1). It is safe for concurrent read-only use by C5, C6, and
// C7; there is no reload path short of restarting the process.
type Catalog struct {
	Provisioners []ProvisionerConfig
	services     map[string]*ServiceDefinition
}

// GetService returns the named ServiceDefinition, or false if it is not
// present in the catalog.
func (c *Catalog) GetService(name string) (*ServiceDefinition, bool) {
	def, ok := c.services[name]
	return def, ok
}

// Services returns every ServiceDefinition in the catalog, in no particular
// order; callers that need stable ordering should sort by name.
func (c *Catalog) Services() []*ServiceDefinition {
	out := make([]*ServiceDefinition, 0, len(c.services))
	for _, def := range c.services {
		out = append(out, def)
	}
	return out
}

// SelectProvisioner picks the provisioner config to use: the one named by
// preferredName if set, the sole configured provisioner if there is exactly
// one, or the first provisioner as a last resort.
func (c *Catalog) SelectProvisioner(preferredName string) (*ProvisionerConfig, error) {
	if len(c.Provisioners) == 0 {
		return nil, NewConfigError("", "no provisioners found in configuration")
	}
	if preferredName != "" {
		for i := range c.Provisioners {
			if c.Provisioners[i].Name == preferredName {
				return &c.Provisioners[i], nil
			}
		}
		return nil, NewConfigError("", "no provisioner named "+preferredName+" in configuration")
	}
	if len(c.Provisioners) == 1 {
		return &c.Provisioners[0], nil
	}
	return &c.Provisioners[0], nil
}
