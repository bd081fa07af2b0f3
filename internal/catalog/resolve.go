package catalog

// EffectiveDefinition computes the layered effective definition for an
// instance of serviceName with the given profile and variety selections
// (either or both may be empty). It is a pure function of the catalog: no
// I/O, no mutation (§4.1).
func (c *Catalog) EffectiveDefinition(serviceName, profile, variety string) (*EffectiveDefinition, error) {
	def, ok := c.GetService(serviceName)
	if !ok {
		return nil, NewUnknownServiceError(serviceName)
	}

	if len(def.Profiles) > 0 && profile == "" {
		return nil, NewSelectionRequiredError(serviceName, "profile")
	}
	if len(def.Varieties) > 0 && variety == "" {
		return nil, NewSelectionRequiredError(serviceName, "variety")
	}

	var profileLayer, varietyLayer Layer

	if profile != "" {
		p, ok := def.Profiles[profile]
		if !ok {
			return nil, NewUnknownProfileError(serviceName, profile)
		}
		profileLayer = p
	}
	if variety != "" {
		v, ok := def.Varieties[variety]
		if !ok {
			return nil, NewUnknownVarietyError(serviceName, variety)
		}
		varietyLayer = v
	}

	eff := &EffectiveDefinition{
		ServiceName: serviceName,
		Type:        def.Type,
		Profile:     profile,
		Variety:     variety,
		Image:       chooseString(profileLayer.Image, varietyLayer.Image, def.Image),
		Command:     chooseStrings(profileLayer.Command, varietyLayer.Command, def.Command),
		Entrypoint:  chooseStrings(profileLayer.Entrypoint, varietyLayer.Entrypoint, def.Entrypoint),
		DependsOn:   chooseStrings(profileLayer.DependsOn, varietyLayer.DependsOn, def.DependsOn),
		EnvFile:     chooseStrings(profileLayer.EnvFile, varietyLayer.EnvFile, def.EnvFile),
		Environment: mergeEnv(def.Environment, varietyLayer.Environment, profileLayer.Environment),
		Footprint:   chooseFootprint(profileLayer.Footprint, varietyLayer.Footprint, def.Footprint),
	}

	return eff, nil
}

// chooseString returns the first non-empty string in precedence order
// (profile, variety, base), per §3's scalar-field rule.
func chooseString(profileVal, varietyVal, baseVal string) string {
	if profileVal != "" {
		return profileVal
	}
	if varietyVal != "" {
		return varietyVal
	}
	return baseVal
}

// chooseStrings returns the first non-empty slice in precedence order
// (profile, variety, base); this is replacement, not concatenation, per §3's
// list-field rule.
func chooseStrings(profileVal, varietyVal, baseVal []string) []string {
	if len(profileVal) > 0 {
		return profileVal
	}
	if len(varietyVal) > 0 {
		return varietyVal
	}
	return baseVal
}

// chooseFootprint picks the first footprint spec carrying a non-zero
// run_time, in profile, variety, base order, following the same precedence
// rule as every other scalar-like field.
func chooseFootprint(profileVal, varietyVal, baseVal FootprintSpec) FootprintSpec {
	if profileVal.RunTime != 0 {
		return profileVal
	}
	if varietyVal.RunTime != 0 {
		return varietyVal
	}
	return baseVal
}

// mergeEnv performs the three-way merge described in §3: base ∪ variety ∪
// profile, with later layers overriding matching keys.
func mergeEnv(base, variety, profile map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(variety)+len(profile))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range variety {
		merged[k] = v
	}
	for k, v := range profile {
		merged[k] = v
	}
	return merged
}
