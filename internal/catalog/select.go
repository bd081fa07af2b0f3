package catalog

// ResolveToken resolves a bracketed selection token (§6.5's `service[token]`
// CLI syntax) against a service's profiles and varieties. It returns
// (profile, variety) with whichever is empty left unset. If the token
// matches both a profile and a variety name, resolution is ambiguous and the
// caller must qualify it explicitly.
func (c *Catalog) ResolveToken(serviceName, token string) (profile, variety string, err error) {
	def, ok := c.GetService(serviceName)
	if !ok {
		return "", "", NewUnknownServiceError(serviceName)
	}

	_, isProfile := def.Profiles[token]
	_, isVariety := def.Varieties[token]

	switch {
	case isProfile && isVariety:
		return "", "", NewAmbiguousTokenError(serviceName, token)
	case isProfile:
		return token, "", nil
	case isVariety:
		return "", token, nil
	default:
		return "", "", NewConfigError("", "token "+token+" matches neither a profile nor a variety of service "+serviceName)
	}
}
