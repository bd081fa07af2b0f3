package catalog

import "fmt"

// ConfigError wraps a malformed-catalog or invalid-selection condition
// detected while loading or resolving the catalog. It is never swallowed:
// callers either fail process startup with it or translate it to a 400.
type ConfigError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config error in %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// NewConfigError builds a ConfigError without an underlying cause.
func NewConfigError(path, message string) *ConfigError {
	return &ConfigError{Path: path, Message: message}
}

// NewConfigErrorWithCause builds a ConfigError wrapping an underlying error.
func NewConfigErrorWithCause(path, message string, cause error) *ConfigError {
	return &ConfigError{Path: path, Message: message, Cause: cause}
}

// UnknownServiceError is returned when a name does not match any
// ServiceDefinition in the catalog.
type UnknownServiceError struct {
	Service string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service %q", e.Service)
}

func NewUnknownServiceError(service string) *UnknownServiceError {
	return &UnknownServiceError{Service: service}
}

// UnknownProfileError is returned when a profile name does not match any
// profile declared by the service.
type UnknownProfileError struct {
	Service string
	Profile string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("service %q has no profile %q", e.Service, e.Profile)
}

func NewUnknownProfileError(service, profile string) *UnknownProfileError {
	return &UnknownProfileError{Service: service, Profile: profile}
}

// UnknownVarietyError is returned when a variety name does not match any
// variety declared by the service.
type UnknownVarietyError struct {
	Service string
	Variety string
}

func (e *UnknownVarietyError) Error() string {
	return fmt.Sprintf("service %q has no variety %q", e.Service, e.Variety)
}

func NewUnknownVarietyError(service, variety string) *UnknownVarietyError {
	return &UnknownVarietyError{Service: service, Variety: variety}
}

// AmbiguousTokenError is returned when an operator-supplied bracket token
// (§6.5) matches both a profile and a variety name on the same service.
type AmbiguousTokenError struct {
	Service string
	Token   string
}

func (e *AmbiguousTokenError) Error() string {
	return fmt.Sprintf("token %q for service %q matches both a profile and a variety; qualify it", e.Token, e.Service)
}

func NewAmbiguousTokenError(service, token string) *AmbiguousTokenError {
	return &AmbiguousTokenError{Service: service, Token: token}
}

// SelectionRequiredError is returned when a service declares profiles or
// varieties but the caller did not select one (I2).
type SelectionRequiredError struct {
	Service string
	Kind    string // "profile" or "variety"
}

func (e *SelectionRequiredError) Error() string {
	return fmt.Sprintf("service %q requires a %s selection", e.Service, e.Kind)
}

func NewSelectionRequiredError(service, kind string) *SelectionRequiredError {
	return &SelectionRequiredError{Service: service, Kind: kind}
}
