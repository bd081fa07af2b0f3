package controlplane

// AuthError represents a missing or mismatched bearer token (§7 "AuthError").
// It is never retried; the HTTP layer always maps it to 401.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "auth error: " + e.Reason
}
