package controlplane

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/FredworkLemmas/ozwald-sub000/pkg/logging"
)

const bearerPrefix = "Bearer "

// bearerAuth wraps next with the §4.8 authentication gate. The comparison is
// constant-time so response latency cannot be used to brute-force the key.
func bearerAuth(systemKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(systemKey)) != 1 {
			logging.Audit(logging.AuditEvent{
				Action:  "control_plane_auth",
				Outcome: "denied",
				Target:  r.URL.Path,
			})
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
