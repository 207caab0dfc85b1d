package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/everkind/backend/pkg/utils"
)

// TrustedHosts rejects requests whose Host header is not in the allow-list.
// Entries may be exact hosts, "*.example.com" wildcards or "*" for any host.
func TrustedHosts(allowed []string) func(http.Handler) http.Handler {
	patterns := make([]string, 0, len(allowed))
	for _, h := range allowed {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(patterns, r.Host) {
				utils.RespondDetail(w, http.StatusBadRequest, "Invalid host header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hostAllowed(patterns []string, rawHost string) bool {
	host := strings.ToLower(rawHost)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	for _, p := range patterns {
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "*."):
			if strings.HasSuffix(host, p[1:]) {
				return true
			}
		case p == host:
			return true
		}
	}
	return false
}
