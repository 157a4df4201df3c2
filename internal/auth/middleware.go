package auth

import (
	"net/http"
	"strings"

	"github.com/akshayfabrics/backend-slip/internal/common"
)

// Middleware guards routes behind device token authentication.
type Middleware struct {
	Issuer TokenIssuer
}

// RequireDevice enforces a valid device token and attaches the device
// identifier to the request context.
func (m Middleware) RequireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		deviceID, err := m.Issuer.Parse(token)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithDeviceID(r.Context(), deviceID)))
	})
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
