package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication so probes and scrapers need no key.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware validates the Authorization header against the
// configured API keys. An empty key list disables authentication.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if msg := checkBearer(r.Header.Get("Authorization"), keys); msg != "" {
				writeError(w, http.StatusUnauthorized, msg, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns a rejection message, or "" when the header carries
// a valid key. Comparison is constant-time per key.
func checkBearer(header string, keys []string) string {
	if header == "" {
		return "missing authorization header"
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "authorization header must use Bearer scheme"
	}
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(token), []byte(k)) == 1 {
			return ""
		}
	}
	return "invalid api key"
}
