package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/tablekit/internal/logging"
)

// APIKeyAuth returns middleware that requires a valid X-API-Key header when
// required is set. With required set and no keys, every request is rejected.
func APIKeyAuth(required bool, keys []string) func(http.Handler) http.Handler {
	if !required {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			switch {
			case key == "":
				reject(w, r, http.StatusUnauthorized, "missing API key", "AUTH001")
			case !validKey(key, keys):
				reject(w, r, http.StatusForbidden, "invalid API key", "AUTH002")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, status int, msg, code string) {
	logging.FromContext(r.Context()).Warn("auth: "+msg,
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `","code":"` + code + `"}`))
}

// validKey compares key against every configured key in constant time.
func validKey(key string, keys []string) bool {
	valid := 0
	for _, k := range keys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return valid == 1
}
