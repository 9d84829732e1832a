package middlewares

import (
	"net/http"
	"os"
	"strings"
)

// CorsMiddleware reflects the request origin when it is in the
// ALLOWED_ORIGINS list (comma separated). With no list configured it
// allows the local dev frontend.
func CorsMiddleware(next http.Handler) http.Handler {
	allowed := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	if os.Getenv("ALLOWED_ORIGINS") == "" {
		allowed = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, o := range allowed {
			if strings.TrimSpace(o) == origin && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
