package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/fitlog/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest writes one debug line per handled request. Bodies are never
// logged, they carry the whole fitness document.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !log.IsLevelEnabled(log.DebugLevel) {
				next.ServeHTTP(w, r)
				return
			}

			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(resp, r)

			log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   resp.statusCode,
				"duration": time.Since(begin).Round(time.Microsecond).String(),
				"ip":       pkg.ClientIP(r),
			}).Debug("request handled")
		})
	}
}
