package middleware

import (
	"io"
	"net/http"
)

// maxRequestBody caps request bodies; a year of day logs stays well below it.
const maxRequestBody = 8 << 20

// DrainAndCloseRequest limits the request body, and drains and closes it once
// the handler is done so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
