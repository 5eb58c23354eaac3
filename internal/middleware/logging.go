package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest writes one debug line per finished request, with its status and
// latency. Health checks stay at trace level to keep the log readable.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			started := time.Now()
			recorder := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, req)

			entry := log.WithFields(log.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   recorder.statusCode,
				"duration": time.Since(started).String(),
				"ua":       req.UserAgent(),
			})
			if req.URL.Path == "/health" {
				entry.Trace("request served")
				return
			}
			entry.Debug("request served")
		})
	}
}
