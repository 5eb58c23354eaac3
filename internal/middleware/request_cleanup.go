package middleware

import (
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// maxDrainBytes caps how much of an unread request body is discarded. Anything
// bigger is cheaper to drop along with the keep-alive connection.
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards the part of the request body a handler did not
// consume, up to maxDrainBytes, then closes it.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			if req.Body == nil || req.Body == http.NoBody {
				return
			}
			discardBody(req)
		})
	}
}

func discardBody(req *http.Request) {
	drained, err := io.CopyN(io.Discard, req.Body, maxDrainBytes)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Tracef("drain %s %s: %s", req.Method, req.URL.Path, err)
	}
	if drained == maxDrainBytes {
		log.Tracef("%s %s: left more than %d unread bytes", req.Method, req.URL.Path, maxDrainBytes)
	}
	if err := req.Body.Close(); err != nil {
		log.Tracef("close body %s %s: %s", req.Method, req.URL.Path, err)
	}
}
