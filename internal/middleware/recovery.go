package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/periodize/internal/telemetry/metrics"
	"github.com/2beens/periodize/pkg"

	log "github.com/sirupsen/logrus"
)

// internalErrorBody mirrors the api error envelope, so clients parse a
// recovered panic the same way as any other 500.
var internalErrorBody = map[string]map[string]string{
	"error": {"kind": "internal", "message": "internal error"},
}

// PanicRecovery turns a panicking handler into a 500 with the usual JSON error
// body. The stack is logged and counted so one bad route doesn't take the API down.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				reportPanic(metricsManager, req, recovered)
				pkg.WriteJSON(w, http.StatusInternalServerError, internalErrorBody)
			}()
			next.ServeHTTP(w, req)
		})
	}
}

func reportPanic(metricsManager *metrics.Manager, req *http.Request, recovered any) {
	log.WithFields(log.Fields{
		"method": req.Method,
		"route":  routeTemplate(req),
		"path":   req.URL.Path,
		"stack":  string(debug.Stack()),
	}).Errorf("handler panicked: %s", fmt.Sprint(recovered))

	if metricsManager != nil {
		metricsManager.CounterHandleRequestPanic.Inc()
	}
}
