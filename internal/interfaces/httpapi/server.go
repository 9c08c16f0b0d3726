package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

// NewRouter wires the routes behind, from outermost: tracing, access log, CORS and
// panic recovery.
func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerInternalRoutes(mux, handler, internalJobToken)

	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = CORS(corsAllowedOrigins, h)
	h = RequestLogging(logger, h)
	return RequestTracing(h)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
