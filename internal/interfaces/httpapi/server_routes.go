package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, fn)
	}

	mux.Handle("POST /v1/internal/jobs/run-cycle", guard(handler.RunCycleJob))
	mux.Handle("POST /v1/internal/bets", guard(handler.PlaceBet))
	mux.Handle("GET /v1/internal/bets", guard(handler.FindBet))
	mux.Handle("GET /v1/internal/groups/{groupID}", guard(handler.GetGroup))
}
