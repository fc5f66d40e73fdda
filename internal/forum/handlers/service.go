package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/api"
)

// ServiceStatus handles GET /api/service/status
func ServiceStatus(ss store.ServiceStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := ss.Status(r.Context())
		if err != nil {
			writeStoreError(w, r, log, err, "status unavailable")
			return
		}
		api.WriteJSON(w, http.StatusOK, st)
	}
}

// ServiceClear handles POST /api/service/clear
func ServiceClear(ss store.ServiceStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ss.Clear(r.Context()); err != nil {
			writeStoreError(w, r, log, err, "clear unavailable")
			return
		}
		log.Warn("database cleared", zap.String("request_id", requestID(r)))
		w.WriteHeader(http.StatusOK)
	}
}
