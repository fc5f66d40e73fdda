// Package handlers maps the forum API's HTTP surface onto the store
// contracts. The stores speak sentinel errors; everything transport-level
// (status codes, error envelopes) lives here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/api"
	"github.com/example/forum-platform/internal/platform/httpserver"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		api.BadRequest(w, "INVALID_JSON", "invalid JSON", requestID(r), nil)
		return false
	}
	return true
}

func requestID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

// writeStoreError handles the two non-conflict store outcomes. Conflicts
// carry operation-specific payloads and are mapped at each call site.
func writeStoreError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		api.NotFound(w, "NOT_FOUND", notFoundMsg, requestID(r))
		return
	}
	log.Error("store failure",
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID(r)),
		zap.Error(err))
	api.Internal(w, requestID(r))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return fallback
}

func queryBool(r *http.Request, name string) bool {
	return strings.TrimSpace(r.URL.Query().Get(name)) == "true"
}
