package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serialises v with the given status. Encoding failures after the
// header has been written cannot be reported to the client and are dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
