package api

import (
	"fmt"
	"net/http"

	"github.com/avolkov/qrforge/internal/server/auth"
	"github.com/gorilla/mux"
)

// NewRouter wires the API routes. The auth middleware guards everything
// under /api; /health stays open for probes.
func NewRouter(h *Handler, secretKey []byte) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(secretKey))
	api.HandleFunc("/encode", h.Encode).Methods(http.MethodPost)
	api.HandleFunc("/payload/validate", h.ValidatePayload).Methods(http.MethodPost)
	api.HandleFunc("/batch", h.Batch).Methods(http.MethodPost)
	api.HandleFunc("/template", h.Template).Methods(http.MethodGet)

	return r
}
