package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mdxcapital/capitalflow/internal/httputil"
	"github.com/mdxcapital/capitalflow/internal/store"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

// Health serves GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready serves GET /readyz. A configured store must answer a read
// within 2s; an unconfigured store is considered ready since the relay
// path works without persistence.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Backend() == store.BackendNone {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready", "storage": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.store.List(ctx); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not ready",
			"storage": err.Error(),
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready", "storage": h.store.Backend()})
}
