package handlers

import (
	"net/http"
	"time"

	"github.com/mdxcapital/capitalflow/internal/feed"
	"github.com/mdxcapital/capitalflow/internal/httputil"
	"github.com/mdxcapital/capitalflow/internal/models"
)

// SignalsHandler serves the public delayed signal feed.
type SignalsHandler struct {
	svc   *feed.Service
	delay time.Duration
	limit int
}

func NewSignalsHandler(svc *feed.Service, delay time.Duration, limit int) *SignalsHandler {
	if delay <= 0 {
		delay = feed.DefaultDelayHours * time.Hour
	}
	if limit <= 0 {
		limit = feed.DefaultLimit
	}
	return &SignalsHandler{svc: svc, delay: delay, limit: limit}
}

// Handle serves GET /api/signals.
func (h *SignalsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !h.svc.Configured() {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"signals": []models.SignalRecord{},
			"message": "Signal storage not configured",
		})
		return
	}

	signals, total := h.svc.DelayedFeed(r.Context(), h.delay, h.limit)
	if signals == nil {
		signals = []models.SignalRecord{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"signals":    signals,
		"total":      total,
		"delayed":    true,
		"delayHours": int(h.delay / time.Hour),
	})
}
