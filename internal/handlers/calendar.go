package handlers

import (
	"net/http"

	"github.com/mdxcapital/capitalflow/internal/calendar"
	"github.com/mdxcapital/capitalflow/internal/httputil"
)

// CalendarHandler serves the filtered economic calendar consumed by the
// site's events widget.
type CalendarHandler struct {
	client *calendar.Client
}

func NewCalendarHandler(client *calendar.Client) *CalendarHandler {
	return &CalendarHandler{client: client}
}

// Handle serves GET /api/economic-calendar.
func (h *CalendarHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	events, err := h.client.HighImpactEvents(r.Context())
	if err != nil {
		httputil.WriteError(w, http.StatusBadGateway, "calendar upstream unavailable")
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}

	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
