package handlers

import (
	"net/http"

	"github.com/mdxcapital/capitalflow/internal/httputil"
	"github.com/mdxcapital/capitalflow/internal/market"
)

// MarketHandler serves the sentiment proxy endpoints consumed by the
// site widgets.
type MarketHandler struct {
	fearGreed *market.FearGreedClient
	longShort *market.LongShortClient
}

func NewMarketHandler(fearGreed *market.FearGreedClient, longShort *market.LongShortClient) *MarketHandler {
	return &MarketHandler{fearGreed: fearGreed, longShort: longShort}
}

// FearGreed serves GET /api/fear-greed.
func (h *MarketHandler) FearGreed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fg := h.fearGreed.Fetch(r.Context())

	// The index updates daily; let intermediate caches hold it.
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")
	httputil.WriteJSON(w, http.StatusOK, fg)
}

// LongShortRatio serves GET /api/long-short-ratio?period=1H.
func (h *MarketHandler) LongShortRatio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ls := h.longShort.Fetch(r.Context(), r.URL.Query().Get("period"))

	w.Header().Set("Cache-Control", "public, s-maxage=60, stale-while-revalidate=120")
	httputil.WriteJSON(w, http.StatusOK, ls)
}
