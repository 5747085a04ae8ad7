// Package handlers wires HTTP routes to the ingest, feed, market and
// calendar services.
package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"

	"github.com/mdxcapital/capitalflow/internal/httputil"
	"github.com/mdxcapital/capitalflow/internal/ingest"
	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/notify"
)

// maxAlertBody caps webhook payload size. TradingView alerts are tiny;
// anything larger is not a legitimate alert.
const maxAlertBody = 64 * 1024

// WebhookHandler accepts TradingView alert posts.
type WebhookHandler struct {
	svc      *ingest.Service
	notifier notify.Notifier
	secret   string
	backend  string
	logger   *logging.Logger
}

func NewWebhookHandler(svc *ingest.Service, notifier notify.Notifier, secret, storageBackend string, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{svc: svc, notifier: notifier, secret: secret, backend: storageBackend, logger: logger}
}

// Handle serves /api/webhook. GET is a liveness probe for alert setup;
// POST ingests an alert.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.probe(w, r)
	case http.MethodPost:
		h.ingest(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *WebhookHandler) probe(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"message":             "Webhook endpoint is live. POST TradingView alerts here.",
		"telegram_configured": h.notifier != nil && h.notifier.Configured(),
		"secured":             h.secret != "",
		"storage_backend":     h.backend,
	})
}

func (h *WebhookHandler) ingest(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid or missing webhook secret")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAlertBody))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result := h.svc.Ingest(r.Context(), body)
	if !result.Notified {
		// Delivery is the point of the endpoint; surface the sink's
		// diagnostic so TradingView's webhook log shows the cause.
		httputil.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "Failed to deliver alert",
			"details": result.NotifyErr.Error(),
		})
		return
	}

	// Storage problems never fail an ingestion that was delivered.
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Alert relayed",
		"persisted": result.Persisted,
		"id":        result.Record.ID,
	})
}

// authorized checks the optional shared secret, accepted either as a
// bearer token or a ?secret= query parameter (TradingView cannot set
// headers).
func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	candidate := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if candidate == r.Header.Get("Authorization") {
		candidate = ""
	}
	if candidate == "" {
		candidate = r.URL.Query().Get("secret")
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.secret)) == 1
}
