package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/mdxcapital/capitalflow/internal/calendar"
	"github.com/mdxcapital/capitalflow/internal/httputil"
	"github.com/mdxcapital/capitalflow/internal/logging"
)

// DigestHandler serves the scheduled economic-digest endpoint. The
// scheduler calls it with a bearer token; operators can preview with
// ?test=true.
type DigestHandler struct {
	svc        *calendar.Service
	cronSecret string
	logger     *logging.Logger
}

func NewDigestHandler(svc *calendar.Service, cronSecret string, logger *logging.Logger) *DigestHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DigestHandler{svc: svc, cronSecret: cronSecret, logger: logger}
}

// Handle serves GET|POST /api/cron/economic-alerts.
//
// Scheduled runs authenticate with "Authorization: Bearer <secret>"
// and always deliver. ?test=true skips auth and returns the digest
// preview without sending; adding &send=true to a test run delivers it.
func (h *DigestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	testMode := q.Get("test") == "true"

	send := true
	if testMode {
		send = q.Get("send") == "true"
	} else if !h.authorized(r) {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.svc.Run(r.Context(), send)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "digest run failed", logging.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *DigestHandler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	expected := "Bearer " + h.cronSecret
	return subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(expected)) == 1
}
