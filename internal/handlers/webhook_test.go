package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdxcapital/capitalflow/internal/ingest"
	"github.com/mdxcapital/capitalflow/internal/notify"
	"github.com/mdxcapital/capitalflow/internal/store"
)

type stubNotifier struct {
	sent []string
	err  error
}

func (s *stubNotifier) Send(ctx context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *stubNotifier) Configured() bool { return true }

func newWebhookHandler(t *testing.T, notifier notify.Notifier, secret string) (*WebhookHandler, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(10)
	svc := ingest.NewService(notifier, st, nil, nil)
	return NewWebhookHandler(svc, notifier, secret, st.Backend(), nil), st
}

func TestWebhookProbe(t *testing.T) {
	h, _ := newWebhookHandler(t, &stubNotifier{}, "")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/webhook", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["telegram_configured"])
	assert.Equal(t, false, body["secured"])
	assert.Equal(t, store.BackendMemory, body["storage_backend"])
}

func TestWebhookIngestSuccess(t *testing.T) {
	notifier := &stubNotifier{}
	h, st := newWebhookHandler(t, notifier, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("🚀 BTC full send"))
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["persisted"])
	assert.NotEmpty(t, body["id"])

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "🚀 BTC full send", notifier.sent[0])

	records, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWebhookNotificationFailure(t *testing.T) {
	h, _ := newWebhookHandler(t, &stubNotifier{err: assert.AnError}, "")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("alert")))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to deliver alert", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestWebhookSecretRequired(t *testing.T) {
	h, _ := newWebhookHandler(t, &stubNotifier{}, "hunter2")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("alert")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("alert"))
	req.Header.Set("Authorization", "Bearer wrong")
	h.Handle(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookSecretAccepted(t *testing.T) {
	h, _ := newWebhookHandler(t, &stubNotifier{}, "hunter2")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("alert"))
	req.Header.Set("Authorization", "Bearer hunter2")
	h.Handle(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// TradingView cannot set headers, so the query form works too.
	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/webhook?secret=hunter2", strings.NewReader("alert")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	h, _ := newWebhookHandler(t, &stubNotifier{}, "")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodDelete, "/api/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
