package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdxcapital/capitalflow/internal/calendar"
)

// digestClock pins the digest to mid-morning ET so the fixture event an
// hour later always falls inside the same local day, regardless of when
// the test runs.
var digestClock = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func digestTestHandler(t *testing.T, notifier *stubNotifier, secret string) *DigestHandler {
	t.Helper()

	eventTime := digestClock.Add(time.Hour)
	feed := `[{"title":"FOMC Statement","country":"USD","date":"` +
		eventTime.Format(time.RFC3339) + `","impact":"High","forecast":"","previous":""}]`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	t.Cleanup(upstream.Close)

	client := calendar.NewClient(upstream.URL, time.Hour, 5*time.Second)
	svc := calendar.NewService(client, notifier, nil)
	svc.SetNow(func() time.Time { return digestClock })
	return NewDigestHandler(svc, secret, nil)
}

func TestDigestRequiresCronSecret(t *testing.T) {
	h := digestTestHandler(t, &stubNotifier{}, "cron-secret")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	h.Handle(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDigestScheduledRunSends(t *testing.T) {
	notifier := &stubNotifier{}
	h := digestTestHandler(t, notifier, "cron-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result calendar.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Sent)
	assert.Equal(t, 1, result.EventCount)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "FOMC Statement")
}

func TestDigestTestModePreview(t *testing.T) {
	notifier := &stubNotifier{}
	h := digestTestHandler(t, notifier, "cron-secret")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts?test=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result calendar.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Sent)
	assert.Empty(t, notifier.sent)
	assert.Contains(t, result.Message, "FOMC Statement")
}

func TestDigestTestModeWithSend(t *testing.T) {
	notifier := &stubNotifier{}
	h := digestTestHandler(t, notifier, "cron-secret")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts?test=true&send=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notifier.sent, 1)
}

func TestDigestNoSecretConfiguredRejectsScheduledRuns(t *testing.T) {
	h := digestTestHandler(t, &stubNotifier{}, "")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/cron/economic-alerts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
