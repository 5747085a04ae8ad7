package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", "-1001548592148")
	err := n.Send(context.Background(), "🚀 BTC 4H full send bullish breakout")
	require.NoError(t, err)

	assert.Equal(t, "-1001548592148", got.ChatID)
	assert.Equal(t, "🚀 BTC 4H full send bullish breakout", got.Text)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
}

func TestTelegramNotifier_RejectionIncludesDiagnostic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", "nope")
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", "123")
	err := n.Send(context.Background(), "hello")
	assert.Error(t, err)
}

func TestTelegramNotifier_Unconfigured(t *testing.T) {
	n := NewTelegramNotifier("", "", "")
	assert.False(t, n.Configured())
	assert.Error(t, n.Send(context.Background(), "hello"))
}

func TestTelegramNotifier_SendPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "42", r.FormValue("chat_id"))
		assert.Equal(t, "daily report", r.FormValue("caption"))
		assert.Equal(t, "HTML", r.FormValue("parse_mode"))

		_, header, err := r.FormFile("photo")
		require.NoError(t, err)
		assert.Equal(t, "chart.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(srv.URL, "test-token", "42")
	err := n.SendPhoto(context.Background(), strings.NewReader("png-bytes"), "chart.png", "daily report")
	require.NoError(t, err)
}
