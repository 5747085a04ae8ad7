package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// DefaultTelegramAPIBase is the production Bot API endpoint. Tests point
// the notifier at a local httptest server instead.
const DefaultTelegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages to a Telegram chat through the Bot
// API. Messages are sent with HTML parse mode and link previews
// suppressed, matching how the charting alerts are formatted.
type TelegramNotifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramNotifier creates a Telegram sink. apiBase may be empty to
// use the production endpoint.
func NewTelegramNotifier(apiBase, botToken, chatID string) *TelegramNotifier {
	if apiBase == "" {
		apiBase = DefaultTelegramAPIBase
	}
	return &TelegramNotifier{
		apiBase:  apiBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramNotifier) Configured() bool {
	return t.botToken != "" && t.chatID != ""
}

// ChatID returns the configured destination chat.
func (t *TelegramNotifier) ChatID() string {
	return t.chatID
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		return fmt.Errorf("telegram bot token or chat id not configured")
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, url.PathEscape(t.botToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	return decodeTelegramResponse(resp)
}

// SendPhoto uploads an image with a caption to the chat. Used by the
// daily report generator.
func (t *TelegramNotifier) SendPhoto(ctx context.Context, photo io.Reader, filename, caption string) error {
	if !t.Configured() {
		return fmt.Errorf("telegram bot token or chat id not configured")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("chat_id", t.chatID); err != nil {
		return fmt.Errorf("build telegram photo payload: %w", err)
	}
	if err := mw.WriteField("caption", caption); err != nil {
		return fmt.Errorf("build telegram photo payload: %w", err)
	}
	if err := mw.WriteField("parse_mode", "HTML"); err != nil {
		return fmt.Errorf("build telegram photo payload: %w", err)
	}
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("build telegram photo payload: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build telegram photo payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", t.apiBase, url.PathEscape(t.botToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram photo: %w", err)
	}
	defer resp.Body.Close()

	return decodeTelegramResponse(resp)
}

func decodeTelegramResponse(resp *http.Response) error {
	var result telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response (http %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		if result.Description != "" {
			return fmt.Errorf("telegram rejected message: %s", result.Description)
		}
		return fmt.Errorf("telegram rejected message (http %d)", resp.StatusCode)
	}
	return nil
}
